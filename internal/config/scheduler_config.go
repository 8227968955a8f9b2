package config

import (
	"strconv"
	"time"

	"github.com/X-Sam-aki/BoosterPro/internal/scheduler"
)

// GetSchedulerConfig returns the campaign scheduler configuration from
// environment variables, falling back to the scheduler defaults
func GetSchedulerConfig() scheduler.Config {
	cfg := scheduler.DefaultConfig()

	if v, err := strconv.Atoi(getEnv("SCHEDULER_FAILURE_CEILING", "")); err == nil && v > 0 {
		cfg.FailureCeiling = v
	}
	if v, err := strconv.Atoi(getEnv("SCHEDULER_BACKOFF_BASE_SECONDS", "")); err == nil && v > 0 {
		cfg.BackoffBase = time.Duration(v) * time.Second
	}
	if v, err := strconv.Atoi(getEnv("SCHEDULER_BACKOFF_CAP_EXP", "")); err == nil && v > 0 {
		cfg.BackoffCapExponent = v
	}
	if v, err := strconv.ParseFloat(getEnv("SCHEDULER_JITTER_FRACTION", ""), 64); err == nil && v >= 0 && v < 1 {
		cfg.JitterFraction = v
	}
	if v, err := strconv.Atoi(getEnv("SCHEDULER_ACTION_TIMEOUT_SECONDS", "")); err == nil && v > 0 {
		cfg.ActionTimeout = time.Duration(v) * time.Second
	}

	return cfg
}
