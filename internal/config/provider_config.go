package config

import (
	"os"
	"strconv"
	"time"
)

// ProviderConfig contains SMM provider API configuration
type ProviderConfig struct {
	Name    string            `json:"name"`
	BaseURL string            `json:"base_url"`
	APIKey  string            `json:"api_key"`
	Routes  map[string]string `json:"routes"`
	Timeout time.Duration     `json:"timeout"`
}

// GetProviderConfig returns SMM provider configuration from environment variables
func GetProviderConfig() *ProviderConfig {
	timeoutSeconds, _ := strconv.Atoi(getEnv("PROVIDER_TIMEOUT_SECONDS", "30"))

	return &ProviderConfig{
		Name:    getEnv("PROVIDER_NAME", "smm-provider"),
		BaseURL: getEnv("PROVIDER_BASE_URL", "http://localhost:9000"),
		APIKey:  getEnv("PROVIDER_API_KEY", ""),
		Routes: map[string]string{
			// Action execution
			"follow": "/api/v2/actions/follow",
			"view":   "/api/v2/actions/view",
			"like":   "/api/v2/actions/like",

			// Account measurement
			"stats": "/api/v2/accounts/stats",
		},
		Timeout: time.Duration(timeoutSeconds) * time.Second,
	}
}

// getEnv gets environment variable with fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
