package scheduler

import (
	"time"

	"github.com/X-Sam-aki/BoosterPro/internal/models"
)

// Config holds the scheduler policy knobs
type Config struct {
	// FailureCeiling is the number of consecutive transient failures that
	// escalates to a terminal failed status.
	FailureCeiling int

	// BackoffBase is the base delay for exponential backoff after a
	// transient failure. Zero means "use the campaign's own interval".
	BackoffBase time.Duration

	// BackoffCapExponent caps the backoff growth at base * 2^cap.
	BackoffCapExponent int

	// JitterFraction bounds the additive random slack on each cadence
	// delay; must be in [0, 1).
	JitterFraction float64

	// ActionTimeout bounds a single Perform call. A call that outlives it
	// counts as a transient failure.
	ActionTimeout time.Duration
}

// DefaultConfig returns the production defaults
func DefaultConfig() Config {
	return Config{
		FailureCeiling:     5,
		BackoffBase:        0,
		BackoffCapExponent: 6,
		JitterFraction:     0.1,
		ActionTimeout:      30 * time.Second,
	}
}

// normalize fills in zero values a caller left unset
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.FailureCeiling <= 0 {
		c.FailureCeiling = def.FailureCeiling
	}
	if c.BackoffCapExponent <= 0 {
		c.BackoffCapExponent = def.BackoffCapExponent
	}
	if c.JitterFraction < 0 || c.JitterFraction >= 1 {
		c.JitterFraction = def.JitterFraction
	}
	if c.ActionTimeout <= 0 {
		c.ActionTimeout = def.ActionTimeout
	}
	return c
}

// Notifier receives campaign lifecycle transitions as they are persisted.
// Implementations must not block; a nil notifier is valid and means
// transitions are only logged.
type Notifier interface {
	CampaignTransitioned(campaign *models.GrowthCampaign, event string)
}

// Lifecycle events reported through Notifier
const (
	EventStarted   = "started"
	EventPaused    = "paused"
	EventResumed   = "resumed"
	EventCancelled = "cancelled"
	EventCompleted = "completed"
	EventFailed    = "failed"
)
