package scheduler

import (
	"context"

	"github.com/X-Sam-aki/BoosterPro/internal/models"
)

// Outcome classifies the result of a single platform action
type Outcome int

const (
	// OutcomeSuccess means the action was performed
	OutcomeSuccess Outcome = iota
	// OutcomeTransientFailure means the action failed but may succeed later
	// (network blip, platform rate limit, timeout)
	OutcomeTransientFailure
	// OutcomePermanentFailure means retrying is pointless (target account
	// invalid, platform rejected the action for good, credential revoked)
	OutcomePermanentFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeTransientFailure:
		return "transient_failure"
	case OutcomePermanentFailure:
		return "permanent_failure"
	}
	return "unknown"
}

// ActionKind is the atomic platform operation a campaign performs
type ActionKind string

const (
	ActionFollow ActionKind = "follow"
	ActionView   ActionKind = "view"
	ActionLike   ActionKind = "like"
)

// ActionForMetric maps a campaign's target metric to the action that grows it
func ActionForMetric(metric string) ActionKind {
	switch metric {
	case models.MetricViews:
		return ActionView
	case models.MetricLikes:
		return ActionLike
	default:
		return ActionFollow
	}
}

// Stats holds a target account's current platform counters
type Stats struct {
	Followers int `json:"followers"`
	Views     int `json:"views"`
	Likes     int `json:"likes"`
}

// ValueFor returns the counter matching a campaign's target metric
func (s Stats) ValueFor(metric string) int {
	switch metric {
	case models.MetricViews:
		return s.Views
	case models.MetricLikes:
		return s.Likes
	default:
		return s.Followers
	}
}

// ActionExecutor performs platform actions and measures their effect. It is
// shared by all runners and must be safe for concurrent use; the scheduler
// issues at most one in-flight Perform call per campaign at a time.
type ActionExecutor interface {
	// Perform executes one atomic action for the campaign. An error is
	// treated the same as OutcomeTransientFailure unless the returned
	// outcome says otherwise.
	Perform(ctx context.Context, campaign *models.GrowthCampaign, action ActionKind) (Outcome, error)

	// GetCurrentStats measures the target account's counters. Best-effort:
	// runners tolerate failures here and keep the last known value.
	GetCurrentStats(ctx context.Context, platform, targetAccount string) (Stats, error)
}
