package scheduler

import (
	"context"
	"time"

	"github.com/X-Sam-aki/BoosterPro/internal/models"
)

// ProgressStore is the durable view of campaign state the scheduler runs
// against. Implementations must be safe for concurrent use by many runners
// and must support read-your-writes: a campaign read immediately after
// UpdateCampaign returns the updated record.
type ProgressStore interface {
	// GetActiveCampaigns returns all campaigns with status "active".
	GetActiveCampaigns(ctx context.Context) ([]*models.GrowthCampaign, error)

	// GetCampaign returns the campaign with the given ID, or (nil, nil) if
	// no such campaign exists.
	GetCampaign(ctx context.Context, id string) (*models.GrowthCampaign, error)

	// UpdateCampaign applies the non-nil fields of update to the campaign
	// and returns the stored record.
	UpdateCampaign(ctx context.Context, id string, update *ProgressUpdate) (*models.GrowthCampaign, error)
}

// ProgressUpdate is a partial campaign update. Nil fields are left untouched.
type ProgressUpdate struct {
	Status              *string
	CurrentValue        *int
	LastActionAt        *time.Time
	ConsecutiveFailures *int
	LastError           *string
}

// IsEmpty reports whether the update would change nothing
func (u *ProgressUpdate) IsEmpty() bool {
	return u.Status == nil && u.CurrentValue == nil && u.LastActionAt == nil &&
		u.ConsecutiveFailures == nil && u.LastError == nil
}

// Apply copies the non-nil fields of the update onto the campaign
func (u *ProgressUpdate) Apply(c *models.GrowthCampaign) {
	if u.Status != nil {
		c.Status = *u.Status
	}
	if u.CurrentValue != nil {
		c.CurrentValue = *u.CurrentValue
	}
	if u.LastActionAt != nil {
		c.LastActionAt = u.LastActionAt
	}
	if u.ConsecutiveFailures != nil {
		c.ConsecutiveFailures = *u.ConsecutiveFailures
	}
	if u.LastError != nil {
		c.LastError = *u.LastError
	}
}
