package models

import (
	"time"
)

// Campaign statuses
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusActive    = "active"
	CampaignStatusPaused    = "paused"
	CampaignStatusCompleted = "completed"
	CampaignStatusFailed    = "failed"
	CampaignStatusCancelled = "cancelled"
)

// Target metrics a campaign can grow
const (
	MetricFollowers = "followers"
	MetricViews     = "views"
	MetricLikes     = "likes"
)

// Supported platforms
const (
	PlatformTikTok    = "tiktok"
	PlatformInstagram = "instagram"
	PlatformFacebook  = "facebook"
)

// GrowthCampaign represents a drip-growth campaign that belongs to a user
type GrowthCampaign struct {
	ID     string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID string `json:"user_id" gorm:"not null;index;type:uuid"`
	Name   string `json:"name" gorm:"type:varchar(255);not null"`

	// Target
	Platform      string `json:"platform" gorm:"type:varchar(50);not null;index"`  // tiktok, instagram, facebook
	TargetAccount string `json:"target_account" gorm:"type:varchar(255);not null"` // account username on the platform
	TargetMetric  string `json:"target_metric" gorm:"type:varchar(50);not null"`   // followers, views, likes
	TargetValue   int    `json:"target_value" gorm:"not null"`                     // absolute goal for the metric
	CurrentValue  int    `json:"current_value" gorm:"default:0"`                   // last measured value of the metric
	DailyLimit    int    `json:"daily_limit" gorm:"not null"`                      // max actions per rolling 24h

	// Scheduling
	Status    string     `json:"status" gorm:"type:varchar(20);not null;index;default:'draft'"`
	StartDate *time.Time `json:"start_date" gorm:"index"`
	EndDate   *time.Time `json:"end_date" gorm:"index"`

	// Execution progress
	LastActionAt        *time.Time `json:"last_action_at"`
	ConsecutiveFailures int        `json:"consecutive_failures" gorm:"default:0"`
	LastError           string     `json:"last_error" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the GrowthCampaign model
func (GrowthCampaign) TableName() string {
	return "growth_campaigns"
}

// IsTerminal reports whether the campaign can never run again
func (c *GrowthCampaign) IsTerminal() bool {
	switch c.Status {
	case CampaignStatusCompleted, CampaignStatusFailed, CampaignStatusCancelled:
		return true
	}
	return false
}

// IsComplete reports whether the campaign has reached its target
func (c *GrowthCampaign) IsComplete() bool {
	return c.CurrentValue >= c.TargetValue
}

// InWindow reports whether now falls inside the campaign's execution window.
// A nil bound is open-ended.
func (c *GrowthCampaign) InWindow(now time.Time) bool {
	if c.StartDate != nil && now.Before(*c.StartDate) {
		return false
	}
	if c.EndDate != nil && now.After(*c.EndDate) {
		return false
	}
	return true
}

// Progress returns the campaign completion percentage, capped at 100
func (c *GrowthCampaign) Progress() float64 {
	if c.TargetValue <= 0 {
		return 0
	}
	progress := float64(c.CurrentValue) / float64(c.TargetValue) * 100
	if progress > 100 {
		return 100
	}
	return progress
}

// CreateGrowthCampaignRequest represents the request to create a new growth campaign
type CreateGrowthCampaignRequest struct {
	Name          string     `json:"name" binding:"required" example:"TikTok follower push"`
	Platform      string     `json:"platform" binding:"required,oneof=tiktok instagram facebook" example:"tiktok"`
	TargetAccount string     `json:"target_account" binding:"required" example:"@creatorhandle"`
	TargetMetric  string     `json:"target_metric" binding:"required,oneof=followers views likes" example:"followers"`
	TargetValue   int        `json:"target_value" binding:"required,min=1" example:"10000"`
	DailyLimit    int        `json:"daily_limit" binding:"required,min=1" example:"100"`
	StartNow      bool       `json:"start_now" example:"true"`
	StartDate     *time.Time `json:"start_date" example:"2025-08-14T00:00:00Z"`
	EndDate       *time.Time `json:"end_date" example:"2025-09-14T23:59:59Z"`
}

// UpdateCampaignStatusRequest represents a status transition request
type UpdateCampaignStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active paused cancelled" example:"paused"`
}

// GrowthCampaignResponse represents the response for growth campaign operations
type GrowthCampaignResponse struct {
	ID                  string     `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	UserID              string     `json:"user_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	Name                string     `json:"name" example:"TikTok follower push"`
	Platform            string     `json:"platform" example:"tiktok"`
	TargetAccount       string     `json:"target_account" example:"@creatorhandle"`
	TargetMetric        string     `json:"target_metric" example:"followers"`
	TargetValue         int        `json:"target_value" example:"10000"`
	CurrentValue        int        `json:"current_value" example:"1500"`
	DailyLimit          int        `json:"daily_limit" example:"100"`
	Status              string     `json:"status" example:"active"`
	Progress            float64    `json:"progress" example:"15"`
	StartDate           *time.Time `json:"start_date"`
	EndDate             *time.Time `json:"end_date"`
	LastActionAt        *time.Time `json:"last_action_at"`
	ConsecutiveFailures int        `json:"consecutive_failures" example:"0"`
	LastError           string     `json:"last_error,omitempty"`
	CreatedAt           string     `json:"created_at" example:"2025-01-09T10:30:00Z"`
	UpdatedAt           string     `json:"updated_at" example:"2025-01-09T10:30:00Z"`
}
