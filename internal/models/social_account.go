package models

import (
	"time"
)

// SocialAccount represents a connected social media account whose stats are
// refreshed as campaigns run against it
type SocialAccount struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID        string    `json:"user_id" gorm:"not null;index;type:uuid"`
	Platform      string    `json:"platform" gorm:"type:varchar(50);not null;index"` // tiktok, instagram, facebook
	Username      string    `json:"username" gorm:"type:varchar(255);not null"`
	FollowerCount int       `json:"follower_count" gorm:"default:0"`
	ViewCount     int       `json:"view_count" gorm:"default:0"`
	LikeCount     int       `json:"like_count" gorm:"default:0"`
	LastUpdated   time.Time `json:"last_updated"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for the SocialAccount model
func (SocialAccount) TableName() string {
	return "social_accounts"
}
