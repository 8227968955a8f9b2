package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/X-Sam-aki/BoosterPro/internal/models"
)

type SocialAccountRepository struct {
	db *gorm.DB
}

func NewSocialAccountRepository(db *gorm.DB) *SocialAccountRepository {
	return &SocialAccountRepository{db: db}
}

// Create creates a new social account
func (r *SocialAccountRepository) Create(account *models.SocialAccount) error {
	return r.db.Create(account).Error
}

// GetByUserID retrieves all social accounts for a specific user
func (r *SocialAccountRepository) GetByUserID(userID string) ([]*models.SocialAccount, error) {
	var accounts []*models.SocialAccount
	err := r.db.Where("user_id = ?", userID).Find(&accounts).Error
	return accounts, err
}

// GetByPlatformAndUsername retrieves an account by platform and username
func (r *SocialAccountRepository) GetByPlatformAndUsername(platform, username string) (*models.SocialAccount, error) {
	var account models.SocialAccount
	err := r.db.Where("platform = ? AND username = ?", platform, username).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// UpdateStats refreshes the cached platform counters for an account
func (r *SocialAccountRepository) UpdateStats(platform, username string, followers, views, likes int) error {
	return r.db.Model(&models.SocialAccount{}).
		Where("platform = ? AND username = ?", platform, username).
		Updates(map[string]interface{}{
			"follower_count": followers,
			"view_count":     views,
			"like_count":     likes,
			"last_updated":   time.Now(),
		}).Error
}

// Delete deletes a social account by user ID and account ID
func (r *SocialAccountRepository) Delete(userID, accountID string) error {
	return r.db.Where("user_id = ? AND id = ?", userID, accountID).
		Delete(&models.SocialAccount{}).Error
}
