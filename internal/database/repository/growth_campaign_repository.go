package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/X-Sam-aki/BoosterPro/internal/models"
	"github.com/X-Sam-aki/BoosterPro/internal/scheduler"
)

// GrowthCampaignRepository is the persistence layer for growth campaigns.
// It also implements scheduler.ProgressStore, so the supervisor runs
// directly against the database.
type GrowthCampaignRepository struct {
	db *gorm.DB
}

func NewGrowthCampaignRepository(db *gorm.DB) *GrowthCampaignRepository {
	return &GrowthCampaignRepository{db: db}
}

// Create creates a new growth campaign
func (r *GrowthCampaignRepository) Create(campaign *models.GrowthCampaign) error {
	return r.db.Create(campaign).Error
}

// GetByUserID retrieves all campaigns for a specific user
func (r *GrowthCampaignRepository) GetByUserID(userID string) ([]*models.GrowthCampaign, error) {
	var campaigns []*models.GrowthCampaign
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&campaigns).Error
	return campaigns, err
}

// GetByUserIDAndID retrieves a campaign by user ID and campaign ID
func (r *GrowthCampaignRepository) GetByUserIDAndID(userID, campaignID string) (*models.GrowthCampaign, error) {
	var campaign models.GrowthCampaign
	err := r.db.Where("user_id = ? AND id = ?", userID, campaignID).
		First(&campaign).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// Delete deletes a campaign by user ID and campaign ID
func (r *GrowthCampaignRepository) Delete(userID, campaignID string) error {
	return r.db.Where("user_id = ? AND id = ?", userID, campaignID).
		Delete(&models.GrowthCampaign{}).Error
}

// GetActiveCampaigns returns all campaigns with status "active".
// Part of scheduler.ProgressStore.
func (r *GrowthCampaignRepository) GetActiveCampaigns(ctx context.Context) ([]*models.GrowthCampaign, error) {
	var campaigns []*models.GrowthCampaign
	err := r.db.WithContext(ctx).
		Where("status = ?", models.CampaignStatusActive).
		Find(&campaigns).Error
	return campaigns, err
}

// GetCampaign returns the campaign with the given ID, or (nil, nil) when no
// such campaign exists. Part of scheduler.ProgressStore.
func (r *GrowthCampaignRepository) GetCampaign(ctx context.Context, id string) (*models.GrowthCampaign, error) {
	var campaign models.GrowthCampaign
	err := r.db.WithContext(ctx).First(&campaign, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// UpdateCampaign applies the partial update and returns the stored record.
// Part of scheduler.ProgressStore.
func (r *GrowthCampaignRepository) UpdateCampaign(ctx context.Context, id string, update *scheduler.ProgressUpdate) (*models.GrowthCampaign, error) {
	values := map[string]interface{}{}
	if update.Status != nil {
		values["status"] = *update.Status
	}
	if update.CurrentValue != nil {
		values["current_value"] = *update.CurrentValue
	}
	if update.LastActionAt != nil {
		values["last_action_at"] = *update.LastActionAt
	}
	if update.ConsecutiveFailures != nil {
		values["consecutive_failures"] = *update.ConsecutiveFailures
	}
	if update.LastError != nil {
		values["last_error"] = *update.LastError
	}

	if len(values) > 0 {
		result := r.db.WithContext(ctx).
			Model(&models.GrowthCampaign{}).
			Where("id = ?", id).
			Updates(values)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}

	var campaign models.GrowthCampaign
	if err := r.db.WithContext(ctx).First(&campaign, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}
