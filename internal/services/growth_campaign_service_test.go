package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/X-Sam-aki/BoosterPro/internal/models"
)

func validRequest() *models.CreateGrowthCampaignRequest {
	return &models.CreateGrowthCampaignRequest{
		Name:          "TikTok follower push",
		Platform:      models.PlatformTikTok,
		TargetAccount: "@creatorhandle",
		TargetMetric:  models.MetricFollowers,
		TargetValue:   10000,
		DailyLimit:    100,
	}
}

func TestValidateCampaignRequest(t *testing.T) {
	assert.NoError(t, validateCampaignRequest(validRequest()))

	req := validRequest()
	req.DailyLimit = 0
	assert.Error(t, validateCampaignRequest(req))

	req = validRequest()
	req.TargetValue = -5
	assert.Error(t, validateCampaignRequest(req))

	req = validRequest()
	start := time.Now()
	end := start.Add(-time.Hour)
	req.StartDate = &start
	req.EndDate = &end
	assert.Error(t, validateCampaignRequest(req))

	req = validRequest()
	end = start.Add(time.Hour)
	req.StartDate = &start
	req.EndDate = &end
	assert.NoError(t, validateCampaignRequest(req))
}

func TestToResponse(t *testing.T) {
	now := time.Date(2025, 1, 9, 10, 30, 0, 0, time.UTC)
	campaign := &models.GrowthCampaign{
		ID:           "c1",
		UserID:       "u1",
		Name:         "push",
		Platform:     models.PlatformInstagram,
		TargetMetric: models.MetricLikes,
		TargetValue:  200,
		CurrentValue: 50,
		Status:       models.CampaignStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	resp := toResponse(campaign)
	require.NotNil(t, resp)
	assert.Equal(t, "c1", resp.ID)
	assert.Equal(t, 25.0, resp.Progress)
	assert.Equal(t, "2025-01-09T10:30:00Z", resp.CreatedAt)
	assert.Nil(t, resp.LastActionAt)
}
