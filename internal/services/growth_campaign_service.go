package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/X-Sam-aki/BoosterPro/internal/database/repository"
	"github.com/X-Sam-aki/BoosterPro/internal/models"
	"github.com/X-Sam-aki/BoosterPro/internal/scheduler"
)

type GrowthCampaignService struct {
	campaignRepo *repository.GrowthCampaignRepository
	accountRepo  *repository.SocialAccountRepository
	supervisor   *scheduler.Supervisor
	executor     scheduler.ActionExecutor
}

func NewGrowthCampaignService(
	campaignRepo *repository.GrowthCampaignRepository,
	accountRepo *repository.SocialAccountRepository,
	supervisor *scheduler.Supervisor,
	executor scheduler.ActionExecutor,
) *GrowthCampaignService {
	return &GrowthCampaignService{
		campaignRepo: campaignRepo,
		accountRepo:  accountRepo,
		supervisor:   supervisor,
		executor:     executor,
	}
}

// CreateAndStart creates a new growth campaign for a user. When the request
// asks to start immediately the campaign goes live under the supervisor;
// otherwise it stays a draft.
func (s *GrowthCampaignService) CreateAndStart(ctx context.Context, userID string, req *models.CreateGrowthCampaignRequest) (*models.GrowthCampaignResponse, error) {
	if err := validateCampaignRequest(req); err != nil {
		return nil, err
	}

	campaign := &models.GrowthCampaign{
		UserID:        userID,
		Name:          req.Name,
		Platform:      req.Platform,
		TargetAccount: req.TargetAccount,
		TargetMetric:  req.TargetMetric,
		TargetValue:   req.TargetValue,
		DailyLimit:    req.DailyLimit,
		Status:        models.CampaignStatusDraft,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
	}

	// Seed the baseline measurement so progress starts from the account's
	// real counter instead of zero. Best-effort: a provider outage must not
	// block campaign creation.
	if stats, err := s.executor.GetCurrentStats(ctx, req.Platform, req.TargetAccount); err != nil {
		logrus.Warnf("Failed to measure baseline for %s@%s: %v", req.TargetAccount, req.Platform, err)
	} else {
		campaign.CurrentValue = stats.ValueFor(req.TargetMetric)
		if campaign.CurrentValue >= campaign.TargetValue {
			return nil, fmt.Errorf("target %d %s already reached (current: %d)",
				campaign.TargetValue, campaign.TargetMetric, campaign.CurrentValue)
		}
	}

	if err := s.campaignRepo.Create(campaign); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	// Going live is the same transition as resuming a draft: the supervisor
	// persists the active status, reports the start event and spawns the
	// runner.
	if req.StartNow {
		if err := s.supervisor.Resume(ctx, campaign.ID); err != nil {
			return nil, fmt.Errorf("campaign %s created but failed to start: %w", campaign.ID, err)
		}
		return s.status(ctx, campaign.ID)
	}

	return toResponse(campaign), nil
}

// GetCampaignsByUser retrieves all growth campaigns for a specific user
func (s *GrowthCampaignService) GetCampaignsByUser(userID string) ([]*models.GrowthCampaignResponse, error) {
	campaigns, err := s.campaignRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get campaigns: %w", err)
	}

	responses := make([]*models.GrowthCampaignResponse, len(campaigns))
	for i, campaign := range campaigns {
		responses[i] = toResponse(campaign)
	}
	return responses, nil
}

// GetCampaignByID retrieves a campaign by ID (user must own it)
func (s *GrowthCampaignService) GetCampaignByID(userID, campaignID string) (*models.GrowthCampaignResponse, error) {
	campaign, err := s.campaignRepo.GetByUserIDAndID(userID, campaignID)
	if err != nil {
		return nil, errors.New("campaign not found")
	}
	return toResponse(campaign), nil
}

// Pause pauses a running campaign (user must own it)
func (s *GrowthCampaignService) Pause(ctx context.Context, userID, campaignID string) (*models.GrowthCampaignResponse, error) {
	if _, err := s.campaignRepo.GetByUserIDAndID(userID, campaignID); err != nil {
		return nil, errors.New("campaign not found")
	}
	if err := s.supervisor.Pause(ctx, campaignID); err != nil {
		return nil, err
	}
	return s.status(ctx, campaignID)
}

// Resume resumes a paused (or starts a draft) campaign (user must own it)
func (s *GrowthCampaignService) Resume(ctx context.Context, userID, campaignID string) (*models.GrowthCampaignResponse, error) {
	if _, err := s.campaignRepo.GetByUserIDAndID(userID, campaignID); err != nil {
		return nil, errors.New("campaign not found")
	}
	if err := s.supervisor.Resume(ctx, campaignID); err != nil {
		return nil, err
	}
	return s.status(ctx, campaignID)
}

// Cancel cancels a campaign permanently (user must own it)
func (s *GrowthCampaignService) Cancel(ctx context.Context, userID, campaignID string) (*models.GrowthCampaignResponse, error) {
	if _, err := s.campaignRepo.GetByUserIDAndID(userID, campaignID); err != nil {
		return nil, errors.New("campaign not found")
	}
	if err := s.supervisor.Cancel(ctx, campaignID); err != nil {
		return nil, err
	}
	return s.status(ctx, campaignID)
}

// Delete removes a campaign record. Running campaigns are cancelled first so
// no runner outlives its row.
func (s *GrowthCampaignService) Delete(ctx context.Context, userID, campaignID string) error {
	campaign, err := s.campaignRepo.GetByUserIDAndID(userID, campaignID)
	if err != nil {
		return errors.New("campaign not found")
	}

	if !campaign.IsTerminal() {
		if err := s.supervisor.Cancel(ctx, campaignID); err != nil {
			return fmt.Errorf("failed to cancel campaign before delete: %w", err)
		}
	}

	if err := s.campaignRepo.Delete(userID, campaignID); err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	return nil
}

func (s *GrowthCampaignService) status(ctx context.Context, campaignID string) (*models.GrowthCampaignResponse, error) {
	campaign, err := s.supervisor.Status(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	return toResponse(campaign), nil
}

func validateCampaignRequest(req *models.CreateGrowthCampaignRequest) error {
	if req.DailyLimit <= 0 {
		return errors.New("daily_limit must be positive")
	}
	if req.TargetValue <= 0 {
		return errors.New("target_value must be positive")
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return errors.New("end_date must be after start_date")
	}
	return nil
}

// toResponse converts a GrowthCampaign model to its response DTO
func toResponse(campaign *models.GrowthCampaign) *models.GrowthCampaignResponse {
	return &models.GrowthCampaignResponse{
		ID:                  campaign.ID,
		UserID:              campaign.UserID,
		Name:                campaign.Name,
		Platform:            campaign.Platform,
		TargetAccount:       campaign.TargetAccount,
		TargetMetric:        campaign.TargetMetric,
		TargetValue:         campaign.TargetValue,
		CurrentValue:        campaign.CurrentValue,
		DailyLimit:          campaign.DailyLimit,
		Status:              campaign.Status,
		Progress:            campaign.Progress(),
		StartDate:           campaign.StartDate,
		EndDate:             campaign.EndDate,
		LastActionAt:        campaign.LastActionAt,
		ConsecutiveFailures: campaign.ConsecutiveFailures,
		LastError:           campaign.LastError,
		CreatedAt:           campaign.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           campaign.UpdatedAt.Format(time.RFC3339),
	}
}
