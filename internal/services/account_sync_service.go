package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/X-Sam-aki/BoosterPro/internal/database/repository"
	"github.com/X-Sam-aki/BoosterPro/internal/models"
	"github.com/X-Sam-aki/BoosterPro/internal/scheduler"
)

// AccountSyncService periodically refreshes the cached platform counters of
// campaign target accounts so dashboards read fresh numbers without hitting
// the provider on every request
type AccountSyncService struct {
	accountRepo  *repository.SocialAccountRepository
	campaignRepo *repository.GrowthCampaignRepository
	executor     scheduler.ActionExecutor
	interval     time.Duration
	stopChan     chan bool
}

func NewAccountSyncService(db *gorm.DB, executor scheduler.ActionExecutor) *AccountSyncService {
	return &AccountSyncService{
		accountRepo:  repository.NewSocialAccountRepository(db),
		campaignRepo: repository.NewGrowthCampaignRepository(db),
		executor:     executor,
		interval:     15 * time.Minute,
		stopChan:     make(chan bool),
	}
}

// Start starts the account sync service
func (s *AccountSyncService) Start() {
	go s.run()
	logrus.Info("Account sync service started")
}

// Stop stops the account sync service
func (s *AccountSyncService) Stop() {
	s.stopChan <- true
	logrus.Info("Account sync service stopped")
}

// run runs the sync loop
func (s *AccountSyncService) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run initial sync
	s.syncActiveAccounts()

	for {
		select {
		case <-ticker.C:
			s.syncActiveAccounts()
		case <-s.stopChan:
			return
		}
	}
}

// syncActiveAccounts re-measures every account targeted by an active campaign
func (s *AccountSyncService) syncActiveAccounts() {
	logrus.Debug("Starting account stats sync...")

	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	campaigns, err := s.campaignRepo.GetActiveCampaigns(ctx)
	if err != nil {
		logrus.Errorf("Failed to load active campaigns for account sync: %v", err)
		return
	}

	// A target account may back several campaigns; measure it once
	type target struct{ platform, account string }
	seen := make(map[target]bool)
	syncedCount := 0

	for _, campaign := range campaigns {
		t := target{campaign.Platform, campaign.TargetAccount}
		if seen[t] {
			continue
		}
		seen[t] = true

		stats, err := s.executor.GetCurrentStats(ctx, t.platform, t.account)
		if err != nil {
			logrus.Debugf("Failed to measure %s@%s: %v", t.account, t.platform, err)
			continue
		}

		if err := s.upsertStats(campaign.UserID, t.platform, t.account, stats); err != nil {
			logrus.Errorf("Failed to update stats for %s@%s: %v", t.account, t.platform, err)
			continue
		}
		syncedCount++
	}

	if syncedCount > 0 {
		logrus.Infof("Account sync completed: refreshed %d account(s)", syncedCount)
	} else {
		logrus.Debug("Account sync completed: nothing to refresh")
	}
}

// upsertStats refreshes the cached counters, creating the cache row on the
// first measurement of an account
func (s *AccountSyncService) upsertStats(userID, platform, account string, stats scheduler.Stats) error {
	if _, err := s.accountRepo.GetByPlatformAndUsername(platform, account); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return s.accountRepo.Create(&models.SocialAccount{
			UserID:        userID,
			Platform:      platform,
			Username:      account,
			FollowerCount: stats.Followers,
			ViewCount:     stats.Views,
			LikeCount:     stats.Likes,
			LastUpdated:   time.Now(),
		})
	}
	return s.accountRepo.UpdateStats(platform, account, stats.Followers, stats.Views, stats.Likes)
}

// SetInterval sets the sync interval
func (s *AccountSyncService) SetInterval(interval time.Duration) {
	s.interval = interval
}
