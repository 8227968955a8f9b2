package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/X-Sam-aki/BoosterPro/internal/models"
)

// Supervisor coordinates the full set of running campaigns. Its id→runner
// map is the single source of truth for "is this campaign running": every
// start/stop/pause/resume goes through it, so at most one runner can ever
// be live for a campaign id.
type Supervisor struct {
	store    ProgressStore
	executor ActionExecutor
	rate     *RateScheduler
	cfg      Config
	notifier Notifier

	// ctl serializes control operations (start/pause/resume/cancel) so a
	// status write and its runner signal are never interleaved with another
	// control request for the same campaign.
	ctl sync.Mutex

	mu      sync.Mutex
	runners map[string]*CampaignRunner
	wg      sync.WaitGroup
}

// NewSupervisor creates a supervisor over the given collaborators. notifier
// may be nil.
func NewSupervisor(store ProgressStore, executor ActionExecutor, cfg Config, notifier Notifier) *Supervisor {
	cfg = cfg.normalize()
	return &Supervisor{
		store:    store,
		executor: executor,
		rate:     NewRateScheduler(cfg.JitterFraction),
		cfg:      cfg,
		notifier: notifier,
		runners:  make(map[string]*CampaignRunner),
	}
}

// Start loads every active campaign from the store and spawns a runner for
// each. Idempotent: campaigns that already have a runner are left alone. A
// load failure is fatal and returned to the caller; the process must not
// silently run with zero campaigns when campaigns were expected.
func (s *Supervisor) Start(ctx context.Context) error {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	campaigns, err := s.store.GetActiveCampaigns(ctx)
	if err != nil {
		return fmt.Errorf("failed to load active campaigns: %w", err)
	}

	for _, campaign := range campaigns {
		s.ensureRunning(campaign.ID)
	}
	logrus.Infof("Campaign supervisor started with %d active campaign(s)", len(campaigns))
	return nil
}

// EnsureRunning spawns a runner for the campaign unless one is already
// registered. This is the enforcement point for the one-runner-per-campaign
// guarantee.
func (s *Supervisor) EnsureRunning(campaignID string) {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	s.ensureRunning(campaignID)
}

// Pause persists the paused status, then signals the campaign's runner and
// waits for it to finish its current tick. Pausing an already-paused
// campaign is a no-op.
func (s *Supervisor) Pause(ctx context.Context, campaignID string) error {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	campaign, err := s.loadForControl(ctx, campaignID)
	if err != nil {
		return err
	}
	if campaign.Status == models.CampaignStatusPaused {
		return nil
	}
	if campaign.Status != models.CampaignStatusActive {
		return fmt.Errorf("campaign %s cannot be paused from status %s", campaignID, campaign.Status)
	}

	status := models.CampaignStatusPaused
	paused, err := s.store.UpdateCampaign(ctx, campaignID, &ProgressUpdate{Status: &status})
	if err != nil {
		return fmt.Errorf("failed to persist paused status: %w", err)
	}

	s.stopRunner(campaignID)
	logrus.Infof("Campaign %s paused", campaignID)
	s.notify(paused, EventPaused)
	return nil
}

// Resume persists the active status and ensures a runner exists. A draft
// campaign is reported as started, anything else as resumed. Resuming a
// campaign that is already running is a no-op: no duplicate runner, no
// double-counted action.
func (s *Supervisor) Resume(ctx context.Context, campaignID string) error {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	campaign, err := s.loadForControl(ctx, campaignID)
	if err != nil {
		return err
	}
	if campaign.IsTerminal() {
		return fmt.Errorf("campaign %s cannot be resumed from terminal status %s", campaignID, campaign.Status)
	}

	if campaign.Status != models.CampaignStatusActive {
		event := EventResumed
		if campaign.Status == models.CampaignStatusDraft {
			event = EventStarted
		}

		status := models.CampaignStatusActive
		resumed, err := s.store.UpdateCampaign(ctx, campaignID, &ProgressUpdate{Status: &status})
		if err != nil {
			return fmt.Errorf("failed to persist active status: %w", err)
		}
		logrus.Infof("Campaign %s %s", campaignID, event)
		s.notify(resumed, event)
	}

	s.ensureRunning(campaignID)
	return nil
}

// Cancel persists the cancelled status, then signals the campaign's runner
// and waits for it to finish its current tick. Cancelling a campaign that
// is already terminal is a no-op.
func (s *Supervisor) Cancel(ctx context.Context, campaignID string) error {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	campaign, err := s.loadForControl(ctx, campaignID)
	if err != nil {
		return err
	}
	if campaign.IsTerminal() {
		return nil
	}

	status := models.CampaignStatusCancelled
	cancelled, err := s.store.UpdateCampaign(ctx, campaignID, &ProgressUpdate{Status: &status})
	if err != nil {
		return fmt.Errorf("failed to persist cancelled status: %w", err)
	}

	s.stopRunner(campaignID)
	logrus.Infof("Campaign %s cancelled", campaignID)
	s.notify(cancelled, EventCancelled)
	return nil
}

// Status returns the campaign's authoritative state from the store
func (s *Supervisor) Status(ctx context.Context, campaignID string) (*models.GrowthCampaign, error) {
	campaign, err := s.store.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to load campaign: %w", err)
	}
	if campaign == nil {
		return nil, fmt.Errorf("campaign %s not found", campaignID)
	}
	return campaign, nil
}

// StopAll signals every runner to stop after its current tick and waits for
// all of them to exit. Used at process shutdown so no action is left in
// flight unaccounted for across a restart.
func (s *Supervisor) StopAll() {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	s.mu.Lock()
	runners := make([]*CampaignRunner, 0, len(s.runners))
	for _, r := range s.runners {
		runners = append(runners, r)
	}
	s.mu.Unlock()

	for _, r := range runners {
		r.stop()
	}
	s.wg.Wait()
	logrus.Infof("Campaign supervisor stopped %d runner(s)", len(runners))
}

// RunnerCount reports how many campaign loops are currently live
func (s *Supervisor) RunnerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.runners)
}

// ensureRunning spawns a runner if none is registered. Callers hold ctl.
func (s *Supervisor) ensureRunning(campaignID string) {
	s.mu.Lock()
	if existing, ok := s.runners[campaignID]; ok {
		select {
		case <-existing.done:
			// The previous runner exited on its own (completed or failed)
			// and is mid-removal; replace it.
			delete(s.runners, campaignID)
		default:
			s.mu.Unlock()
			return
		}
	}

	runner := newCampaignRunner(campaignID, s.store, s.executor, s.rate, s.cfg, s.notifier)
	s.runners[campaignID] = runner
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		runner.run()
		s.removeRunner(campaignID, runner)
	}()

	logrus.Infof("Campaign %s runner started", campaignID)
}

// stopRunner signals the campaign's runner, waits for it to exit and drops
// it from the map. Callers hold ctl, never the map lock.
func (s *Supervisor) stopRunner(campaignID string) {
	s.mu.Lock()
	runner := s.runners[campaignID]
	s.mu.Unlock()
	if runner == nil {
		return
	}

	runner.stop()
	<-runner.done
	s.removeRunner(campaignID, runner)
}

// removeRunner drops the runner from the map if it is still the registered
// one. Idempotent: both the spawn goroutine and stopRunner call it.
func (s *Supervisor) removeRunner(campaignID string, runner *CampaignRunner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runners[campaignID] == runner {
		delete(s.runners, campaignID)
	}
}

func (s *Supervisor) loadForControl(ctx context.Context, campaignID string) (*models.GrowthCampaign, error) {
	campaign, err := s.store.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to load campaign: %w", err)
	}
	if campaign == nil {
		return nil, fmt.Errorf("campaign %s not found", campaignID)
	}
	return campaign, nil
}

func (s *Supervisor) notify(campaign *models.GrowthCampaign, event string) {
	if s.notifier != nil {
		s.notifier.CampaignTransitioned(campaign, event)
	}
}
