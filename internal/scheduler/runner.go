package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/X-Sam-aki/BoosterPro/internal/models"
)

// storeRetryDelay is the fallback wait when the store itself is failing and
// the campaign's cadence is unknown
const storeRetryDelay = time.Minute

// CampaignRunner owns the execution loop of a single campaign: it wakes on
// the cadence the rate scheduler computes, performs one action, persists the
// result and re-evaluates completion. State is re-read from the store at the
// top of every tick so a pause or cancel applied elsewhere is never missed.
type CampaignRunner struct {
	campaignID string
	store      ProgressStore
	executor   ActionExecutor
	rate       *RateScheduler
	cfg        Config
	notifier   Notifier
	now        func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

func newCampaignRunner(id string, store ProgressStore, executor ActionExecutor, rate *RateScheduler, cfg Config, notifier Notifier) *CampaignRunner {
	return &CampaignRunner{
		campaignID: id,
		store:      store,
		executor:   executor,
		rate:       rate,
		cfg:        cfg,
		notifier:   notifier,
		now:        time.Now,
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// stop signals the loop to exit after its current tick. Safe to call more
// than once.
func (r *CampaignRunner) stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
	})
}

// run drives the tick loop until the campaign reaches a terminal state or a
// stop is signalled. The only suspension point is the wait between ticks; an
// action, once issued, always runs to completion before state is evaluated
// again.
func (r *CampaignRunner) run() {
	defer close(r.done)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-timer.C:
		}

		delay, keepGoing := r.tick()
		if !keepGoing {
			return
		}
		timer.Reset(delay)
	}
}

// tick executes one loop iteration and returns the delay before the next
// one, or keepGoing=false when the loop must end.
func (r *CampaignRunner) tick() (time.Duration, bool) {
	// The tick runs on its own context: a stop signal is honored between
	// ticks, never by aborting in-flight work (an issued action must be
	// accounted for).
	ctx := context.Background()
	now := r.now()

	campaign, err := r.store.GetCampaign(ctx, r.campaignID)
	if err != nil {
		logrus.Errorf("Campaign %s: failed to load state: %v", r.campaignID, err)
		return r.retryDelayFor(nil), true
	}
	if campaign == nil {
		logrus.Warnf("Campaign %s no longer exists, stopping runner", r.campaignID)
		return 0, false
	}
	if campaign.IsTerminal() {
		logrus.Infof("Campaign %s is %s, stopping runner", campaign.ID, campaign.Status)
		return 0, false
	}
	// A campaign already at target must settle as completed before any
	// further action, even if a previous completion write was lost.
	if campaign.IsComplete() {
		return r.complete(ctx, campaign)
	}

	if !r.rate.CanActNow(campaign, now) {
		return r.rate.DelayUntilActionable(campaign, now), true
	}

	action := ActionForMetric(campaign.TargetMetric)
	outcome := r.perform(campaign, action)
	now = r.now()

	switch outcome {
	case OutcomeSuccess:
		return r.handleSuccess(ctx, campaign, now)
	case OutcomeTransientFailure:
		return r.handleTransientFailure(ctx, campaign, action)
	default:
		r.fail(ctx, campaign, "platform permanently rejected "+string(action)+" action")
		return 0, false
	}
}

// perform issues one action bounded by the configured timeout. A timeout or
// transport error counts as a transient failure so a stuck call can never
// wedge the loop.
func (r *CampaignRunner) perform(campaign *models.GrowthCampaign, action ActionKind) Outcome {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.ActionTimeout)
	defer cancel()

	outcome, err := r.executor.Perform(ctx, campaign, action)
	if err != nil {
		if outcome != OutcomePermanentFailure {
			outcome = OutcomeTransientFailure
		}
		logrus.Warnf("Campaign %s: %s action failed (%s): %v", campaign.ID, action, outcome, err)
	}
	return outcome
}

func (r *CampaignRunner) handleSuccess(ctx context.Context, campaign *models.GrowthCampaign, now time.Time) (time.Duration, bool) {
	noFailures := 0
	noError := ""
	update := &ProgressUpdate{
		LastActionAt:        &now,
		ConsecutiveFailures: &noFailures,
		LastError:           &noError,
	}

	// Best-effort measurement refresh; a failed read keeps the last known
	// value and does not fail the tick.
	statsCtx, cancel := context.WithTimeout(ctx, r.cfg.ActionTimeout)
	stats, err := r.executor.GetCurrentStats(statsCtx, campaign.Platform, campaign.TargetAccount)
	cancel()
	if err != nil {
		logrus.Debugf("Campaign %s: stats refresh failed: %v", campaign.ID, err)
	} else {
		value := stats.ValueFor(campaign.TargetMetric)
		update.CurrentValue = &value
	}

	updated, err := r.store.UpdateCampaign(ctx, campaign.ID, update)
	if err != nil {
		// Nothing was durably stored, so report nothing as done and retry
		// on the normal cadence rather than claim a success we cannot prove.
		logrus.Errorf("Campaign %s: failed to persist progress: %v", campaign.ID, err)
		return r.retryDelayFor(campaign), true
	}

	logrus.Debugf("Campaign %s: action succeeded, %d/%d %s", updated.ID, updated.CurrentValue, updated.TargetValue, updated.TargetMetric)

	if updated.IsComplete() {
		return r.complete(ctx, updated)
	}

	return r.rate.NextDelay(updated), true
}

// complete persists the terminal completed status. A failed write keeps the
// loop alive so the next tick can settle the transition before any further
// action is considered.
func (r *CampaignRunner) complete(ctx context.Context, campaign *models.GrowthCampaign) (time.Duration, bool) {
	status := models.CampaignStatusCompleted
	completed, err := r.store.UpdateCampaign(ctx, campaign.ID, &ProgressUpdate{Status: &status})
	if err != nil {
		logrus.Errorf("Campaign %s: failed to persist completion: %v", campaign.ID, err)
		return r.retryDelayFor(campaign), true
	}
	logrus.Infof("Campaign %s completed: reached %d %s", completed.ID, completed.CurrentValue, completed.TargetMetric)
	r.notify(completed, EventCompleted)
	return 0, false
}

func (r *CampaignRunner) handleTransientFailure(ctx context.Context, campaign *models.GrowthCampaign, action ActionKind) (time.Duration, bool) {
	failures := campaign.ConsecutiveFailures + 1
	lastError := string(action) + " action failed"

	if failures >= r.cfg.FailureCeiling {
		logrus.Errorf("Campaign %s: %d consecutive failures reached ceiling %d, marking failed (last error: %s)",
			campaign.ID, failures, r.cfg.FailureCeiling, lastError)
		r.failWithCount(ctx, campaign, lastError, failures)
		return 0, false
	}

	update := &ProgressUpdate{
		ConsecutiveFailures: &failures,
		LastError:           &lastError,
	}
	if _, err := r.store.UpdateCampaign(ctx, campaign.ID, update); err != nil {
		logrus.Errorf("Campaign %s: failed to persist failure count: %v", campaign.ID, err)
		return r.retryDelayFor(campaign), true
	}

	delay := r.rate.RetryDelay(campaign, r.cfg.BackoffBase, failures, r.cfg.BackoffCapExponent)
	logrus.Warnf("Campaign %s: transient failure %d/%d, backing off %s", campaign.ID, failures, r.cfg.FailureCeiling, delay)
	return delay, true
}

// fail marks the campaign failed without touching its failure counter
func (r *CampaignRunner) fail(ctx context.Context, campaign *models.GrowthCampaign, reason string) {
	r.failWithCount(ctx, campaign, reason, campaign.ConsecutiveFailures)
}

func (r *CampaignRunner) failWithCount(ctx context.Context, campaign *models.GrowthCampaign, reason string, failures int) {
	status := models.CampaignStatusFailed
	update := &ProgressUpdate{
		Status:              &status,
		ConsecutiveFailures: &failures,
		LastError:           &reason,
	}
	failed, err := r.store.UpdateCampaign(ctx, campaign.ID, update)
	if err != nil {
		// The loop stops either way; the status write is retried by the
		// supervisor on the next process start when the campaign reloads
		// as active.
		logrus.Errorf("Campaign %s: failed to persist failed status: %v", campaign.ID, err)
		return
	}
	r.notify(failed, EventFailed)
}

func (r *CampaignRunner) notify(campaign *models.GrowthCampaign, event string) {
	if r.notifier != nil {
		r.notifier.CampaignTransitioned(campaign, event)
	}
}

// retryDelayFor picks a wait after a store error. When campaign state is in
// hand the normal cadence applies; otherwise a fixed probe delay.
func (r *CampaignRunner) retryDelayFor(campaign *models.GrowthCampaign) time.Duration {
	if campaign != nil {
		return r.rate.NextDelay(campaign)
	}
	if r.cfg.BackoffBase > 0 {
		return r.cfg.BackoffBase
	}
	return storeRetryDelay
}
