package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/X-Sam-aki/BoosterPro/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fastLimit makes the campaign interval 1ms so loop tests run in real time
const fastLimit = 86_400_000

func testCampaign(id string, dailyLimit int) *models.GrowthCampaign {
	return &models.GrowthCampaign{
		ID:            id,
		UserID:        "user-1",
		Name:          "test campaign",
		Platform:      models.PlatformTikTok,
		TargetAccount: "@target",
		TargetMetric:  models.MetricFollowers,
		TargetValue:   1000,
		CurrentValue:  0,
		DailyLimit:    dailyLimit,
		Status:        models.CampaignStatusActive,
	}
}

func testConfig() Config {
	return Config{
		FailureCeiling:     5,
		BackoffBase:        time.Millisecond,
		BackoffCapExponent: 6,
		JitterFraction:     0,
		ActionTimeout:      time.Second,
	}
}

// fakeExecutor is a scripted ActionExecutor. Outcomes are consumed from the
// script in order; an exhausted script keeps returning the last entry.
type fakeExecutor struct {
	mu       sync.Mutex
	script   []Outcome
	performs int

	stats    Stats
	statsErr error

	// blockPerform, when set, makes Perform signal started and wait for
	// release before returning
	blockPerform bool
	started      chan struct{}
	release      chan struct{}
}

func newFakeExecutor(script ...Outcome) *fakeExecutor {
	return &fakeExecutor{
		script:  script,
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (f *fakeExecutor) Perform(ctx context.Context, campaign *models.GrowthCampaign, action ActionKind) (Outcome, error) {
	f.mu.Lock()
	f.performs++
	var outcome Outcome
	if len(f.script) > 0 {
		outcome = f.script[0]
		if len(f.script) > 1 {
			f.script = f.script[1:]
		}
	}
	blocked := f.blockPerform
	f.mu.Unlock()

	if blocked {
		select {
		case f.started <- struct{}{}:
		default:
		}
		<-f.release
	}

	if outcome != OutcomeSuccess {
		return outcome, errors.New("scripted failure")
	}
	return outcome, nil
}

func (f *fakeExecutor) GetCurrentStats(ctx context.Context, platform, targetAccount string) (Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats, f.statsErr
}

func (f *fakeExecutor) performCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.performs
}

func (f *fakeExecutor) setStats(s Stats) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats = s
}

// flakyStore wraps a ProgressStore and fails a fixed number of updates
type flakyStore struct {
	ProgressStore

	mu           sync.Mutex
	failUpdates  int
	updateErrors int
}

func (s *flakyStore) UpdateCampaign(ctx context.Context, id string, update *ProgressUpdate) (*models.GrowthCampaign, error) {
	s.mu.Lock()
	fail := s.failUpdates > 0
	if fail {
		s.failUpdates--
		s.updateErrors++
	}
	s.mu.Unlock()

	if fail {
		return nil, errors.New("store temporarily unavailable")
	}
	return s.ProgressStore.UpdateCampaign(ctx, id, update)
}

// statusFailStore wraps a ProgressStore and fails a fixed number of updates
// that would set the given status, letting everything else through
type statusFailStore struct {
	ProgressStore

	mu         sync.Mutex
	failStatus string
	failures   int
}

func (s *statusFailStore) UpdateCampaign(ctx context.Context, id string, update *ProgressUpdate) (*models.GrowthCampaign, error) {
	s.mu.Lock()
	fail := s.failures > 0 && update.Status != nil && *update.Status == s.failStatus
	if fail {
		s.failures--
	}
	s.mu.Unlock()

	if fail {
		return nil, errors.New("store temporarily unavailable")
	}
	return s.ProgressStore.UpdateCampaign(ctx, id, update)
}

// failingStore fails every read, for startup-error tests
type failingStore struct{}

func (failingStore) GetActiveCampaigns(ctx context.Context) ([]*models.GrowthCampaign, error) {
	return nil, errors.New("database down")
}

func (failingStore) GetCampaign(ctx context.Context, id string) (*models.GrowthCampaign, error) {
	return nil, errors.New("database down")
}

func (failingStore) UpdateCampaign(ctx context.Context, id string, update *ProgressUpdate) (*models.GrowthCampaign, error) {
	return nil, errors.New("database down")
}
