package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/X-Sam-aki/BoosterPro/internal/models"
)

func TestInterval(t *testing.T) {
	assert.Equal(t, 24*time.Hour, Interval(1))
	assert.Equal(t, 864*time.Second, Interval(100))
	assert.Equal(t, time.Millisecond, Interval(fastLimit))

	// Invalid limits are rejected at creation; the fallback is one action
	// per day, never a panic
	assert.Equal(t, 24*time.Hour, Interval(0))
	assert.Equal(t, 24*time.Hour, Interval(-3))
}

func TestCanActNowFirstAction(t *testing.T) {
	rate := NewRateScheduler(0)
	c := testCampaign("c1", 10)

	assert.True(t, rate.CanActNow(c, time.Now()))
}

func TestCanActNowWithinInterval(t *testing.T) {
	// dailyLimit 10 -> interval 8640s; two checks inside the same interval
	// answer true then false for the same lastActionAt
	rate := NewRateScheduler(0)
	c := testCampaign("c1", 10)
	now := time.Date(2025, 8, 14, 12, 0, 0, 0, time.UTC)

	last := now.Add(-Interval(10))
	c.LastActionAt = &last
	assert.True(t, rate.CanActNow(c, now))

	c.LastActionAt = &now
	assert.False(t, rate.CanActNow(c, now.Add(time.Hour)))
	assert.True(t, rate.CanActNow(c, now.Add(Interval(10))))
}

func TestCanActNowStatusGate(t *testing.T) {
	rate := NewRateScheduler(0)
	now := time.Now()

	for _, status := range []string{
		models.CampaignStatusDraft,
		models.CampaignStatusPaused,
		models.CampaignStatusCompleted,
		models.CampaignStatusFailed,
		models.CampaignStatusCancelled,
	} {
		c := testCampaign("c1", 10)
		c.Status = status
		assert.False(t, rate.CanActNow(c, now), "status %s must not act", status)
	}
}

func TestCanActNowScheduleWindow(t *testing.T) {
	rate := NewRateScheduler(0)
	now := time.Date(2025, 8, 14, 12, 0, 0, 0, time.UTC)

	c := testCampaign("c1", 10)
	start := now.Add(time.Hour)
	c.StartDate = &start
	assert.False(t, rate.CanActNow(c, now))

	c = testCampaign("c2", 10)
	end := now.Add(-time.Hour)
	c.EndDate = &end
	assert.False(t, rate.CanActNow(c, now))

	c = testCampaign("c3", 10)
	windowStart := now.Add(-time.Hour)
	windowEnd := now.Add(time.Hour)
	c.StartDate = &windowStart
	c.EndDate = &windowEnd
	assert.True(t, rate.CanActNow(c, now))
}

func TestNextDelayJitterIsStrictlyAdditive(t *testing.T) {
	rate := NewRateScheduler(0.1)
	c := testCampaign("c1", 100)
	interval := Interval(100)

	for i := 0; i < 1000; i++ {
		delay := rate.NextDelay(c)
		require.GreaterOrEqual(t, delay, interval)
		require.Less(t, delay, interval+interval/10)
	}
}

func TestNextDelayNoJitter(t *testing.T) {
	rate := NewRateScheduler(0)
	c := testCampaign("c1", 100)
	assert.Equal(t, Interval(100), rate.NextDelay(c))
}

func TestRetryDelayGrowth(t *testing.T) {
	rate := NewRateScheduler(0)
	c := testCampaign("c1", 100)
	base := time.Second

	var prev time.Duration
	for k := 0; k <= 6; k++ {
		delay := rate.RetryDelay(c, base, k, 6)
		assert.GreaterOrEqual(t, delay, prev, "backoff must be non-decreasing in k")
		prev = delay
	}

	// Capped at base * 2^6
	assert.Equal(t, base*64, rate.RetryDelay(c, base, 6, 6))
	assert.Equal(t, base*64, rate.RetryDelay(c, base, 20, 6))
}

func TestRetryDelayDefaultsToInterval(t *testing.T) {
	rate := NewRateScheduler(0)
	c := testCampaign("c1", 100)

	assert.Equal(t, Interval(100), rate.RetryDelay(c, 0, 0, 6))
	assert.Equal(t, Interval(100)*2, rate.RetryDelay(c, 0, 1, 6))
}

func TestDelayUntilActionable(t *testing.T) {
	rate := NewRateScheduler(0)
	now := time.Date(2025, 8, 14, 12, 0, 0, 0, time.UTC)

	// Window not open yet: wait for the start date
	c := testCampaign("c1", 10)
	start := now.Add(2 * time.Hour)
	c.StartDate = &start
	assert.Equal(t, 2*time.Hour, rate.DelayUntilActionable(c, now))

	// Mid-interval: wait out the remainder
	c = testCampaign("c2", 10)
	last := now.Add(-Interval(10) / 2)
	c.LastActionAt = &last
	assert.Equal(t, Interval(10)/2, rate.DelayUntilActionable(c, now))
}

// TestRollingWindowRateLimit drives a long sequence of jittered delays and
// verifies that no 24h slice ever contains more actions than the daily
// limit, so the cap holds across clock boundaries.
func TestRollingWindowRateLimit(t *testing.T) {
	const dailyLimit = 200
	rate := NewRateScheduler(0.1)
	c := testCampaign("c1", dailyLimit)

	// Timestamps of simulated actions, each spaced by a fresh jittered delay
	clock := time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC)
	actions := make([]time.Time, 0, 3*dailyLimit)
	for i := 0; i < 3*dailyLimit; i++ {
		actions = append(actions, clock)
		clock = clock.Add(rate.NextDelay(c))
	}

	for i, windowStart := range actions {
		count := 0
		for _, ts := range actions[i:] {
			if ts.Sub(windowStart) < 24*time.Hour {
				count++
			}
		}
		require.LessOrEqual(t, count, dailyLimit, "window starting at action %d exceeds daily limit", i)
	}
}
