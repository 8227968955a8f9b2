package scheduler

import (
	"math/rand"
	"sync"
	"time"

	"github.com/X-Sam-aki/BoosterPro/internal/models"
)

const day = 24 * time.Hour

// RateScheduler turns a campaign's daily action budget into a concrete
// cadence. The daily cap is a rolling window: an action is legal only when
// at least one full interval has passed since the last one, so the budget
// holds for any 24h slice regardless of clock boundaries or restarts.
type RateScheduler struct {
	jitterFraction float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRateScheduler creates a rate scheduler. jitterFraction must be in
// [0, 1); it bounds the random slack added on top of the base interval.
func NewRateScheduler(jitterFraction float64) *RateScheduler {
	if jitterFraction < 0 || jitterFraction >= 1 {
		jitterFraction = 0
	}
	return &RateScheduler{
		jitterFraction: jitterFraction,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Interval returns the minimum spacing between actions for a daily budget.
// dailyLimit is validated at campaign creation; non-positive values fall
// back to one action per day rather than panicking mid-loop.
func Interval(dailyLimit int) time.Duration {
	if dailyLimit <= 0 {
		return day
	}
	return day / time.Duration(dailyLimit)
}

// CanActNow reports whether an action at `now` is legal for the campaign:
// status active, inside the schedule window, and at least one interval
// since the previous action. Pure function of campaign state and the clock.
func (r *RateScheduler) CanActNow(c *models.GrowthCampaign, now time.Time) bool {
	if c.Status != models.CampaignStatusActive {
		return false
	}
	if !c.InWindow(now) {
		return false
	}
	if c.LastActionAt == nil {
		return true
	}
	return now.Sub(*c.LastActionAt) >= Interval(c.DailyLimit)
}

// NextDelay returns the jittered wait before the campaign's next action
// attempt. Jitter is strictly additive: the delay is never shorter than the
// base interval, so desynchronizing campaigns that share a daily limit can
// never push one over its budget.
func (r *RateScheduler) NextDelay(c *models.GrowthCampaign) time.Duration {
	return r.jittered(Interval(c.DailyLimit))
}

// DelayUntilActionable returns how long the runner should sleep before the
// campaign might be actionable again: the remainder of the current interval,
// or the time until the schedule window opens.
func (r *RateScheduler) DelayUntilActionable(c *models.GrowthCampaign, now time.Time) time.Duration {
	interval := Interval(c.DailyLimit)

	if c.StartDate != nil && now.Before(*c.StartDate) {
		return c.StartDate.Sub(now)
	}

	if c.LastActionAt != nil {
		if remaining := interval - now.Sub(*c.LastActionAt); remaining > 0 {
			return r.jittered(remaining)
		}
	}

	// Not actionable for a reason the clock won't fix (paused, past end
	// date); re-check on the normal cadence, the stop signal arrives out
	// of band.
	return r.jittered(interval)
}

// RetryDelay returns the capped exponential backoff after consecutive
// transient failures: base * 2^min(failures, capExponent). A zero base
// falls back to the campaign's interval.
func (r *RateScheduler) RetryDelay(c *models.GrowthCampaign, base time.Duration, failures, capExponent int) time.Duration {
	if base <= 0 {
		base = Interval(c.DailyLimit)
	}
	exp := failures
	if exp > capExponent {
		exp = capExponent
	}
	if exp < 0 {
		exp = 0
	}
	return base * (1 << uint(exp))
}

func (r *RateScheduler) jittered(d time.Duration) time.Duration {
	if r.jitterFraction == 0 || d <= 0 {
		return d
	}
	r.mu.Lock()
	f := r.rng.Float64()
	r.mu.Unlock()
	return d + time.Duration(f*r.jitterFraction*float64(d))
}
