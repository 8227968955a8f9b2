package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/X-Sam-aki/BoosterPro/internal/models"
)

func TestProgressUpdateApply(t *testing.T) {
	now := time.Now()
	status := models.CampaignStatusPaused
	value := 42
	failures := 3
	lastError := "rate limited"

	c := testCampaign("c1", 10)
	update := &ProgressUpdate{
		Status:              &status,
		CurrentValue:        &value,
		LastActionAt:        &now,
		ConsecutiveFailures: &failures,
		LastError:           &lastError,
	}
	assert.False(t, update.IsEmpty())
	update.Apply(c)

	assert.Equal(t, models.CampaignStatusPaused, c.Status)
	assert.Equal(t, 42, c.CurrentValue)
	require.NotNil(t, c.LastActionAt)
	assert.Equal(t, now, *c.LastActionAt)
	assert.Equal(t, 3, c.ConsecutiveFailures)
	assert.Equal(t, "rate limited", c.LastError)

	// Unset fields leave the record untouched
	before := *c
	(&ProgressUpdate{}).Apply(c)
	assert.Equal(t, before, *c)
	assert.True(t, (&ProgressUpdate{}).IsEmpty())
}

func TestMemoryStoreIsolation(t *testing.T) {
	store := NewMemoryStore()
	c := testCampaign("c1", 10)
	store.Put(c)

	// Mutating the caller's copy must not leak into the store
	c.Status = models.CampaignStatusFailed
	stored, err := store.GetCampaign(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusActive, stored.Status)

	stored.CurrentValue = 999
	again, err := store.GetCampaign(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 0, again.CurrentValue)
}

func TestMemoryStoreUpdateReadYourWrites(t *testing.T) {
	store := NewMemoryStore()
	store.Put(testCampaign("c1", 10))

	value := 7
	updated, err := store.UpdateCampaign(context.Background(), "c1", &ProgressUpdate{CurrentValue: &value})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.CurrentValue)

	read, err := store.GetCampaign(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 7, read.CurrentValue)

	_, err = store.UpdateCampaign(context.Background(), "missing", &ProgressUpdate{CurrentValue: &value})
	require.Error(t, err)
}

func TestMemoryStoreActiveFilter(t *testing.T) {
	store := NewMemoryStore()
	store.Put(testCampaign("active", 10))
	paused := testCampaign("paused", 10)
	paused.Status = models.CampaignStatusPaused
	store.Put(paused)
	done := testCampaign("done", 10)
	done.Status = models.CampaignStatusCompleted
	store.Put(done)

	active, err := store.GetActiveCampaigns(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "active", active[0].ID)
}

func TestMemoryStoreMissingCampaign(t *testing.T) {
	store := NewMemoryStore()
	c, err := store.GetCampaign(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, c)
}
