package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/X-Sam-aki/BoosterPro/internal/models"
)

// MemoryStore is an in-memory ProgressStore. It backs tests and local
// development where no database is available.
type MemoryStore struct {
	mu        sync.RWMutex
	campaigns map[string]*models.GrowthCampaign
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		campaigns: make(map[string]*models.GrowthCampaign),
	}
}

// Put inserts or replaces a campaign record
func (s *MemoryStore) Put(campaign *models.GrowthCampaign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[campaign.ID] = cloneCampaign(campaign)
}

// GetActiveCampaigns returns all campaigns with status "active"
func (s *MemoryStore) GetActiveCampaigns(ctx context.Context) ([]*models.GrowthCampaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var active []*models.GrowthCampaign
	for _, c := range s.campaigns {
		if c.Status == models.CampaignStatusActive {
			active = append(active, cloneCampaign(c))
		}
	}
	return active, nil
}

// GetCampaign returns the campaign with the given ID, or nil if absent
func (s *MemoryStore) GetCampaign(ctx context.Context, id string) (*models.GrowthCampaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.campaigns[id]
	if !ok {
		return nil, nil
	}
	return cloneCampaign(c), nil
}

// UpdateCampaign applies the update and returns the stored record
func (s *MemoryStore) UpdateCampaign(ctx context.Context, id string, update *ProgressUpdate) (*models.GrowthCampaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.campaigns[id]
	if !ok {
		return nil, fmt.Errorf("campaign %s not found", id)
	}
	update.Apply(c)
	c.UpdatedAt = time.Now()
	return cloneCampaign(c), nil
}

// cloneCampaign copies a campaign so callers never alias store-owned state
func cloneCampaign(c *models.GrowthCampaign) *models.GrowthCampaign {
	clone := *c
	if c.StartDate != nil {
		start := *c.StartDate
		clone.StartDate = &start
	}
	if c.EndDate != nil {
		end := *c.EndDate
		clone.EndDate = &end
	}
	if c.LastActionAt != nil {
		last := *c.LastActionAt
		clone.LastActionAt = &last
	}
	return &clone
}
