package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/X-Sam-aki/BoosterPro/internal/config"
	"github.com/X-Sam-aki/BoosterPro/internal/models"
	"github.com/X-Sam-aki/BoosterPro/internal/scheduler"
)

// Client is the production scheduler.ActionExecutor. It speaks JSON over
// HTTP to the SMM provider API that performs follow/view/like actions and
// measures account stats.
type Client struct {
	cfg        *config.ProviderConfig
	httpClient *http.Client
}

// NewClient creates a provider API client
func NewClient(cfg *config.ProviderConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type actionRequest struct {
	CampaignID    string `json:"campaign_id"`
	Platform      string `json:"platform"`
	TargetAccount string `json:"target_account"`
	Action        string `json:"action"`
}

type actionResponse struct {
	Status string `json:"status"` // ok, retry, rejected
	Error  string `json:"error,omitempty"`
}

// Perform executes one atomic action for the campaign against the provider
// API. HTTP 429 and 5xx responses and transport errors map to transient
// failures; other 4xx responses are permanent.
func (c *Client) Perform(ctx context.Context, campaign *models.GrowthCampaign, action scheduler.ActionKind) (scheduler.Outcome, error) {
	route, ok := c.cfg.Routes[string(action)]
	if !ok {
		return scheduler.OutcomePermanentFailure, fmt.Errorf("no provider route for action %s", action)
	}

	reqBody := actionRequest{
		CampaignID:    campaign.ID,
		Platform:      campaign.Platform,
		TargetAccount: campaign.TargetAccount,
		Action:        string(action),
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return scheduler.OutcomePermanentFailure, fmt.Errorf("failed to marshal action request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+route, bytes.NewBuffer(jsonBody))
	if err != nil {
		return scheduler.OutcomePermanentFailure, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("X-Api-Key", c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return scheduler.OutcomeTransientFailure, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return scheduler.OutcomeTransientFailure, fmt.Errorf("failed to read provider response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return scheduler.OutcomeTransientFailure, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(body))
	default:
		return scheduler.OutcomePermanentFailure, fmt.Errorf("provider rejected action with status %d: %s", resp.StatusCode, string(body))
	}

	var actionResp actionResponse
	if err := json.Unmarshal(body, &actionResp); err != nil {
		return scheduler.OutcomeTransientFailure, fmt.Errorf("failed to parse provider response: %w", err)
	}

	switch actionResp.Status {
	case "ok":
		return scheduler.OutcomeSuccess, nil
	case "retry":
		return scheduler.OutcomeTransientFailure, errors.New(actionResp.Error)
	default:
		return scheduler.OutcomePermanentFailure, errors.New(actionResp.Error)
	}
}

type statsResponse struct {
	Followers int `json:"followers"`
	Views     int `json:"views"`
	Likes     int `json:"likes"`
}

// GetCurrentStats measures the target account's current counters
func (c *Client) GetCurrentStats(ctx context.Context, platform, targetAccount string) (scheduler.Stats, error) {
	route, ok := c.cfg.Routes["stats"]
	if !ok {
		return scheduler.Stats{}, errors.New("no provider route for stats")
	}

	query := url.Values{}
	query.Set("platform", platform)
	query.Set("account", targetAccount)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+route+"?"+query.Encode(), nil)
	if err != nil {
		return scheduler.Stats{}, fmt.Errorf("failed to create request: %w", err)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("X-Api-Key", c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return scheduler.Stats{}, fmt.Errorf("stats request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return scheduler.Stats{}, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var stats statsResponse
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return scheduler.Stats{}, fmt.Errorf("failed to parse stats response: %w", err)
	}

	return scheduler.Stats{
		Followers: stats.Followers,
		Views:     stats.Views,
		Likes:     stats.Likes,
	}, nil
}
