package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/X-Sam-aki/BoosterPro/internal/config"
	"github.com/X-Sam-aki/BoosterPro/internal/models"
	"github.com/X-Sam-aki/BoosterPro/internal/scheduler"
)

func testClient(serverURL string) *Client {
	return NewClient(&config.ProviderConfig{
		Name:    "test-provider",
		BaseURL: serverURL,
		APIKey:  "secret",
		Routes: map[string]string{
			"follow": "/api/v2/actions/follow",
			"view":   "/api/v2/actions/view",
			"like":   "/api/v2/actions/like",
			"stats":  "/api/v2/accounts/stats",
		},
		Timeout: 5 * time.Second,
	})
}

func testTarget() *models.GrowthCampaign {
	return &models.GrowthCampaign{
		ID:            "campaign-1",
		Platform:      models.PlatformTikTok,
		TargetAccount: "@creatorhandle",
		TargetMetric:  models.MetricFollowers,
	}
}

func TestPerformSuccess(t *testing.T) {
	var gotReq actionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v2/actions/follow", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(actionResponse{Status: "ok"})
	}))
	defer server.Close()

	outcome, err := testClient(server.URL).Perform(context.Background(), testTarget(), scheduler.ActionFollow)
	require.NoError(t, err)
	assert.Equal(t, scheduler.OutcomeSuccess, outcome)
	assert.Equal(t, "campaign-1", gotReq.CampaignID)
	assert.Equal(t, "tiktok", gotReq.Platform)
	assert.Equal(t, "@creatorhandle", gotReq.TargetAccount)
	assert.Equal(t, "follow", gotReq.Action)
}

func TestPerformOutcomeMapping(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		body    string
		outcome scheduler.Outcome
	}{
		{"rate limited", http.StatusTooManyRequests, "", scheduler.OutcomeTransientFailure},
		{"server error", http.StatusBadGateway, "", scheduler.OutcomeTransientFailure},
		{"bad request", http.StatusBadRequest, "", scheduler.OutcomePermanentFailure},
		{"provider retry", http.StatusOK, `{"status":"retry","error":"busy"}`, scheduler.OutcomeTransientFailure},
		{"provider rejected", http.StatusOK, `{"status":"rejected","error":"account suspended"}`, scheduler.OutcomePermanentFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			outcome, err := testClient(server.URL).Perform(context.Background(), testTarget(), scheduler.ActionFollow)
			require.Error(t, err)
			assert.Equal(t, tt.outcome, outcome)
		})
	}
}

func TestPerformTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	outcome, err := testClient(server.URL).Perform(context.Background(), testTarget(), scheduler.ActionFollow)
	require.Error(t, err)
	assert.Equal(t, scheduler.OutcomeTransientFailure, outcome)
}

func TestPerformUnknownAction(t *testing.T) {
	client := NewClient(&config.ProviderConfig{Routes: map[string]string{}, Timeout: time.Second})
	outcome, err := client.Perform(context.Background(), testTarget(), scheduler.ActionKind("poke"))
	require.Error(t, err)
	assert.Equal(t, scheduler.OutcomePermanentFailure, outcome)
}

func TestGetCurrentStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/accounts/stats", r.URL.Path)
		assert.Equal(t, "tiktok", r.URL.Query().Get("platform"))
		assert.Equal(t, "@creatorhandle", r.URL.Query().Get("account"))
		json.NewEncoder(w).Encode(statsResponse{Followers: 1500, Views: 90000, Likes: 4200})
	}))
	defer server.Close()

	stats, err := testClient(server.URL).GetCurrentStats(context.Background(), "tiktok", "@creatorhandle")
	require.NoError(t, err)
	assert.Equal(t, scheduler.Stats{Followers: 1500, Views: 90000, Likes: 4200}, stats)
}

func TestGetCurrentStatsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := testClient(server.URL).GetCurrentStats(context.Background(), "tiktok", "@missing")
	require.Error(t, err)
}
