package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/X-Sam-aki/BoosterPro/internal/database/repository"
	"github.com/X-Sam-aki/BoosterPro/internal/models"
	"github.com/X-Sam-aki/BoosterPro/internal/scheduler"
	"github.com/X-Sam-aki/BoosterPro/internal/services"
)

type GrowthCampaignHandler struct {
	campaignService *services.GrowthCampaignService
}

func NewGrowthCampaignHandler(db *gorm.DB, supervisor *scheduler.Supervisor, executor scheduler.ActionExecutor) *GrowthCampaignHandler {
	campaignRepo := repository.NewGrowthCampaignRepository(db)
	accountRepo := repository.NewSocialAccountRepository(db)

	campaignService := services.NewGrowthCampaignService(campaignRepo, accountRepo, supervisor, executor)
	return &GrowthCampaignHandler{
		campaignService: campaignService,
	}
}

// CreateCampaign godoc
// @Summary Create a new growth campaign
// @Description Create a growth campaign for the authenticated user; with start_now it begins executing immediately
// @Tags growth-campaigns
// @Accept json
// @Produce json
// @Param request body models.CreateGrowthCampaignRequest true "Create campaign request"
// @Success 201 {object} models.GrowthCampaignResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/growth-campaigns [post]
func (h *GrowthCampaignHandler) CreateCampaign(c *gin.Context) {
	userID := c.MustGet("user_id").(string)

	var req models.CreateGrowthCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	response, err := h.campaignService.CreateAndStart(c.Request.Context(), userID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "must be") || strings.Contains(err.Error(), "already reached") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create campaign", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, response)
}

// GetMyCampaigns godoc
// @Summary Get user's growth campaigns
// @Description Get all growth campaigns belonging to the authenticated user
// @Tags growth-campaigns
// @Produce json
// @Success 200 {array} models.GrowthCampaignResponse
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/growth-campaigns [get]
func (h *GrowthCampaignHandler) GetMyCampaigns(c *gin.Context) {
	userID := c.MustGet("user_id").(string)

	responses, err := h.campaignService.GetCampaignsByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get campaigns", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, responses)
}

// GetCampaign godoc
// @Summary Get a growth campaign
// @Description Get a single growth campaign with its live progress
// @Tags growth-campaigns
// @Produce json
// @Param id path string true "Campaign ID"
// @Success 200 {object} models.GrowthCampaignResponse
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/growth-campaigns/{id} [get]
func (h *GrowthCampaignHandler) GetCampaign(c *gin.Context) {
	userID := c.MustGet("user_id").(string)
	campaignID := c.Param("id")

	response, err := h.campaignService.GetCampaignByID(userID, campaignID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// UpdateCampaignStatus godoc
// @Summary Update a campaign's status
// @Description Pause, resume or cancel a growth campaign
// @Tags growth-campaigns
// @Accept json
// @Produce json
// @Param id path string true "Campaign ID"
// @Param request body models.UpdateCampaignStatusRequest true "Status transition"
// @Success 200 {object} models.GrowthCampaignResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/growth-campaigns/{id}/status [patch]
func (h *GrowthCampaignHandler) UpdateCampaignStatus(c *gin.Context) {
	userID := c.MustGet("user_id").(string)
	campaignID := c.Param("id")

	var req models.UpdateCampaignStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	var (
		response *models.GrowthCampaignResponse
		err      error
	)
	switch req.Status {
	case models.CampaignStatusPaused:
		response, err = h.campaignService.Pause(ctx, userID, campaignID)
	case models.CampaignStatusActive:
		response, err = h.campaignService.Resume(ctx, userID, campaignID)
	case models.CampaignStatusCancelled:
		response, err = h.campaignService.Cancel(ctx, userID, campaignID)
	}
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// DeleteCampaign godoc
// @Summary Delete a growth campaign
// @Description Cancel (if needed) and delete a growth campaign
// @Tags growth-campaigns
// @Produce json
// @Param id path string true "Campaign ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/growth-campaigns/{id} [delete]
func (h *GrowthCampaignHandler) DeleteCampaign(c *gin.Context) {
	userID := c.MustGet("user_id").(string)
	campaignID := c.Param("id")

	if err := h.campaignService.Delete(c.Request.Context(), userID, campaignID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete campaign", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Campaign deleted"})
}
