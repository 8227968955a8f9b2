package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/X-Sam-aki/BoosterPro/internal/database/repository"
)

type SocialAccountHandler struct {
	accountRepo *repository.SocialAccountRepository
}

func NewSocialAccountHandler(db *gorm.DB) *SocialAccountHandler {
	return &SocialAccountHandler{
		accountRepo: repository.NewSocialAccountRepository(db),
	}
}

// GetMyAccounts godoc
// @Summary Get cached account stats
// @Description Get the cached platform counters for the accounts targeted by the user's campaigns
// @Tags social-accounts
// @Produce json
// @Success 200 {array} models.SocialAccount
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/social-accounts [get]
func (h *SocialAccountHandler) GetMyAccounts(c *gin.Context) {
	userID := c.MustGet("user_id").(string)

	accounts, err := h.accountRepo.GetByUserID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get accounts", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, accounts)
}

// DeleteAccount godoc
// @Summary Delete a cached account
// @Description Remove a cached account entry; it is re-created on the next sync if a campaign still targets it
// @Tags social-accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/social-accounts/{id} [delete]
func (h *SocialAccountHandler) DeleteAccount(c *gin.Context) {
	userID := c.MustGet("user_id").(string)
	accountID := c.Param("id")

	if err := h.accountRepo.Delete(userID, accountID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
