package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/X-Sam-aki/BoosterPro/internal/handlers"
	"github.com/X-Sam-aki/BoosterPro/internal/middleware"
	"github.com/X-Sam-aki/BoosterPro/internal/scheduler"
)

// SetupRouter configures the Gin router with the growth campaign control surface
func SetupRouter(db *gorm.DB, supervisor *scheduler.Supervisor, executor scheduler.ActionExecutor) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Use middleware
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	campaignHandler := handlers.NewGrowthCampaignHandler(db, supervisor, executor)
	accountHandler := handlers.NewSocialAccountHandler(db)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes
	api := r.Group("/api/v1")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":           "ok",
				"running_campaigns": supervisor.RunnerCount(),
				"time":             time.Now().Format(time.RFC3339),
			})
		})

		campaigns := api.Group("/growth-campaigns")
		campaigns.Use(middleware.UserContext())
		{
			campaigns.POST("", campaignHandler.CreateCampaign)
			campaigns.GET("", campaignHandler.GetMyCampaigns)
			campaigns.GET("/:id", campaignHandler.GetCampaign)
			campaigns.PATCH("/:id/status", campaignHandler.UpdateCampaignStatus)
			campaigns.DELETE("/:id", campaignHandler.DeleteCampaign)
		}

		accounts := api.Group("/social-accounts")
		accounts.Use(middleware.UserContext())
		{
			accounts.GET("", accountHandler.GetMyAccounts)
			accounts.DELETE("/:id", accountHandler.DeleteAccount)
		}
	}

	return r
}
