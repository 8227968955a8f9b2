package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/X-Sam-aki/BoosterPro/internal/config"
	"github.com/X-Sam-aki/BoosterPro/internal/database"
	"github.com/X-Sam-aki/BoosterPro/internal/database/repository"
	"github.com/X-Sam-aki/BoosterPro/internal/platform"
	"github.com/X-Sam-aki/BoosterPro/internal/router"
	"github.com/X-Sam-aki/BoosterPro/internal/scheduler"
	"github.com/X-Sam-aki/BoosterPro/internal/services"
	"github.com/X-Sam-aki/BoosterPro/internal/utils"

	_ "github.com/X-Sam-aki/BoosterPro/docs"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Configure logging
	configureLogging()

	// Initialize Sentry
	utils.InitSentry()

	// Initialize database connection
	db, err := database.InitDB()
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}

	// Provider client performs the actual platform actions
	executor := platform.NewClient(config.GetProviderConfig())

	// RabbitMQ carries campaign lifecycle events; the scheduler runs
	// without it if the broker is unreachable
	var notifier scheduler.Notifier
	rabbitMQService, err := services.NewRabbitMQService()
	if err != nil {
		logrus.Warnf("Failed to initialize RabbitMQ, campaign events disabled: %v", err)
	} else {
		notifier = rabbitMQService
		defer rabbitMQService.Close()
	}

	// Start the campaign supervisor; it reloads every active campaign so
	// drip execution resumes across restarts
	campaignRepo := repository.NewGrowthCampaignRepository(db)
	supervisor := scheduler.NewSupervisor(campaignRepo, executor, config.GetSchedulerConfig(), notifier)
	if err := supervisor.Start(context.Background()); err != nil {
		logrus.Fatalf("Failed to start campaign supervisor: %v", err)
	}

	// Keep cached account stats fresh for the dashboard queries
	accountSyncService := services.NewAccountSyncService(db, executor)
	if minutes, err := strconv.Atoi(getEnv("ACCOUNT_SYNC_INTERVAL_MINUTES", "")); err == nil && minutes > 0 {
		accountSyncService.SetInterval(time.Duration(minutes) * time.Minute)
	}
	accountSyncService.Start()
	defer accountSyncService.Stop()

	// Initialize router
	r := router.SetupRouter(db, supervisor, executor)

	// Configure HTTP server
	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		logrus.Infof("Server starting on port %s", port)
		logrus.Infof("API Health Check: http://localhost:%s/api/v1/health", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Let every runner finish its current tick so no action goes
	// unaccounted for across the restart
	supervisor.StopAll()

	logrus.Info("Server exited properly")
}

func configureLogging() {
	logLevel := getEnv("LOG_LEVEL", "info")
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
