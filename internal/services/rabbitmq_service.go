package services

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/X-Sam-aki/BoosterPro/internal/models"
)

// CampaignEventsQueue receives campaign lifecycle transitions
const CampaignEventsQueue = "campaign_events"

type RabbitMQService struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewRabbitMQService() (*RabbitMQService, error) {
	// Get RabbitMQ connection details from environment
	host := getEnv("RABBITMQ_HOST", "localhost")
	port := getEnv("RABBITMQ_PORT", "5672")
	user := getEnv("RABBITMQ_USER", "guest")
	pass := getEnv("RABBITMQ_PASS", "guest")

	url := fmt.Sprintf("amqp://%s:%s@%s:%s/", user, pass, host, port)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = channel.QueueDeclare(
		CampaignEventsQueue, // name
		true,                // durable
		false,               // delete when unused
		false,               // exclusive
		false,               // no-wait
		nil,                 // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	logrus.Info("RabbitMQ service initialized")
	return &RabbitMQService{
		conn:    conn,
		channel: channel,
	}, nil
}

// CampaignTransitioned publishes a campaign lifecycle transition to the
// campaign events queue. Implements scheduler.Notifier; publish failures are
// logged and never propagate into the scheduler.
func (s *RabbitMQService) CampaignTransitioned(campaign *models.GrowthCampaign, event string) {
	message := map[string]interface{}{
		"event":         event,
		"campaign_id":   campaign.ID,
		"user_id":       campaign.UserID,
		"status":        campaign.Status,
		"platform":      campaign.Platform,
		"target_metric": campaign.TargetMetric,
		"current_value": campaign.CurrentValue,
		"target_value":  campaign.TargetValue,
		"last_error":    campaign.LastError,
	}
	if err := s.publish(CampaignEventsQueue, message); err != nil {
		logrus.Errorf("Failed to publish %s event for campaign %s: %v", event, campaign.ID, err)
	}
}

// publish sends a JSON message to the specified queue
func (s *RabbitMQService) publish(queueName string, message map[string]interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = s.channel.Publish(
		"",        // exchange
		queueName, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	logrus.Debugf("Message published to queue %s: %+v", queueName, message)
	return nil
}

// Close closes the RabbitMQ connection
func (s *RabbitMQService) Close() error {
	if s.channel != nil {
		if err := s.channel.Close(); err != nil {
			logrus.Errorf("Error closing channel: %v", err)
		}
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			logrus.Errorf("Error closing connection: %v", err)
		}
	}
	return nil
}

// getEnv gets environment variable with fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
