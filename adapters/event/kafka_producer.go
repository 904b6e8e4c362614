package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/pkg/logger"
)

const TopicProfileEvents = "profile.events"

// ProfileEventPayload is the message body on TopicProfileEvents.
type ProfileEventPayload struct {
	EventType      string    `json:"event_type"`
	UserID         string    `json:"user_id"`
	GitHubUsername string    `json:"github_username,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func PayloadFromEvent(e profile.Event) ProfileEventPayload {
	return ProfileEventPayload{
		EventType:      string(e.Type),
		UserID:         e.UserID.String(),
		GitHubUsername: e.GitHubUsername,
		OccurredAt:     e.OccurredAt,
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducerClient struct {
	ProfileEventsWriter messageWriter
	logger              logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicProfileEvents,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	}

	log.Info("Initialize Kafka Producer successfully.", zap.String("topic", TopicProfileEvents))
	return &KafkaProducerClient{ProfileEventsWriter: writer, logger: log}, nil
}

// PublishProfileEvent keys messages by user id so one user's events stay ordered.
func (c *KafkaProducerClient) PublishProfileEvent(ctx context.Context, e profile.Event) error {
	value, err := json.Marshal(PayloadFromEvent(e))
	if err != nil {
		return fmt.Errorf("failed to marshal profile event: %w", err)
	}
	err = c.ProfileEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.UserID.String()),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("failed to write profile event: %w", err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.ProfileEventsWriter != nil {
		if err := c.ProfileEventsWriter.Close(); err != nil {
			c.logger.Warn("Failed to close Kafka producer", zap.Error(err))
		}
	}
	c.logger.Info("Closed Kafka Producer")
}
