package event

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/pkg/logger"
)

const ProfileWorkerGroup = "profile-worker"

type HandlerFunc func(ctx context.Context, payload ProfileEventPayload) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	reader messageReader
	logger logger.Logger
}

func NewProfileEventsConsumer(cfg config.Config, log logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    TopicProfileEvents,
		GroupID:  ProfileWorkerGroup,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	return &Consumer{reader: reader, logger: log}
}

// Run reads until ctx is cancelled. Delivery is at most once: undecodable
// messages and messages the handler fails on are logged, committed and
// skipped, so the partition never stalls on one bad event.
func (c *Consumer) Run(ctx context.Context, handle HandlerFunc) error {
	c.logger.Info("Worker listening", zap.String("topic", TopicProfileEvents))
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			c.logger.Error("Failed to read message from Kafka", err)
			continue
		}

		var payload ProfileEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			c.logger.Warn("Failed to unmarshal event, skipping", zap.ByteString("key", msg.Key), zap.Error(err))
			c.commit(ctx, msg)
			continue
		}

		if err := handle(ctx, payload); err != nil {
			c.logger.Error("Failed to process event, skipping", err,
				zap.String("event_type", payload.EventType),
				zap.String("user_id", payload.UserID))
		}
		c.commit(ctx, msg)
	}
}

func (c *Consumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("Failed to commit message", err)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
