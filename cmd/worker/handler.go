package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/adapters/event"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type cacheInvalidator interface {
	Invalidate(ctx context.Context, username string) error
}

type eventHandler struct {
	cache  cacheInvalidator
	logger logger.Logger
}

func newEventHandler(cache cacheInvalidator, log logger.Logger) *eventHandler {
	return &eventHandler{cache: cache, logger: log}
}

// Handle logs every profile event and evicts the repo cache entry of the
// profile's GitHub user on upserts and account deletions.
func (h *eventHandler) Handle(ctx context.Context, payload event.ProfileEventPayload) error {
	h.logger.Info("Profile event",
		zap.String("event_type", payload.EventType),
		zap.String("user_id", payload.UserID),
		zap.Time("occurred_at", payload.OccurredAt),
	)

	if h.cache == nil || payload.GitHubUsername == "" {
		return nil
	}
	switch profile.EventType(payload.EventType) {
	case profile.EventUpserted, profile.EventAccountDeleted:
		return h.cache.Invalidate(ctx, payload.GitHubUsername)
	}
	return nil
}
