package service

import (
	"context"

	"github.com/khoahotran/devconnector/internal/domain/profile"
)

type EventPublisher interface {
	PublishProfileEvent(ctx context.Context, event profile.Event) error
}

// NopPublisher drops events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishProfileEvent(context.Context, profile.Event) error { return nil }
