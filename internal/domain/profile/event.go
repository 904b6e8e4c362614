package profile

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventUpserted          EventType = "profile.upserted"
	EventExperienceAdded   EventType = "profile.experience_added"
	EventExperienceRemoved EventType = "profile.experience_removed"
	EventEducationAdded    EventType = "profile.education_added"
	EventEducationRemoved  EventType = "profile.education_removed"
	EventAccountDeleted    EventType = "account.deleted"
)

type Event struct {
	Type           EventType `json:"event_type"`
	UserID         uuid.UUID `json:"user_id"`
	GitHubUsername string    `json:"github_username,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
