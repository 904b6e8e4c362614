package post

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Post is a user's feed entry. Posts are owned by a user and go away with the account.
type Post struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	Text   string    `json:"text"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

type Repository interface {
	Save(ctx context.Context, p *Post) error
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
