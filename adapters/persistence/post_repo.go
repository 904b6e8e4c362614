package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/domain/post"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type postgresPostRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresPostRepo(db *pgxpool.Pool, logger logger.Logger) post.Repository {
	return &postgresPostRepo{db: db, logger: logger}
}

func (r *postgresPostRepo) Save(ctx context.Context, p *post.Post) error {
	query := `
		INSERT INTO posts (id, user_id, text, name, avatar, date)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET text = EXCLUDED.text
	`
	_, err := conn(ctx, r.db).Exec(ctx, query, p.ID, p.UserID, p.Text, p.Name, p.Avatar, p.Date)
	if err != nil {
		return apperror.NewInternal("failed to save post", err)
	}
	return nil
}

func (r *postgresPostRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	query, args, err := psql.Select("COUNT(*)").From("posts").Where("user_id = ?", userID).ToSql()
	if err != nil {
		return 0, apperror.NewInternal("failed to build post count query", err)
	}
	var n int
	if err := conn(ctx, r.db).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, apperror.NewInternal("failed to count posts", err)
	}
	return n, nil
}

func (r *postgresPostRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM posts WHERE user_id = $1`, userID)
	if err != nil {
		return apperror.NewInternal("failed to delete posts", err)
	}
	r.logger.Debug("Deleted posts", zap.String("user_id", userID.String()), zap.Int64("count", tag.RowsAffected()))
	return nil
}
