package persistence

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/internal/domain"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/logger"
)

const (
	usersCollection    = "users"
	profilesCollection = "profiles"
	postsCollection    = "posts"
)

// NewMongoDatabase connects, pings and makes sure the unique indexes exist.
func NewMongoDatabase(ctx context.Context, cfg config.Config, log logger.Logger) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(cfg.Mongo.Database)
	if err := ensureMongoIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Info("Connect MongoDB successfully.", zap.String("database", cfg.Mongo.Database))
	return db, nil
}

func ensureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string]mongo.IndexModel{
		usersCollection:    {Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		profilesCollection: {Keys: bson.D{{Key: "user", Value: 1}}, Options: options.Index().SetUnique(true)},
		postsCollection:    {Keys: bson.D{{Key: "user", Value: 1}}},
	}
	for coll, model := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", coll, err)
		}
	}
	return nil
}

type mongoTxManager struct {
	client  *mongo.Client
	enabled bool
	logger  logger.Logger
}

// NewMongoTxManager runs units of work in a session transaction when enabled.
// Transactions need a replica set; without one the steps run in sequence.
// A failed commit is reported, not retried.
func NewMongoTxManager(db *mongo.Database, enabled bool, log logger.Logger) domain.TxManager {
	return &mongoTxManager{client: db.Client(), enabled: enabled, logger: log}
}

func (m *mongoTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if !m.enabled || mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	session, err := m.client.StartSession()
	if err != nil {
		return apperror.NewInternal("failed to start mongo session", err)
	}
	defer session.EndSession(context.Background())

	if err := session.StartTransaction(); err != nil {
		return apperror.NewInternal("failed to start mongo transaction", err)
	}
	sc := mongo.NewSessionContext(ctx, session)

	if err := fn(sc); err != nil {
		if abortErr := session.AbortTransaction(context.Background()); abortErr != nil {
			m.logger.Warn("Failed to abort mongo transaction", zap.Error(abortErr))
		}
		return err
	}
	if err := session.CommitTransaction(sc); err != nil {
		return apperror.NewInternal("failed to commit mongo transaction", err)
	}
	return nil
}
