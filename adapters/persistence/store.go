package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/internal/domain"
	"github.com/khoahotran/devconnector/internal/domain/post"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/logger"
)

// Store bundles the repositories of one backend with its transaction
// manager and the function that releases its connections.
type Store struct {
	Users    user.Repository
	Profiles profile.Repository
	Posts    post.Repository
	Tx       domain.TxManager
	Close    func()
}

// OpenStore connects the backend named by db.driver.
func OpenStore(ctx context.Context, cfg config.Config, log logger.Logger) (*Store, error) {
	switch cfg.DB.Driver {
	case config.DriverPostgres:
		pool, err := NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &Store{
			Users:    NewPostgresUserRepo(pool, log),
			Profiles: NewPostgresProfileRepo(pool, log),
			Posts:    NewPostgresPostRepo(pool, log),
			Tx:       NewPostgresTxManager(pool, log),
			Close:    pool.Close,
		}, nil

	case config.DriverMongo:
		db, err := NewMongoDatabase(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &Store{
			Users:    NewMongoUserRepo(db, log),
			Profiles: NewMongoProfileRepo(db, log),
			Posts:    NewMongoPostRepo(db, log),
			Tx:       NewMongoTxManager(db, cfg.Mongo.Transactions, log),
			Close: func() {
				if err := db.Client().Disconnect(context.Background()); err != nil {
					log.Warn("Failed to disconnect MongoDB", zap.Error(err))
				}
			},
		}, nil

	case config.DriverMemory:
		log.Warn("Using in-memory store, data is lost on exit")
		mem := NewMemoryStore()
		return &Store{
			Users:    mem.Users(),
			Profiles: mem.Profiles(),
			Posts:    mem.Posts(),
			Tx:       mem,
			Close:    func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown db driver %q", cfg.DB.Driver)
}
