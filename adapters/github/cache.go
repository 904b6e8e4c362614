package github

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/pkg/logger"
)

const cacheKeyPrefix = "github:repos:"

// CachedFetcher keeps successful repo listings in Redis for ttl. Failures are
// never cached and a broken cache falls through to the wrapped fetcher.
type CachedFetcher struct {
	next   service.RepoFetcher
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedFetcher(next service.RepoFetcher, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedFetcher {
	return &CachedFetcher{next: next, rdb: rdb, ttl: ttl, logger: log}
}

func CacheKey(username string) string {
	return cacheKeyPrefix + strings.ToLower(username)
}

func (f *CachedFetcher) FetchRepos(ctx context.Context, username string) (json.RawMessage, error) {
	key := CacheKey(username)

	cached, err := f.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		return json.RawMessage(cached), nil
	case !errors.Is(err, redis.Nil):
		f.logger.Warn("GitHub cache read failed", zap.String("key", key), zap.Error(err))
	}

	repos, err := f.next.FetchRepos(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := f.rdb.Set(ctx, key, []byte(repos), f.ttl).Err(); err != nil {
		f.logger.Warn("GitHub cache write failed", zap.String("key", key), zap.Error(err))
	}
	return repos, nil
}

func (f *CachedFetcher) Invalidate(ctx context.Context, username string) error {
	return f.rdb.Del(ctx, CacheKey(username)).Err()
}
