package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/pkg/logger"
)

func TestOpenStore_Memory(t *testing.T) {
	var cfg config.Config
	cfg.DB.Driver = config.DriverMemory

	store, err := OpenStore(context.Background(), cfg, logger.NewNopLogger())

	require.NoError(t, err)
	assert.NotNil(t, store.Users)
	assert.NotNil(t, store.Profiles)
	assert.NotNil(t, store.Posts)
	assert.NotNil(t, store.Tx)
	store.Close()
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	var cfg config.Config
	cfg.DB.Driver = "sqlite"

	_, err := OpenStore(context.Background(), cfg, logger.NewNopLogger())

	assert.Error(t, err)
}
