package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type MongoStoreIntegrationTestSuite struct {
	storeContractSuite
	db        *mongo.Database
	container *mongodb.MongoDBContainer
}

func (s *MongoStoreIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7", mongodb.WithReplicaSet("rs0"))
	if err != nil {
		s.T().Fatalf("Failed to start mongo container: %s", err)
	}
	s.container = container

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	var cfg config.Config
	cfg.Mongo.URI = uri
	cfg.Mongo.Database = "devconnector_test"

	log := logger.NewNopLogger()
	db, err := NewMongoDatabase(ctx, cfg, log)
	if err != nil {
		s.T().Fatalf("Failed to connect mongo: %s", err)
	}
	s.db = db

	s.users = NewMongoUserRepo(db, log)
	s.profiles = NewMongoProfileRepo(db, log)
	s.posts = NewMongoPostRepo(db, log)
	s.tx = NewMongoTxManager(db, true, log)
}

func (s *MongoStoreIntegrationTestSuite) TearDownSuite() {
	if s.db != nil {
		_ = s.db.Client().Disconnect(context.Background())
	}
	if s.container != nil {
		if err := s.container.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate mongo container: %s", err)
		}
	}
}

func TestMongoStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(MongoStoreIntegrationTestSuite))
}
