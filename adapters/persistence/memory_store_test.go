package persistence

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type MemoryStoreTestSuite struct {
	storeContractSuite
}

func (s *MemoryStoreTestSuite) SetupSuite() {
	store := NewMemoryStore()
	s.users = store.Users()
	s.profiles = store.Profiles()
	s.posts = store.Posts()
	s.tx = store
}

func TestMemoryStore(t *testing.T) {
	suite.Run(t, new(MemoryStoreTestSuite))
}
