package persistence

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnector/internal/domain/post"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/internal/domain/user"
)

// MemoryStore keeps users, profiles and posts in process memory. Transactions
// are serialized and roll back by restoring a snapshot; writes made outside a
// transaction while one is running may be lost on rollback.
type MemoryStore struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	users    map[uuid.UUID]user.User
	profiles map[uuid.UUID]profile.Profile
	posts    map[uuid.UUID]post.Post
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[uuid.UUID]user.User),
		profiles: make(map[uuid.UUID]profile.Profile),
		posts:    make(map[uuid.UUID]post.Post),
	}
}

func (s *MemoryStore) Users() user.Repository       { return memoryUserRepo{s} }
func (s *MemoryStore) Profiles() profile.Repository { return memoryProfileRepo{s} }
func (s *MemoryStore) Posts() post.Repository       { return memoryPostRepo{s} }

func (s *MemoryStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	users, profiles, posts := cloneMap(s.users), cloneMap(s.profiles), cloneMap(s.posts)
	s.mu.RUnlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.users, s.profiles, s.posts = users, profiles, posts
		s.mu.Unlock()
		return err
	}
	return nil
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type memoryUserRepo struct{ s *MemoryStore }

func (r memoryUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r memoryUserRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

func (r memoryUserRepo) Save(_ context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.users {
		if id != u.ID && strings.EqualFold(existing.Email, u.Email) {
			return user.ErrEmailTaken
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r memoryUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

type memoryProfileRepo struct{ s *MemoryStore }

func (r memoryProfileRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*profile.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return r.joined(p), nil
}

func (r memoryProfileRepo) List(_ context.Context) ([]*profile.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*profile.Profile, 0, len(r.s.profiles))
	for _, p := range r.s.profiles {
		out = append(out, r.joined(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (r memoryProfileRepo) Save(_ context.Context, p *profile.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := cloneProfile(*p)
	stored.Owner = nil
	r.s.profiles[p.UserID] = stored
	return nil
}

func (r memoryProfileRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.profiles, userID)
	return nil
}

// joined must be called with the read lock held.
func (r memoryProfileRepo) joined(p profile.Profile) *profile.Profile {
	out := cloneProfile(p)
	if u, ok := r.s.users[p.UserID]; ok {
		out.Owner = &profile.Owner{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
	}
	return &out
}

func cloneProfile(p profile.Profile) profile.Profile {
	p.Skills = append([]string(nil), p.Skills...)
	p.Experience = append([]profile.Experience(nil), p.Experience...)
	p.Education = append([]profile.Education(nil), p.Education...)
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience == nil {
		p.Experience = []profile.Experience{}
	}
	if p.Education == nil {
		p.Education = []profile.Education{}
	}
	return p
}

type memoryPostRepo struct{ s *MemoryStore }

func (r memoryPostRepo) Save(_ context.Context, p *post.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.posts[p.ID] = *p
	return nil
}

func (r memoryPostRepo) CountByUser(_ context.Context, userID uuid.UUID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, p := range r.s.posts {
		if p.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r memoryPostRepo) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, p := range r.s.posts {
		if p.UserID == userID {
			delete(r.s.posts, id)
		}
	}
	return nil
}
