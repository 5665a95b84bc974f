package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/userhub/user-management/internal/core/domain"
	"github.com/userhub/user-management/internal/core/ports"
)

// stubUserRepo is an in-memory ports.UserRepository with the same
// observable behaviour as the Mongo implementation: sequential ids, email
// uniqueness, id-ascending listings with substring search.
type stubUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	r.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, filter ports.ListUsersFilter) ([]domain.User, int64, error) {
	matched := r.sorted(filter.Search)

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.PerPage
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.PerPage
	if end > len(matched) {
		end = len(matched)
	}

	page := make([]domain.User, 0, end-start)
	for _, u := range matched[start:end] {
		page = append(page, *cloneUser(u))
	}
	return page, total, nil
}

func (r *stubUserRepo) All(_ context.Context) ([]domain.User, error) {
	matched := r.sorted("")
	all := make([]domain.User, 0, len(matched))
	for _, u := range matched {
		all = append(all, *cloneUser(u))
	}
	return all, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	for _, u := range r.users {
		if u.ID != user.ID && u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) sorted(search string) []*domain.User {
	term := strings.ToLower(search)
	matched := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		if term == "" ||
			strings.Contains(strings.ToLower(u.Name), term) ||
			strings.Contains(strings.ToLower(u.Email), term) ||
			strings.Contains(strings.ToLower(u.Phone), term) {
			matched = append(matched, u)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched
}

// stubSessionStore is an in-memory ports.SessionStore. TTLs are recorded
// but never enforced; expiry is the JWT's job in these tests.
type stubSessionStore struct {
	sessions map[string]int64
	ttls     map[string]time.Duration
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{
		sessions: make(map[string]int64),
		ttls:     make(map[string]time.Duration),
	}
}

func (s *stubSessionStore) Save(_ context.Context, jti string, userID int64, ttl time.Duration) error {
	s.sessions[jti] = userID
	s.ttls[jti] = ttl
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, jti string) (int64, error) {
	userID, ok := s.sessions[jti]
	if !ok {
		return 0, domain.ErrSessionNotFound
	}
	return userID, nil
}

func (s *stubSessionStore) Revoke(_ context.Context, jti string) error {
	if _, ok := s.sessions[jti]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, jti)
	return nil
}
