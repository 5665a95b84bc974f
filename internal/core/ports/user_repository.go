package ports

import (
	"context"

	"github.com/userhub/user-management/internal/core/domain"
)

// ListUsersFilter narrows and pages a user listing. Search is matched as a
// case-insensitive substring against name, email and phone.
type ListUsersFilter struct {
	Page    int
	PerPage int
	Search  string
}

// UserRepository defines the persistence contract for user records.
type UserRepository interface {
	// Create inserts the user, assigns its numeric id and returns the
	// stored record. Returns domain.ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns one page ordered by id ascending plus the total number
	// of records matching the filter.
	List(ctx context.Context, filter ListUsersFilter) ([]domain.User, int64, error)
	// All returns every user ordered by id ascending (CSV export).
	All(ctx context.Context) ([]domain.User, error)
	// Update replaces the stored record. Returns domain.ErrUserNotFound
	// when the id is absent and domain.ErrEmailTaken on a duplicate email.
	Update(ctx context.Context, user *domain.User) error
	// Delete removes the record permanently. Returns domain.ErrUserNotFound
	// when the id is absent.
	Delete(ctx context.Context, id int64) error
}
