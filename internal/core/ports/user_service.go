package ports

import (
	"context"

	"github.com/userhub/user-management/internal/core/domain"
)

// CreateUserInput carries the admin-issued create fields. Unlike
// registration the role is selectable.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     string
}

// UpdateUserInput carries a partial update. Nil pointers mean "leave
// unchanged"; an empty password also leaves the stored hash untouched.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Phone    *string
	Role     *string
}

// UserPage is one page of a listing plus the bookkeeping the clients
// render pagination controls from.
type UserPage struct {
	Users       []domain.User
	Total       int64
	CurrentPage int
	LastPage    int
	PerPage     int
	From        int
	To          int
}

// CSVExport is a rendered users export.
type CSVExport struct {
	Filename string
	Data     []byte
}

type UserService interface {
	List(ctx context.Context, page, perPage int, search string) (*UserPage, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	// ExportCSV renders all users as CSV without the password hash column.
	ExportCSV(ctx context.Context) (*CSVExport, error)
}
