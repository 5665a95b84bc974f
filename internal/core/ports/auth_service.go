package ports

import (
	"context"

	"github.com/userhub/user-management/internal/core/domain"
)

// RegisterInput carries the self-service registration fields. The role is
// not an input: registration always produces a standard user.
type RegisterInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
	Phone                string
}

type AuthService interface {
	// Register creates a user with role forced to "user" and issues a
	// token for it.
	Register(ctx context.Context, input RegisterInput) (*domain.User, string, error)
	// Login verifies credentials and issues a fresh token.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	// Logout revokes the session identified by jti.
	Logout(ctx context.Context, jti string) error
	// Me returns the record of the authenticated caller.
	Me(ctx context.Context, userID int64) (*domain.User, error)
}
