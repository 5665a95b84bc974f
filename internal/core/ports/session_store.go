package ports

import (
	"context"
	"time"
)

// SessionStore tracks which token ids (jti claims) are currently valid.
// A token whose session has been revoked or has expired is rejected by the
// auth middleware even if its signature is still good.
type SessionStore interface {
	Save(ctx context.Context, jti string, userID int64, ttl time.Duration) error
	// Get resolves the user id bound to jti. Returns
	// domain.ErrSessionNotFound when the session is gone.
	Get(ctx context.Context, jti string) (int64, error)
	// Revoke deletes the session. Returns domain.ErrSessionNotFound when
	// there was nothing to revoke.
	Revoke(ctx context.Context, jti string) error
}
