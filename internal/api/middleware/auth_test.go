package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/userhub/user-management/internal/core/domain"
)

type stubSessions struct {
	sessions map[string]int64
}

func (s *stubSessions) Save(_ context.Context, jti string, userID int64, _ time.Duration) error {
	s.sessions[jti] = userID
	return nil
}

func (s *stubSessions) Get(_ context.Context, jti string) (int64, error) {
	userID, ok := s.sessions[jti]
	if !ok {
		return 0, domain.ErrSessionNotFound
	}
	return userID, nil
}

func (s *stubSessions) Revoke(_ context.Context, jti string) error {
	if _, ok := s.sessions[jti]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, jti)
	return nil
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	sessions := &stubSessions{sessions: map[string]int64{"jti-1": 7}}
	token := signToken(t, "secret", jwt.MapClaims{
		"sub":  "7",
		"role": "admin",
		"jti":  "jti-1",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth("secret", sessions)(func(c echo.Context) error {
		called = true
		if c.Get("user_id") != int64(7) {
			t.Fatalf("user_id not set: %v", c.Get("user_id"))
		}
		if c.Get("role") != "admin" {
			t.Fatalf("role not set")
		}
		if c.Get("jti") != "jti-1" {
			t.Fatalf("jti not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	sessions := &stubSessions{sessions: map[string]int64{}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth("secret", sessions)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_RevokedSession(t *testing.T) {
	e := echo.New()
	// Signature and expiry are fine but the session is gone (logout).
	sessions := &stubSessions{sessions: map[string]int64{}}
	token := signToken(t, "secret", jwt.MapClaims{
		"sub":  "7",
		"role": "user",
		"jti":  "jti-gone",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth("secret", sessions)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	e := echo.New()
	sessions := &stubSessions{sessions: map[string]int64{"jti-2": 7}}
	token := signToken(t, "secret", jwt.MapClaims{
		"sub":  "7",
		"role": "user",
		"jti":  "jti-2",
		"exp":  time.Now().Add(-time.Minute).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth("secret", sessions)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_WrongSubject(t *testing.T) {
	e := echo.New()
	// Session exists but belongs to a different user id than the token
	// claims.
	sessions := &stubSessions{sessions: map[string]int64{"jti-3": 8}}
	token := signToken(t, "secret", jwt.MapClaims{
		"sub":  "7",
		"role": "user",
		"jti":  "jti-3",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth("secret", sessions)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	e := echo.New()
	sessions := &stubSessions{sessions: map[string]int64{}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth("secret", sessions)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
