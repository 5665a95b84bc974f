package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server) (*Client, *SessionFile) {
	t.Helper()
	sessions := NewSessionFile(filepath.Join(t.TempDir(), "session.json"))
	c, err := New(srv.URL, sessions)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c, sessions
}

func TestClient_Login_PersistsSession(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/login" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["email"] != "admin@example.com" {
			t.Fatalf("unexpected body: %+v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user":  map[string]any{"id": 1, "name": "Admin User", "email": "admin@example.com", "role": "admin"},
			"token": "token-abc",
		})
	})
	c, sessions := newTestClient(t, srv)

	user, err := c.Login(context.Background(), "admin@example.com", "password")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.Role != "admin" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if !c.Authenticated() {
		t.Fatalf("client not authenticated after login")
	}

	// The session survives a fresh client, like local storage across tabs.
	restored, err := New(srv.URL, sessions)
	if err != nil {
		t.Fatalf("restore client: %v", err)
	}
	if !restored.Authenticated() || restored.Session().Token != "token-abc" {
		t.Fatalf("session not restored: %+v", restored.Session())
	}
}

func TestClient_SendsBearerToken(t *testing.T) {
	gotAuth := ""
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 1, "name": "Admin User", "email": "admin@example.com", "role": "admin"})
	})
	c, _ := newTestClient(t, srv)
	c.session = &Session{Token: "token-abc", User: User{ID: 1, Role: "admin"}}

	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("me failed: %v", err)
	}
	if gotAuth != "Bearer token-abc" {
		t.Fatalf("unexpected authorization header %q", gotAuth)
	}
}

func TestClient_DecodesValidationErrors(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "The given data was invalid.",
			"errors": map[string][]string{
				"email": {"The email has already been taken."},
			},
		})
	})
	c, _ := newTestClient(t, srv)

	_, err := c.Register(context.Background(), RegisterData{
		Name:                 "Alice",
		Email:                "taken@example.com",
		Password:             "password123",
		PasswordConfirmation: "password123",
	})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if !apiErr.IsValidation() {
		t.Fatalf("expected validation error, got status %d", apiErr.Status)
	}
	if apiErr.Message != "The given data was invalid." {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
	if len(apiErr.Errors["email"]) != 1 {
		t.Fatalf("field errors not decoded: %+v", apiErr.Errors)
	}
	if c.Authenticated() {
		t.Fatalf("failed register must not start a session")
	}
}

func TestClient_Logout_ClearsLocalSessionOnServerError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Token not found"})
	})
	c, sessions := newTestClient(t, srv)
	c.session = &Session{Token: "stale-token", User: User{ID: 1}}
	if err := sessions.Save(c.session); err != nil {
		t.Fatalf("save session: %v", err)
	}

	err := c.Logout(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 APIError, got %v", err)
	}

	// Locally logged out regardless of the server's answer.
	if c.Authenticated() {
		t.Fatalf("session still active after logout")
	}
	persisted, err := sessions.Load()
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if persisted != nil {
		t.Fatalf("persisted session not cleared: %+v", persisted)
	}
}

func TestClient_Users_BuildsQuery(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("per_page") != "5" || q.Get("search") != "alice" {
			t.Fatalf("unexpected query: %s", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(PaginatedUsers{
			Data:        []User{{ID: 6, Name: "Alice", Email: "alice@example.com", Role: "user"}},
			CurrentPage: 2,
			LastPage:    3,
			PerPage:     5,
			Total:       11,
			From:        6,
			To:          6,
		})
	})
	c, _ := newTestClient(t, srv)

	page, err := c.Users(context.Background(), 2, 5, "alice")
	if err != nil {
		t.Fatalf("users failed: %v", err)
	}
	if len(page.Data) != 1 || page.Total != 11 || page.LastPage != 3 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestClient_Users_OmitsDefaults(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Fatalf("expected no query, got %q", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(PaginatedUsers{CurrentPage: 1, LastPage: 1, PerPage: 10})
	})
	c, _ := newTestClient(t, srv)

	if _, err := c.Users(context.Background(), 0, 0, ""); err != nil {
		t.Fatalf("users failed: %v", err)
	}
}

func TestClient_UpdateUser_OmitsEmptyPassword(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/users/5" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if _, ok := body["password"]; ok {
			t.Fatalf("empty password must be omitted: %+v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{"id": 5, "name": body["name"], "email": body["email"], "role": body["role"]},
		})
	})
	c, _ := newTestClient(t, srv)

	user, err := c.UpdateUser(context.Background(), 5, UserFormData{
		Name:  "Renamed",
		Email: "eve@example.com",
		Role:  "user",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if user.Name != "Renamed" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestClient_ExportCSV(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename=users_2026-08-30.csv`)
		_, _ = w.Write([]byte("id,name,email,phone,role,created_at,updated_at\n"))
	})
	c, _ := newTestClient(t, srv)

	filename, data, err := c.ExportCSV(context.Background())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if filename != "users_2026-08-30.csv" {
		t.Fatalf("unexpected filename %q", filename)
	}
	if len(data) == 0 {
		t.Fatalf("empty export body")
	}
}

func TestClient_ExportCSV_FallbackFilename(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("id,name,email,phone,role,created_at,updated_at\n"))
	})
	c, _ := newTestClient(t, srv)

	filename, _, err := c.ExportCSV(context.Background())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if filename != "users.csv" {
		t.Fatalf("unexpected fallback filename %q", filename)
	}
}

func TestClient_DeleteUser_Forbidden(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Forbidden"})
	})
	c, _ := newTestClient(t, srv)

	err := c.DeleteUser(context.Background(), 1)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusForbidden {
		t.Fatalf("expected 403 APIError, got %v", err)
	}
	if apiErr.IsValidation() {
		t.Fatalf("403 must not classify as validation")
	}
}
