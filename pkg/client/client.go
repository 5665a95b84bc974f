// Package client is a Go client for the user-management API: the service
// layer a frontend builds on. It wraps every endpoint, persists the
// session (token plus user snapshot) locally, and exposes the validation,
// sanitization and capability helpers the UI layer needs.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	Status  int
	Message string
	Errors  map[string][]string
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("api: %d %s (%s)", e.Status, e.Message, strings.Join(fields, ", "))
}

// IsValidation reports whether the failure carries field-level messages.
func (e *APIError) IsValidation() bool {
	return e.Status == http.StatusUnprocessableEntity
}

// Client talks to the user-management API. The zero value is not usable;
// construct with New.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions *SessionFile
	session  *Session
}

// New builds a Client against baseURL. The persisted session, when
// present, is restored so callers stay logged in across processes — the
// local-storage behaviour of the web client.
func New(baseURL string, sessions *SessionFile) (*Client, error) {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 30 * time.Second},
		sessions: sessions,
	}
	if sessions != nil {
		session, err := sessions.Load()
		if err != nil {
			return nil, err
		}
		c.session = session
	}
	return c, nil
}

// Session returns the active session, or nil when logged out.
func (c *Client) Session() *Session {
	return c.session
}

// Authenticated reports whether a token is held.
func (c *Client) Authenticated() bool {
	return c.session != nil && c.session.Token != ""
}

type authPayload struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Register creates an account and starts a session with the returned token.
func (c *Client) Register(ctx context.Context, data RegisterData) (*User, error) {
	var payload authPayload
	if err := c.do(ctx, http.MethodPost, "/api/register", data, &payload); err != nil {
		return nil, err
	}
	if err := c.startSession(payload); err != nil {
		return nil, err
	}
	return &c.session.User, nil
}

// Login authenticates and starts a session with the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}
	var payload authPayload
	if err := c.do(ctx, http.MethodPost, "/api/login", body, &payload); err != nil {
		return nil, err
	}
	if err := c.startSession(payload); err != nil {
		return nil, err
	}
	return &c.session.User, nil
}

// Logout revokes the server session. The local session is cleared even
// when the server call fails (for example a token already revoked
// elsewhere), so the caller always ends up logged out locally.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/logout", nil, nil)

	c.session = nil
	if c.sessions != nil {
		if clearErr := c.sessions.Clear(); clearErr != nil && err == nil {
			err = clearErr
		}
	}
	return err
}

// Me fetches the authenticated caller's record from the server.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Users fetches one page of the listing. A zero page or perPage lets the
// server apply its defaults.
func (c *Client) Users(ctx context.Context, page, perPage int, search string) (*PaginatedUsers, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		q.Set("per_page", strconv.Itoa(perPage))
	}
	if search != "" {
		q.Set("search", search)
	}
	path := "/api/users"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var result PaginatedUsers
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// User fetches a single record by id.
func (c *Client) User(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type userPayload struct {
	User User `json:"user"`
}

// CreateUser creates a record with an admin-selected role.
func (c *Client) CreateUser(ctx context.Context, data UserFormData) (*User, error) {
	var payload userPayload
	if err := c.do(ctx, http.MethodPost, "/api/users", data, &payload); err != nil {
		return nil, err
	}
	return &payload.User, nil
}

// UpdateUser applies the form to an existing record. An empty password in
// data leaves the stored one unchanged.
func (c *Client) UpdateUser(ctx context.Context, id int64, data UserFormData) (*User, error) {
	var payload userPayload
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/users/%d", id), data, &payload); err != nil {
		return nil, err
	}
	return &payload.User, nil
}

// DeleteUser removes a record permanently.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/users/%d", id), nil, nil)
}

// ExportCSV downloads the full users export. The filename comes from the
// Content-Disposition header, falling back to a static name.
func (c *Client) ExportCSV(ctx context.Context) (string, []byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/users/export/csv", nil)
	if err != nil {
		return "", nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return "", nil, decodeAPIError(resp.StatusCode, body)
	}

	filename := "users.csv"
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			filename = params["filename"]
		}
	}
	return filename, body, nil
}

func (c *Client) startSession(payload authPayload) error {
	c.session = &Session{Token: payload.Token, User: payload.User}
	if c.sessions != nil {
		return c.sessions.Save(c.session)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func decodeAPIError(status int, body []byte) error {
	apiErr := &APIError{Status: status, Message: http.StatusText(status)}
	var envelope struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		apiErr.Message = envelope.Message
		apiErr.Errors = envelope.Errors
	}
	return apiErr
}
