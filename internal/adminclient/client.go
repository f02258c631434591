// Package adminclient is an HTTP client for the admin console API. It lets the
// table controller and the permission matrix run against a remote server.
package adminclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Client talks to the admin console API on behalf of one signed-in user.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     zerolog.Logger

	mu    sync.RWMutex
	token string
}

// New returns a client for the API at baseURL (for example
// http://localhost:8080). timeout <= 0 falls back to 10s.
func New(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger.With().Str("component", "admin_client").Logger(),
	}
}

// SetToken replaces the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Login authenticates and keeps the returned token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*ports.UserView, error) {
	var resp struct {
		Token string   `json:"token"`
		User  userWire `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	c.logger.Debug().Str("user_id", resp.User.ID).Msg("signed in")
	v := resp.User.view()
	return &v, nil
}

// ListUsers fetches one page of users. Page and filter semantics are the
// server's; the client only encodes the query.
func (c *Client) ListUsers(ctx context.Context, q ports.UserQuery) (*ports.UserPage, error) {
	params := url.Values{}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		params.Set("limit", strconv.Itoa(q.PageSize))
	}
	if q.Search != "" {
		params.Set("q", q.Search)
	}
	for field, value := range q.Filters {
		if value != "" {
			params.Set(field, value)
		}
	}

	path := "/v1/users"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var resp struct {
		Users      []userWire `json:"users"`
		Total      int        `json:"total"`
		Page       int        `json:"page"`
		Limit      int        `json:"limit"`
		TotalPages int        `json:"total_pages"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	page := &ports.UserPage{
		Users:      make([]ports.UserView, len(resp.Users)),
		Total:      resp.Total,
		Page:       resp.Page,
		PageSize:   resp.Limit,
		TotalPages: resp.TotalPages,
	}
	for i, u := range resp.Users {
		page.Users[i] = u.view()
	}
	return page, nil
}

// ListRoles fetches every role, in server order.
func (c *Client) ListRoles(ctx context.Context) ([]domain.Role, error) {
	var resp []domain.Role
	if err := c.do(ctx, http.MethodGet, "/v1/roles", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SetPermission grants or revokes one permission and returns the role as the
// server stored it.
func (c *Client) SetPermission(ctx context.Context, roleID, permission string, enabled bool) (*domain.Role, error) {
	path := fmt.Sprintf("/v1/roles/%s/permissions/%s", url.PathEscape(roleID), url.PathEscape(permission))
	var role domain.Role
	if err := c.do(ctx, http.MethodPut, path, map[string]bool{"enabled": enabled}, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s %s: %w: %v", method, path, domain.ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

type errorWire struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// decodeError turns an error response back into the domain error the server
// reported, so callers can use errors.Is the same way they do in process.
func decodeError(resp *http.Response) error {
	var e errorWire
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &e); err != nil || e.Error == "" {
		e.Error = strings.TrimSpace(string(raw))
	}

	switch resp.StatusCode {
	case http.StatusUnprocessableEntity:
		if len(e.Fields) > 0 {
			ve := make(domain.ValidationErrors, 0, len(e.Fields))
			for field, msg := range e.Fields {
				ve = append(ve, domain.FieldError{Field: field, Message: msg})
			}
			return ve.Sorted()
		}
	case http.StatusNotFound:
		switch e.Error {
		case domain.ErrUserNotFound.Error():
			return domain.ErrUserNotFound
		case domain.ErrRoleNotFound.Error():
			return domain.ErrRoleNotFound
		}
		return domain.ErrNotFound
	case http.StatusConflict:
		if e.Error == domain.ErrRoleInUse.Error() {
			return domain.ErrRoleInUse
		}
		return domain.ErrDuplicateEmail
	case http.StatusForbidden:
		if strings.Contains(e.Error, "Admin role") {
			return domain.ErrProtectedRole
		}
		return domain.ErrForbidden
	case http.StatusUnauthorized:
		return domain.ErrInvalidCredentials
	case http.StatusBadRequest:
		if e.Error == domain.ErrIncorrectPassword.Error() {
			return domain.ErrIncorrectPassword
		}
	case http.StatusServiceUnavailable:
		return domain.ErrTransient
	}
	return fmt.Errorf("admin api: status %d: %s", resp.StatusCode, e.Error)
}

type userWire struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	RoleID     string     `json:"role_id"`
	Role       string     `json:"role"`
	Status     string     `json:"status"`
	Department string     `json:"department"`
	Location   string     `json:"location"`
	CreatedAt  time.Time  `json:"created_at"`
	LastLogin  *time.Time `json:"last_login"`
}

func (u userWire) view() ports.UserView {
	return ports.UserView{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		RoleID:     u.RoleID,
		Role:       u.Role,
		Status:     domain.UserStatus(u.Status),
		Department: u.Department,
		Location:   u.Location,
		CreatedAt:  u.CreatedAt,
		LastLogin:  u.LastLogin,
	}
}
