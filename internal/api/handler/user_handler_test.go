package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
	"github.com/99minutos/admin-console/internal/core/validate"
)

type stubUserService struct {
	listFn   func(ctx context.Context, q ports.UserQuery) (*ports.UserPage, error)
	getFn    func(ctx context.Context, id string) (*ports.UserView, error)
	createFn func(ctx context.Context, in ports.UserInput, key string) (*ports.UserView, bool, error)
	updateFn func(ctx context.Context, id string, in ports.UserUpdate) (*ports.UserView, error)
	deleteFn func(ctx context.Context, id string) (ports.DeleteResult, error)
}

func (s *stubUserService) ListUsers(ctx context.Context, q ports.UserQuery) (*ports.UserPage, error) {
	return s.listFn(ctx, q)
}

func (s *stubUserService) GetUser(ctx context.Context, id string) (*ports.UserView, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) CreateUser(ctx context.Context, in ports.UserInput, key string) (*ports.UserView, bool, error) {
	return s.createFn(ctx, in, key)
}

func (s *stubUserService) UpdateUser(ctx context.Context, id string, in ports.UserUpdate) (*ports.UserView, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubUserService) DeleteUser(ctx context.Context, id string) (ports.DeleteResult, error) {
	return s.deleteFn(ctx, id)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validate.New()
	return e
}

func sampleUser() *ports.UserView {
	return &ports.UserView{
		ID:        "usr_11",
		Name:      "Kim Lee",
		Email:     "kim@example.com",
		RoleID:    "role_staff",
		Role:      "Staff",
		Status:    domain.StatusActive,
		CreatedAt: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

// ----- List -----

func TestUserHandler_List_MapsQuery(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		listFn: func(ctx context.Context, q ports.UserQuery) (*ports.UserPage, error) {
			if q.Page != 2 || q.PageSize != 5 || q.Search != "smith" {
				t.Fatalf("unexpected paging/search: %+v", q)
			}
			if q.Filters["role"] != "Admin" || q.Filters["status"] != "all" {
				t.Fatalf("unexpected filters: %+v", q.Filters)
			}
			if _, ok := q.Filters["department"]; ok {
				t.Fatalf("empty filter should be omitted: %+v", q.Filters)
			}
			return &ports.UserPage{
				Users:      []ports.UserView{*sampleUser()},
				Total:      6,
				Page:       2,
				PageSize:   5,
				TotalPages: 2,
			}, nil
		},
	}
	handler := NewUserHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/users?page=2&limit=5&q=smith&role=Admin&status=all", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp listUsersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Total != 6 || resp.TotalPages != 2 || len(resp.Users) != 1 || resp.Users[0].Role != "Staff" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestUserHandler_List_BindsEveryFilterField(t *testing.T) {
	e := newTestEcho()
	var got map[string]string
	stub := &stubUserService{
		listFn: func(ctx context.Context, q ports.UserQuery) (*ports.UserPage, error) {
			got = q.Filters
			return &ports.UserPage{Page: 1, PageSize: 5}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/users?id=usr_2&name=Bob&email=bob@example.com&role_id=role_manager&roleId=role_staff&shoe_size=42&location=", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if err := NewUserHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	want := map[string]string{
		"id":        "usr_2",
		"name":      "Bob",
		"email":     "bob@example.com",
		"role_id":   "role_manager",
		"roleId":    "role_staff",
		"shoe_size": "42",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("%s: expected %q, got %q", k, v, got[k])
		}
	}
}

func TestUserHandler_List_RejectsOversizedLimit(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		listFn: func(ctx context.Context, q ports.UserQuery) (*ports.UserPage, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewUserHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/users?limit=500", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.List(c)
	ve, ok := domain.AsValidation(err)
	if !ok || !ve.Has("limit") {
		t.Fatalf("expected limit validation error, got %v", err)
	}
}

func TestUserHandler_List_Transient(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		listFn: func(ctx context.Context, q ports.UserQuery) (*ports.UserPage, error) {
			return nil, domain.ErrTransient
		},
	}
	handler := NewUserHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.List(c); !errors.Is(err, domain.ErrTransient) {
		t.Fatalf("expected ErrTransient, got %v", err)
	}
}

// ----- Create -----

func TestUserHandler_Create_Created(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		createFn: func(ctx context.Context, in ports.UserInput, key string) (*ports.UserView, bool, error) {
			if in.Name != "Kim Lee" || in.Role != "Staff" || in.ConfirmPassword != "password123" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if key != "" {
				t.Fatalf("unexpected idempotency key %q", key)
			}
			return sampleUser(), false, nil
		},
	}
	handler := NewUserHandler(stub)

	body := `{"name":"Kim Lee","email":"kim@example.com","role":"Staff","status":"Active","password":"password123","confirmPassword":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/users", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if rec.Header().Get("Idempotent-Replayed") != "" {
		t.Fatalf("fresh create must not be flagged as replayed")
	}
}

func TestUserHandler_Create_Replayed(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		createFn: func(ctx context.Context, in ports.UserInput, key string) (*ports.UserView, bool, error) {
			if key != "key-1" {
				t.Fatalf("expected idempotency key, got %q", key)
			}
			return sampleUser(), true, nil
		},
	}
	handler := NewUserHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/v1/users", strings.NewReader(`{"name":"Kim Lee"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Idempotency-Key", "key-1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("expected Idempotent-Replayed header")
	}
}

func TestUserHandler_Create_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		createFn: func(ctx context.Context, in ports.UserInput, key string) (*ports.UserView, bool, error) {
			t.Fatalf("should not be called")
			return nil, false, nil
		},
	}
	handler := NewUserHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/v1/users", strings.NewReader("not-json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = handler.Create(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

// ----- Update / Delete -----

func TestUserHandler_Update_PassesOnlyProvidedFields(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		updateFn: func(ctx context.Context, id string, in ports.UserUpdate) (*ports.UserView, error) {
			if id != "usr_3" {
				t.Fatalf("unexpected id %q", id)
			}
			if in.Status == nil || *in.Status != "Inactive" {
				t.Fatalf("expected status to be set: %+v", in)
			}
			if in.Name != nil || in.Email != nil || in.Role != nil {
				t.Fatalf("omitted fields must stay nil: %+v", in)
			}
			return sampleUser(), nil
		},
	}
	handler := NewUserHandler(stub)

	req := httptest.NewRequest(http.MethodPatch, "/v1/users/usr_3", strings.NewReader(`{"status":"Inactive"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("usr_3")

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Delete_Missing(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		deleteFn: func(ctx context.Context, id string) (ports.DeleteResult, error) {
			return ports.DeleteResult{ID: id, Deleted: false}, nil
		},
	}
	handler := NewUserHandler(stub)

	req := httptest.NewRequest(http.MethodDelete, "/v1/users/usr_404", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("usr_404")

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp deleteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "usr_404" || resp.Deleted {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
