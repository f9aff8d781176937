package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/userhub/identity-service/internal/api/middleware"
	"github.com/userhub/identity-service/internal/core/auth"
	"github.com/userhub/identity-service/internal/core/domain"
	"github.com/userhub/identity-service/internal/core/ports"
)

type stubUserCRUD struct {
	ports.UserService
	listFn   func(ctx context.Context, ac auth.Context) ([]domain.User, error)
	getFn    func(ctx context.Context, ac auth.Context, id string) (*domain.User, error)
	createFn func(ctx context.Context, ac auth.Context, input ports.CreateUserInput) (*domain.User, error)
	updateFn func(ctx context.Context, ac auth.Context, id string, patch ports.UserPatch) (*domain.User, error)
	deleteFn func(ctx context.Context, ac auth.Context, id string) error
}

func (s *stubUserCRUD) List(ctx context.Context, ac auth.Context) ([]domain.User, error) {
	return s.listFn(ctx, ac)
}

func (s *stubUserCRUD) Get(ctx context.Context, ac auth.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, ac, id)
}

func (s *stubUserCRUD) Create(ctx context.Context, ac auth.Context, input ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, ac, input)
}

func (s *stubUserCRUD) Update(ctx context.Context, ac auth.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	return s.updateFn(ctx, ac, id, patch)
}

func (s *stubUserCRUD) Delete(ctx context.Context, ac auth.Context, id string) error {
	return s.deleteFn(ctx, ac, id)
}

func adminContext() auth.Context {
	return auth.WithIdentity(&domain.User{
		ID:       "admin1",
		IsActive: true,
		Role:     &domain.Role{Name: domain.RoleAdmin, IsActive: true},
	})
}

func TestUserHandler_List(t *testing.T) {
	stub := &stubUserCRUD{
		listFn: func(_ context.Context, ac auth.Context) ([]domain.User, error) {
			if !ac.Authenticated() {
				return nil, domain.ErrUnauthenticated
			}
			return []domain.User{{ID: "u1"}, {ID: "u2"}}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/users", "")
	c.Set(middleware.AuthContextKey, adminContext())

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var users []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}

	// No auth context on the request means an anonymous caller.
	c, _ = newTestContext(t, http.MethodGet, "/users", "")
	if err := h.List(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestUserHandler_Get_PassesPathID(t *testing.T) {
	stub := &stubUserCRUD{
		getFn: func(_ context.Context, _ auth.Context, id string) (*domain.User, error) {
			if id != "u42" {
				t.Fatalf("expected id u42, got %q", id)
			}
			return &domain.User{ID: id}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/users/u42", "")
	c.SetParamNames("id")
	c.SetParamValues("u42")
	c.Set(middleware.AuthContextKey, adminContext())

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Create_RequiresRole(t *testing.T) {
	stub := &stubUserCRUD{
		createFn: func(context.Context, auth.Context, ports.CreateUserInput) (*domain.User, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewUserHandler(stub)

	// role_id is mandatory on the admin create endpoint.
	c, _ := newTestContext(t, http.MethodPost, "/users",
		`{"name":"Bob","email":"bob@example.com","password":"secret-pass-1"}`)
	c.Set(middleware.AuthContextKey, adminContext())

	err := h.Create(c)
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestUserHandler_Create_Success(t *testing.T) {
	stub := &stubUserCRUD{
		createFn: func(_ context.Context, _ auth.Context, input ports.CreateUserInput) (*domain.User, error) {
			if input.RoleID != "r1" {
				t.Fatalf("unexpected role id %q", input.RoleID)
			}
			return &domain.User{ID: "u9", Name: input.Name, Email: input.Email}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/users",
		`{"name":"Bob","email":"bob@example.com","password":"secret-pass-1","role_id":"r1"}`)
	c.Set(middleware.AuthContextKey, adminContext())

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestUserHandler_Update_PartialPatch(t *testing.T) {
	stub := &stubUserCRUD{
		updateFn: func(_ context.Context, _ auth.Context, id string, patch ports.UserPatch) (*domain.User, error) {
			if id != "u1" {
				t.Fatalf("expected id u1, got %q", id)
			}
			if patch.Name == nil || *patch.Name != "New Name" {
				t.Fatalf("expected name patch, got %+v", patch)
			}
			if patch.Email != nil || patch.RoleID != nil || patch.IsActive != nil {
				t.Fatalf("absent fields must stay nil: %+v", patch)
			}
			return &domain.User{ID: id, Name: *patch.Name}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodPatch, "/users/u1", `{"name":"New Name"}`)
	c.SetParamNames("id")
	c.SetParamValues("u1")
	c.Set(middleware.AuthContextKey, adminContext())

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	stub := &stubUserCRUD{
		deleteFn: func(_ context.Context, _ auth.Context, id string) error {
			if id == "missing" {
				return domain.ErrUserNotFound
			}
			return nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodDelete, "/users/u1", "")
	c.SetParamNames("id")
	c.SetParamValues("u1")
	c.Set(middleware.AuthContextKey, adminContext())

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	c, _ = newTestContext(t, http.MethodDelete, "/users/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	c.Set(middleware.AuthContextKey, adminContext())
	if err := h.Delete(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
