package service

import (
	"context"
	"fmt"
	"time"

	"github.com/userhub/identity-service/internal/core/auth"
	"github.com/userhub/identity-service/internal/core/domain"
	"github.com/userhub/identity-service/internal/core/ports"
	"github.com/userhub/identity-service/internal/pkg/password"
)

func testHasher() password.Hasher {
	return password.NewHasher(password.MinCost)
}

// In-memory repositories mirroring the store contracts, including uniqueness
// enforcement and role resolution on lookups.

type memRoleRepo struct {
	seq   int
	roles map[string]*domain.Role
}

func newMemRoleRepo() *memRoleRepo {
	return &memRoleRepo{roles: make(map[string]*domain.Role)}
}

func cloneRole(r *domain.Role) *domain.Role {
	if r == nil {
		return nil
	}
	clone := *r
	if r.Permissions != nil {
		clone.Permissions = append([]string{}, r.Permissions...)
	}
	return &clone
}

func (r *memRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	canonical := domain.CanonicalRoleName(name)
	for _, role := range r.roles {
		if role.Name == canonical {
			return cloneRole(role), nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (r *memRoleRepo) FindByID(_ context.Context, id string) (*domain.Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	return cloneRole(role), nil
}

func (r *memRoleRepo) List(_ context.Context) ([]domain.Role, error) {
	out := []domain.Role{}
	for _, role := range r.roles {
		out = append(out, *cloneRole(role))
	}
	return out, nil
}

func (r *memRoleRepo) ListActive(_ context.Context) ([]domain.Role, error) {
	out := []domain.Role{}
	for _, role := range r.roles {
		if role.IsActive {
			out = append(out, *cloneRole(role))
		}
	}
	return out, nil
}

func (r *memRoleRepo) Insert(_ context.Context, role *domain.Role) (*domain.Role, error) {
	for _, existing := range r.roles {
		if existing.Name == role.Name {
			return nil, domain.ErrRoleExists
		}
	}
	r.seq++
	clone := cloneRole(role)
	clone.ID = fmt.Sprintf("role-%d", r.seq)
	r.roles[clone.ID] = clone
	return cloneRole(clone), nil
}

func (r *memRoleRepo) Update(_ context.Context, role *domain.Role) (*domain.Role, error) {
	if _, ok := r.roles[role.ID]; !ok {
		return nil, domain.ErrRoleNotFound
	}
	r.roles[role.ID] = cloneRole(role)
	return cloneRole(role), nil
}

func (r *memRoleRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.roles[id]; !ok {
		return domain.ErrRoleNotFound
	}
	delete(r.roles, id)
	return nil
}

type memUserRepo struct {
	seq   int
	users map[string]*domain.User
	roles *memRoleRepo
}

func newMemUserRepo(roles *memRoleRepo) *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User), roles: roles}
}

func (r *memUserRepo) resolve(u *domain.User) *domain.User {
	clone := *u
	if role, err := r.roles.FindByID(context.Background(), u.RoleID); err == nil {
		clone.Role = role
	}
	return &clone
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	for _, u := range r.users {
		if u.Email == email {
			return r.resolve(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.resolve(u), nil
}

func (r *memUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := []domain.User{}
	for _, u := range r.users {
		out = append(out, *r.resolve(u))
	}
	return out, nil
}

func (r *memUserRepo) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.seq++
	clone := *user
	clone.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[clone.ID] = &clone
	return r.resolve(&clone), nil
}

func (r *memUserRepo) UpdateFields(_ context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if patch.Email != nil {
		for otherID, existing := range r.users {
			if otherID != id && existing.Email == *patch.Email {
				return nil, domain.ErrEmailTaken
			}
		}
		u.Email = *patch.Email
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.RoleID != nil {
		u.RoleID = *patch.RoleID
	}
	if patch.IsActive != nil {
		u.IsActive = *patch.IsActive
	}
	u.UpdatedAt = time.Now().UTC()
	return r.resolve(u), nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) CountByRole(_ context.Context, roleID string) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.RoleID == roleID {
			n++
		}
	}
	return n, nil
}

// seedSystemRoles inserts ADMIN and USER and returns their ids.
func seedSystemRoles(roles *memRoleRepo) (adminID, userID string) {
	admin, _ := roles.Insert(context.Background(), &domain.Role{
		Name:        domain.RoleAdmin,
		DisplayName: "Administrator",
		Permissions: []string{domain.PermManageRoles},
		IsActive:    true,
		Priority:    100,
	})
	user, _ := roles.Insert(context.Background(), &domain.Role{
		Name:        domain.RoleUser,
		DisplayName: "User",
		Permissions: []string{domain.PermReadUser},
		IsActive:    true,
		Priority:    10,
	})
	return admin.ID, user.ID
}

// asContext resolves the user's role and wraps it in an authenticated context.
func asContext(users *memUserRepo, id string) auth.Context {
	u, err := users.FindByID(context.Background(), id)
	if err != nil {
		return auth.Anonymous()
	}
	return auth.WithIdentity(u)
}
