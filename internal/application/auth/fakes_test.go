package auth_test

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/jhoicas/ims-api/internal/application/auth"
	"github.com/jhoicas/ims-api/internal/domain/entity"
	"github.com/jhoicas/ims-api/internal/domain/repository"
)

type memUsers struct{ items map[string]*entity.User }

func newMemUsers() *memUsers { return &memUsers{items: map[string]*entity.User{}} }

func (m *memUsers) clone(u *entity.User) *entity.User {
	cp := *u
	cp.Roles = append([]string(nil), u.Roles...)
	return &cp
}
func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.items[u.ID] = m.clone(u)
	return nil
}
func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := m.items[id]; ok {
		return m.clone(u), nil
	}
	return nil, nil
}
func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.items {
		if u.Email == email {
			return m.clone(u), nil
		}
	}
	return nil, nil
}
func (m *memUsers) List(_ context.Context, f repository.ListFilter) ([]*entity.User, int, error) {
	var out []*entity.User
	for _, u := range m.items {
		if f.Search == "" || strings.Contains(u.Email, f.Search) {
			out = append(out, m.clone(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, len(out), nil
}
func (m *memUsers) Count(context.Context) (int, error) { return len(m.items), nil }
func (m *memUsers) UpdatePassword(_ context.Context, id, hash, stamp string) error {
	m.items[id].PasswordHash = hash
	m.items[id].SecurityStamp = stamp
	return nil
}
func (m *memUsers) SetActive(_ context.Context, id string, active bool, stamp string) error {
	m.items[id].IsActive = active
	m.items[id].SecurityStamp = stamp
	return nil
}
func (m *memUsers) AddRole(_ context.Context, id, role, stamp string) error {
	m.items[id].Roles = append(m.items[id].Roles, role)
	m.items[id].SecurityStamp = stamp
	return nil
}
func (m *memUsers) RemoveRole(_ context.Context, id, role, stamp string) error {
	var keep []string
	for _, r := range m.items[id].Roles {
		if r != role {
			keep = append(keep, r)
		}
	}
	m.items[id].Roles = keep
	m.items[id].SecurityStamp = stamp
	return nil
}

type memRoles struct {
	items map[string]*entity.Role
	users *memUsers
}

func newMemRoles(users *memUsers, names ...string) *memRoles {
	m := &memRoles{items: map[string]*entity.Role{}, users: users}
	for _, n := range names {
		m.items[n] = &entity.Role{ID: "role-" + n, Name: n}
	}
	return m
}
func (m *memRoles) Create(_ context.Context, r *entity.Role) error {
	cp := *r
	m.items[r.Name] = &cp
	return nil
}
func (m *memRoles) GetByName(_ context.Context, name string) (*entity.Role, error) {
	if r, ok := m.items[name]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}
func (m *memRoles) List(context.Context) ([]*entity.Role, error) {
	var out []*entity.Role
	for _, r := range m.items {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
func (m *memRoles) Delete(_ context.Context, name string) error {
	delete(m.items, name)
	return nil
}
func (m *memRoles) CountAssignments(_ context.Context, name string) (int, error) {
	n := 0
	for _, u := range m.users.items {
		if u.HasRole(name) {
			n++
		}
	}
	return n, nil
}

// memSessions caché en memoria que cuenta aciertos.
type memSessions struct {
	items map[string]auth.SessionState
	hits  int
}

func newMemSessions() *memSessions { return &memSessions{items: map[string]auth.SessionState{}} }

func (m *memSessions) Get(_ context.Context, id string) (*auth.SessionState, error) {
	if s, ok := m.items[id]; ok {
		m.hits++
		return &s, nil
	}
	return nil, nil
}
func (m *memSessions) Set(_ context.Context, id string, s auth.SessionState) error {
	m.items[id] = s
	return nil
}
func (m *memSessions) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

// failingDeleteSessions caché cuyo Delete falla (Redis caído a mitad de la operación).
type failingDeleteSessions struct {
	*memSessions
	deletes int
}

func (f *failingDeleteSessions) Delete(context.Context, string) error {
	f.deletes++
	return errors.New("redis: connection refused")
}

type memSetupTx struct {
	users *memUsers
	roles *memRoles
}

func (m memSetupTx) RunSetup(_ context.Context, fn func(repository.UserRepository, repository.RoleRepository) error) error {
	return fn(m.users, m.roles)
}
