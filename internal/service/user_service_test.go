package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pm-ajay/adarsh-gram-api/internal/models"
	appErrors "github.com/pm-ajay/adarsh-gram-api/pkg/errors"
)

type mockUserRepo struct {
	users     map[string]*models.User
	auditLogs []*models.AuditLog
}

func newMockUserRepo(users ...*models.User) *mockUserRepo {
	repo := &mockUserRepo{users: map[string]*models.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	var out []models.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return sql.ErrNoRows
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func TestUserServiceCreate(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	user, err := svc.Create(context.Background(), CreateUserRequest{
		Name:     "Sunita Devi",
		Email:    "Sunita.Devi@village.gov.in",
		Role:     models.RoleVillageAdmin,
		Level:    "Rampur Village",
		Active:   true,
		Password: "strong-password",
	}, "admin-1", models.LoginRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "sunita.devi@village.gov.in", user.Email)
	assert.NotEqual(t, "strong-password", user.PasswordHash)
	require.Len(t, repo.auditLogs, 1)
}

func TestUserServiceCreateDuplicateEmail(t *testing.T) {
	existing := &models.User{ID: "u1", Email: "sunita.devi@village.gov.in", Role: models.RoleVillageAdmin}
	svc := NewUserService(newMockUserRepo(existing), validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Name:     "Sunita Devi",
		Email:    "sunita.devi@village.gov.in",
		Role:     models.RoleVillageAdmin,
		Level:    "Rampur Village",
		Password: "strong-password",
	}, "admin-1", models.LoginRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestUserServiceCreateRejectsUnknownRole(t *testing.T) {
	svc := NewUserService(newMockUserRepo(), validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Name:     "Someone",
		Email:    "someone@example.com",
		Role:     models.UserRole("superuser"),
		Level:    "National",
		Password: "strong-password",
	}, "admin-1", models.LoginRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUserServiceUpdate(t *testing.T) {
	existing := &models.User{ID: "u1", Name: "Amit Singh", Email: "amit.singh@district.gov.in", Role: models.RoleDistrictAdmin, Level: "Lucknow District", Active: true}
	repo := newMockUserRepo(existing)
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	inactive := false
	updated, err := svc.Update(context.Background(), "u1", UpdateUserRequest{
		Name:   "Amit Kumar Singh",
		Level:  "Lucknow District",
		Active: &inactive,
	}, "admin-1", models.LoginRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Amit Kumar Singh", updated.Name)
	assert.False(t, updated.Active)
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionUserUpdate, repo.auditLogs[0].Action)
}

func TestUserServiceDeleteSelfForbidden(t *testing.T) {
	existing := &models.User{ID: "u1", Email: "a@b.c"}
	svc := NewUserService(newMockUserRepo(existing), validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), "u1", "u1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.Delete(context.Background(), "u1", "admin-1"))
	err = svc.Delete(context.Background(), "u1", "admin-1")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
