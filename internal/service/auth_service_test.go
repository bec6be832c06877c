package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aegisworks/aegis-api/internal/models"
	appErrors "github.com/aegisworks/aegis-api/pkg/errors"
)

type mockAuthRepo struct {
	users     map[string]*models.User
	createErr error
	findErr   error
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.users == nil {
		m.users = make(map[string]*models.User)
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	user, ok := m.users[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m *mockAuthRepo) FindByEmailAndRole(ctx context.Context, email string, role models.UserRole) (*models.User, error) {
	user, err := m.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.Role != role {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func testAuthConfig() AuthConfig {
	return AuthConfig{TokenSecret: "test-secret", TokenExpiry: time.Hour, Issuer: "aegis-test"}
}

func seededAuthRepo(t *testing.T) *mockAuthRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
	require.NoError(t, err)
	return &mockAuthRepo{users: map[string]*models.User{
		"pat@example.com": {
			ID:           "prog-1",
			Name:         "Pat Coder",
			Email:        "pat@example.com",
			PasswordHash: string(hash),
			Role:         models.RoleProgrammer,
		},
	}}
}

func TestAuthServiceRegister(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	info, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Dana Guide",
		Email:    "dana@example.com",
		Password: "hunter22",
		Role:     models.RoleGuide,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, models.RoleGuide, info.Role)

	stored := repo.users["dana@example.com"]
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter22")))
}

func TestAuthServiceRegisterDuplicateEmail(t *testing.T) {
	repo := seededAuthRepo(t)
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Pat Again",
		Email:    "pat@example.com",
		Password: "another",
		Role:     models.RoleProgrammer,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
}

func TestAuthServiceRegisterUnknownRole(t *testing.T) {
	svc := NewAuthService(&mockAuthRepo{}, nil, nil, testAuthConfig())

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "X",
		Email:    "x@example.com",
		Password: "password",
		Role:     "admin",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestAuthServiceLoginAndValidate(t *testing.T) {
	repo := seededAuthRepo(t)
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "pat@example.com",
		Password: "s3cret!",
		Role:     models.RoleProgrammer,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "prog-1", resp.User.ID)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "prog-1", claims.UserID)
	assert.Equal(t, models.RoleProgrammer, claims.Role)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := seededAuthRepo(t)
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "pat@example.com",
		Password: "wrong",
		Role:     models.RoleProgrammer,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestAuthServiceLoginWrongRole(t *testing.T) {
	repo := seededAuthRepo(t)
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	// Same credentials under the wrong role tab must not authenticate.
	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "pat@example.com",
		Password: "s3cret!",
		Role:     models.RoleGuide,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestAuthServiceValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(&mockAuthRepo{}, nil, nil, testAuthConfig())

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}
