package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libreria-backend/internal/domains/user/model"
	"libreria-backend/pkg/jwt"
)

type fakeRepo struct {
	users  map[string]*model.User
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]*model.User), nextID: 1}
}

func (r *fakeRepo) Create(ctx context.Context, u *model.User) (*model.User, error) {
	if _, ok := r.users[u.Username]; ok {
		return nil, model.ErrUserExists
	}
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return nil, model.ErrUserExists
		}
	}

	stored := *u
	stored.ID = r.nextID
	r.nextID++
	r.users[stored.Username] = &stored

	out := stored
	return &out, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			out := *u
			return &out, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (r *fakeRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func newTestService() (Service, *jwt.Manager) {
	manager := jwt.NewManager("test-secret", 1)
	return NewUserService(newFakeRepo(), manager), manager
}

func TestRegisterAndLogin(t *testing.T) {
	svc, manager := newTestService()
	ctx := context.Background()

	auth, err := svc.Register(ctx, &model.RegisterRequest{
		Username: "maria",
		Email:    "Maria@Example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, auth.User.Role)
	assert.Equal(t, "maria@example.com", auth.User.Email)
	assert.NotEqual(t, "secret123", auth.User.PasswordHash)

	claims, err := manager.ValidateToken(auth.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, claims.UserID)
	assert.Equal(t, model.RoleUser, claims.Role)

	login, err := svc.Login(ctx, &model.LoginRequest{Username: "maria", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, login.User.ID)
	assert.NotEmpty(t, login.Token)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "ab",
		Email:    "not-an-email",
		Password: "123",
	})
	assert.Error(t, err)
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	req := &model.RegisterRequest{Username: "maria", Email: "maria@example.com", Password: "secret123"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, &model.RegisterRequest{
		Username: "maria",
		Email:    "other@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, model.ErrUserExists)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &model.RegisterRequest{
		Username: "maria",
		Email:    "maria@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &model.LoginRequest{Username: "maria", Password: "wrong"})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLoginUnknownUserLooksLikeWrongPassword(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Login(context.Background(), &model.LoginRequest{Username: "ghost", Password: "whatever"})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}
