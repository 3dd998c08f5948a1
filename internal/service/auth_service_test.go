package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pressroom/internal/model"
	"pressroom/internal/util"
)

type fakeAdminStore struct {
	users   map[string]*model.AdminUser
	creates int
}

func newFakeAdminStore() *fakeAdminStore {
	return &fakeAdminStore{users: make(map[string]*model.AdminUser)}
}

func (f *fakeAdminStore) FindByUsername(_ context.Context, username string) (*model.AdminUser, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeAdminStore) CreateAdmin(_ context.Context, u *model.AdminUser) error {
	f.creates++
	u.ID = f.creates
	f.users[u.Username] = u
	return nil
}

func TestLogin(t *testing.T) {
	store := newFakeAdminStore()
	hash, err := util.HashPassword("s3cret")
	require.NoError(t, err)
	store.users["editor"] = &model.AdminUser{ID: 1, Username: "editor", PasswordHash: hash, Role: "admin"}

	s := NewAuthService(store, "test-secret")
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		token, err := s.Login(ctx, "editor", "s3cret")
		require.NoError(t, err)

		userID, role, err := util.ParseJWT(token, "test-secret")
		require.NoError(t, err)
		assert.Equal(t, 1, userID)
		assert.Equal(t, "admin", role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := s.Login(ctx, "editor", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := s.Login(ctx, "stranger", "s3cret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestEnsureAdmin(t *testing.T) {
	store := newFakeAdminStore()
	s := NewAuthService(store, "test-secret")
	ctx := context.Background()

	require.NoError(t, s.EnsureAdmin(ctx, "editor", "s3cret"))
	require.NoError(t, s.EnsureAdmin(ctx, "editor", "s3cret"))
	assert.Equal(t, 1, store.creates)

	// no deploy-time credentials means nothing to seed
	require.NoError(t, s.EnsureAdmin(ctx, "", ""))
	assert.Equal(t, 1, store.creates)
}
