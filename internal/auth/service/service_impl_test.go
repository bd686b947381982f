package service

import (
	"context"
	"testing"
	"time"

	"github.com/Kon-404/tracilo/internal/auth/domain"
	"github.com/Kon-404/tracilo/internal/auth/repository"
	"github.com/Kon-404/tracilo/internal/clock"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (domain.Service, *clock.FakeClock) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Session{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	return NewService(repository.NewRepository(db), node, clk), clk
}

func TestCreateUser(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    " Alice@Example.com ",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "alice@example.com", user.DisplayName, "display name defaults to email")

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, domain.CreateUserRequest{Email: "alice@example.com", Password: "correct horse"})
		assert.ErrorIs(t, err, domain.ErrUserExists)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, domain.CreateUserRequest{Email: "bob@example.com", Password: "short"})
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc, clk := newAuthService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:       "alice@example.com",
		DisplayName: "Alice",
		Password:    "correct horse",
	})
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	result, err := svc.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "correct horse"})
	require.NoError(t, err)
	require.NotEmpty(t, result.RawToken)

	subject, err := svc.Authenticate(ctx, result.RawToken)
	require.NoError(t, err)
	assert.Equal(t, "Alice", subject.DisplayName)

	t.Run("expired session is rejected and purged", func(t *testing.T) {
		clk.Advance(31 * 24 * time.Hour)
		_, err := svc.Authenticate(ctx, result.RawToken)
		assert.ErrorIs(t, err, domain.ErrSessionExpired)

		// The row was deleted, so a retry is a plain invalid session.
		_, err = svc.Authenticate(ctx, result.RawToken)
		assert.ErrorIs(t, err, domain.ErrInvalidSession)
	})
}

func TestLogout(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{Email: "alice@example.com", Password: "correct horse"})
	require.NoError(t, err)
	result, err := svc.Login(ctx, domain.LoginRequest{Email: "alice@example.com", Password: "correct horse"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, result.RawToken))

	_, err = svc.Authenticate(ctx, result.RawToken)
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
}
