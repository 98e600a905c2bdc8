package services

import (
	"context"
	"testing"

	"spsc-alumni/internal/config"
	"spsc-alumni/internal/core/domain"
	"spsc-alumni/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture() (*fakeUserRepo, *fakeRefreshTokenRepo, *AuthService) {
	userRepo := newFakeUserRepo()
	tokenRepo := newFakeRefreshTokenRepo()
	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:           "access-secret",
			RefreshSecret:    "refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}
	return userRepo, tokenRepo, NewAuthService(userRepo, tokenRepo, cfg)
}

func bootstrapInput() *BootstrapInput {
	return &BootstrapInput{
		Username: "admin",
		Email:    "admin@example.com",
		Password: "S3cretPass!",
		FullName: "ผู้ดูแลระบบ",
	}
}

func TestCreateFirstAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates admin and issues tokens", func(t *testing.T) {
		_, tokenRepo, svc := newAuthFixture()

		has, err := svc.HasAdmin(ctx)
		require.NoError(t, err)
		assert.False(t, has)

		resp, err := svc.CreateFirstAdmin(ctx, bootstrapInput())
		require.NoError(t, err)

		assert.Equal(t, string(domain.RoleAdmin), resp.User.Role)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)

		// Refresh token is stored hashed, never in the clear
		stored, err := tokenRepo.GetByTokenHash(ctx, password.HashToken(resp.RefreshToken))
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, stored.UserID)

		has, err = svc.HasAdmin(ctx)
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("sealed once an admin exists", func(t *testing.T) {
		_, _, svc := newAuthFixture()

		_, err := svc.CreateFirstAdmin(ctx, bootstrapInput())
		require.NoError(t, err)

		second := bootstrapInput()
		second.Username = "admin2"
		second.Email = "admin2@example.com"
		_, err = svc.CreateFirstAdmin(ctx, second)
		assert.ErrorIs(t, err, domain.ErrAdminExists)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		_, _, svc := newAuthFixture()
		_, err := svc.CreateFirstAdmin(ctx, bootstrapInput())
		require.NoError(t, err)

		resp, err := svc.Login(ctx, &LoginInput{Username: "admin", Password: "S3cretPass!"})
		require.NoError(t, err)
		assert.Equal(t, "admin", resp.User.Username)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, svc := newAuthFixture()
		_, err := svc.CreateFirstAdmin(ctx, bootstrapInput())
		require.NoError(t, err)

		_, err = svc.Login(ctx, &LoginInput{Username: "admin", Password: "wrong"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, _, svc := newAuthFixture()
		_, err := svc.Login(ctx, &LoginInput{Username: "ghost", Password: "whatever"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("deactivated account", func(t *testing.T) {
		userRepo, _, svc := newAuthFixture()
		resp, err := svc.CreateFirstAdmin(ctx, bootstrapInput())
		require.NoError(t, err)

		user, err := userRepo.GetByID(ctx, resp.User.ID)
		require.NoError(t, err)
		user.IsActive = false

		_, err = svc.Login(ctx, &LoginInput{Username: "admin", Password: "S3cretPass!"})
		assert.ErrorIs(t, err, domain.ErrUserInactive)
	})
}

func TestRefreshTokenRotation(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newAuthFixture()

	first, err := svc.CreateFirstAdmin(ctx, bootstrapInput())
	require.NoError(t, err)

	rotated, err := svc.RefreshToken(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, rotated.RefreshToken)

	// The presented token was revoked during rotation
	_, err = svc.RefreshToken(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)

	// The new token still works
	_, err = svc.RefreshToken(ctx, rotated.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshTokenRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newAuthFixture()

	_, err := svc.RefreshToken(ctx, "not.a.token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	_, tokenRepo, svc := newAuthFixture()

	resp, err := svc.CreateFirstAdmin(ctx, bootstrapInput())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.RefreshToken))

	stored, err := tokenRepo.GetByTokenHash(ctx, password.HashToken(resp.RefreshToken))
	require.NoError(t, err)
	assert.True(t, stored.IsRevoked())

	_, err = svc.RefreshToken(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)
}

func TestLogoutAll(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newAuthFixture()

	resp, err := svc.CreateFirstAdmin(ctx, bootstrapInput())
	require.NoError(t, err)
	login, err := svc.Login(ctx, &LoginInput{Username: "admin", Password: "S3cretPass!"})
	require.NoError(t, err)

	require.NoError(t, svc.LogoutAll(ctx, resp.User.ID))

	_, err = svc.RefreshToken(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)
	_, err = svc.RefreshToken(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)
}
