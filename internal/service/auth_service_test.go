package service_test

import (
	"context"
	"testing"

	repoPostgres "github.com/nkumar/cricket-auction/internal/repository/postgres"
	"github.com/nkumar/cricket-auction/internal/service"
	"github.com/nkumar/cricket-auction/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *service.AuthService {
	t.Helper()
	testDB := testutil.NewTestDB(t)
	repos := repoPostgres.NewRepositories(testDB.DB)
	return service.NewAuthService(repos.User, repos.Session, testutil.TestConfig())
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, service.RegisterInput{
		DisplayName: "rohit",
		Password:    "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.NotEqual(t, "correct-horse", result.User.PasswordHash)

	// A second registration with the same name is rejected.
	_, err = svc.Register(ctx, service.RegisterInput{
		DisplayName: "rohit",
		Password:    "other",
	})
	assert.ErrorIs(t, err, service.ErrDisplayNameExists)

	login, err := svc.Login(ctx, service.LoginInput{
		DisplayName: "rohit",
		Password:    "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, login.User.ID)

	_, err = svc.Login(ctx, service.LoginInput{
		DisplayName: "rohit",
		Password:    "wrong",
	})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(ctx, service.LoginInput{
		DisplayName: "nobody",
		Password:    "whatever",
	})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuthService_ValidateToken(t *testing.T) {
	svc := newAuthService(t)

	result, err := svc.Register(context.Background(), service.RegisterInput{
		DisplayName: "virat",
		Password:    "password123",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID.String(), (*claims)["sub"])
	assert.Equal(t, "virat", (*claims)["name"])

	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)

	// A tampered signature is rejected even when the token is well formed.
	tampered := result.AccessToken[:len(result.AccessToken)-2] + "xx"
	_, err = svc.ValidateToken(tampered)
	assert.Error(t, err)
}
