package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/khanhng/coinfolio/internal/apperrors"
	"github.com/khanhng/coinfolio/internal/models"
)

func TestSignupAndLoginRoundTrip(t *testing.T) {
	users := newMemoryUserRepo()
	svc := NewAuthService(users, "test-secret", nil)
	ctx := context.Background()

	user, token, err := svc.Signup(ctx, "Alice", "Alice@Example.com ", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "alice@example.com", user.Email)
	require.NotEqual(t, "hunter22", user.PasswordHash)

	resolved, err := svc.ResolveSession(ctx, token)
	require.NoError(t, err)
	require.Equal(t, user.ID, resolved.ID)

	_, loginToken, err := svc.Login(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, loginToken)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	users := newMemoryUserRepo()
	svc := NewAuthService(users, "test-secret", nil)
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, "Alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	_, _, err = svc.Signup(ctx, "Other Alice", "alice@example.com", "password")
	require.True(t, apperrors.IsValidation(err))
}

func TestSignupValidatesInput(t *testing.T) {
	svc := NewAuthService(newMemoryUserRepo(), "test-secret", nil)
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, "", "alice@example.com", "pw")
	require.True(t, apperrors.IsValidation(err))

	_, _, err = svc.Signup(ctx, "Alice", "", "pw")
	require.True(t, apperrors.IsValidation(err))

	_, _, err = svc.Signup(ctx, "Alice", "alice@example.com", "")
	require.True(t, apperrors.IsValidation(err))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	users := newMemoryUserRepo()
	svc := NewAuthService(users, "test-secret", nil)
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, "Alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice@example.com", "wrong")
	require.True(t, apperrors.IsValidation(err))

	_, _, err = svc.Login(ctx, "nobody@example.com", "hunter22")
	require.True(t, apperrors.IsValidation(err))
}

func TestResolveSessionRejectsBadTokens(t *testing.T) {
	users := newMemoryUserRepo()
	svc := NewAuthService(users, "test-secret", nil)
	ctx := context.Background()

	_, err := svc.ResolveSession(ctx, "")
	require.True(t, apperrors.IsAuth(err))

	_, err = svc.ResolveSession(ctx, "not-a-token")
	require.True(t, apperrors.IsAuth(err))

	// Token signed with a different secret.
	other := NewAuthService(users, "other-secret", nil)
	_, forged, err := other.Signup(ctx, "Eve", "eve@example.com", "pw123456")
	require.NoError(t, err)
	_, err = svc.ResolveSession(ctx, forged)
	require.True(t, apperrors.IsAuth(err))
}

func TestResolveSessionRejectsExpiredToken(t *testing.T) {
	users := newMemoryUserRepo()
	user := &models.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, users.Create(context.Background(), user))

	claims := &sessionClaims{
		Name:  user.Name,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	svc := NewAuthService(users, "test-secret", nil)
	_, err = svc.ResolveSession(context.Background(), expired)
	require.True(t, apperrors.IsAuth(err))
}

func TestResolveSessionUserGone(t *testing.T) {
	users := newMemoryUserRepo()
	svc := NewAuthService(users, "test-secret", nil)
	ctx := context.Background()

	user, token, err := svc.Signup(ctx, "Alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	users.mu.Lock()
	delete(users.users, user.ID)
	users.mu.Unlock()

	_, err = svc.ResolveSession(ctx, token)
	require.True(t, apperrors.IsAuth(err))
}
