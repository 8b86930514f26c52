package jwt

import (
	"testing"
	"time"

	"github.com/Samamatip/dh-workflow/internal/domain/auth"
	"github.com/Samamatip/dh-workflow/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewJWTService("test-secret", "1h")
	require.NoError(t, err)
	return svc
}

func TestGenerateAccessToken_Claims(t *testing.T) {
	svc := newTestService(t)
	dept := "dept-1"

	token, expiresAt, err := svc.GenerateAccessToken(user.User{ID: "u-1", Email: "a@b.co", Role: user.RoleStaff, DepartmentID: &dept})
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(t.Context())
	require.NoError(t, err)

	p, err := PrincipalFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, auth.Principal{UserID: "u-1", Email: "a@b.co", Role: user.RoleStaff, DepartmentID: "dept-1"}, p)
}

func TestPrincipalFromClaims_Rejects(t *testing.T) {
	_, err := PrincipalFromClaims(map[string]interface{}{"type": "sse", "user_id": "u-1", "role": "staff"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = PrincipalFromClaims(map[string]interface{}{"type": "access", "user_id": "u-1", "role": "owner"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = PrincipalFromClaims(map[string]interface{}{"type": "access", "role": "admin"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestSSEToken(t *testing.T) {
	svc := newTestService(t)

	token, expiresIn, err := svc.GenerateSSEToken("u-1")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	userID, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)

	access, _, err := svc.GenerateAccessToken(user.User{ID: "u-1", Role: user.RoleAdmin})
	require.NoError(t, err)
	_, err = svc.ValidateSSEToken(access)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = svc.ValidateSSEToken("garbage")
	assert.Error(t, err)
}

func TestRevokeAndPrune(t *testing.T) {
	svc := newTestService(t)
	token, _, err := svc.GenerateAccessToken(user.User{ID: "u-1", Role: user.RoleAdmin})
	require.NoError(t, err)

	assert.False(t, svc.IsTokenRevoked(token))
	svc.RevokeToken(token)
	assert.True(t, svc.IsTokenRevoked(token))

	assert.Equal(t, 0, svc.PruneRevoked(time.Now()))
	assert.Equal(t, 1, svc.PruneRevoked(time.Now().Add(2*time.Hour)))
	assert.False(t, svc.IsTokenRevoked(token))
}
