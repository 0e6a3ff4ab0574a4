package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recouvro/recouvro/pkg/apperrors"
)

func TestJWTIssuer_RoundTrip(t *testing.T) {
	issuer := NewJWTIssuer([]byte("test-secret"), time.Hour)

	token, err := issuer.Issue("user-123", RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", identity.UserID)
	assert.Equal(t, RoleAdmin, identity.Role)
}

func TestJWTIssuer_PublicRolePreserved(t *testing.T) {
	issuer := NewJWTIssuer([]byte("test-secret"), time.Hour)

	token, err := issuer.Issue("user-456", RolePublic)
	require.NoError(t, err)

	identity, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, RolePublic, identity.Role)
}

func TestJWTIssuer_Expired(t *testing.T) {
	issuer := NewJWTIssuer([]byte("test-secret"), time.Hour)

	issuedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return issuedAt }

	token, err := issuer.Issue("user-123", RolePublic)
	require.NoError(t, err)

	// Still valid just before the expiry instant
	issuer.now = func() time.Time { return issuedAt.Add(time.Hour - time.Second) }
	_, err = issuer.Verify(token)
	require.NoError(t, err)

	// Invalid after it
	issuer.now = func() time.Time { return issuedAt.Add(time.Hour + time.Second) }
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWTIssuer_WrongSecret(t *testing.T) {
	issuer := NewJWTIssuer([]byte("secret-a"), time.Hour)
	other := NewJWTIssuer([]byte("secret-b"), time.Hour)

	token, err := issuer.Issue("user-123", RoleAdmin)
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWTIssuer_Malformed(t *testing.T) {
	issuer := NewJWTIssuer([]byte("test-secret"), time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := issuer.Verify(token)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidToken), "token %q should be invalid", token)
	}
}

func TestJWTIssuer_MissingClaims(t *testing.T) {
	issuer := NewJWTIssuer([]byte("test-secret"), time.Hour)

	// A token with an empty user id is rejected even though the signature
	// is valid.
	token, err := issuer.Issue("", RoleAdmin)
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
