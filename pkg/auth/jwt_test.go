package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/kashvi-crm/pkg/auth"
)

func TestGenerateAndValidate(t *testing.T) {
	tok, err := auth.GenerateToken("ops@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims.Subject)
	assert.Equal(t, auth.Issuer, claims.Issuer)
}

func TestExpiredTokenRejected(t *testing.T) {
	tok, err := auth.GenerateToken("ops", -time.Minute)
	require.NoError(t, err)

	_, err = auth.ValidateToken(tok)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestForeignSignatureRejected(t *testing.T) {
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "mallory",
		Issuer:    auth.Issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("not-the-secret"))
	require.NoError(t, err)

	_, err = auth.ValidateToken(forged)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestEmptySubject(t *testing.T) {
	_, err := auth.GenerateToken("", time.Hour)
	assert.Error(t, err)
}

func TestSubjectContext(t *testing.T) {
	ctx := auth.WithSubject(context.Background(), "ops")
	assert.Equal(t, "ops", auth.SubjectFromCtx(ctx))
	assert.Empty(t, auth.SubjectFromCtx(context.Background()))
}
