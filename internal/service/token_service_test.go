package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-key-for-unit-tests"

func TestJWTTokenService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTTokenService(testJWTSecret, 24*time.Hour, "growfi")

	tokenStr, expiresAt, err := svc.Generate(42)
	require.NoError(t, err)
	assert.NotEmpty(t, tokenStr)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.Validate(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.NotEmpty(t, claims.TokenID)
	assert.Equal(t, expiresAt.Unix(), claims.ExpiresAt.Unix())
}

func TestJWTTokenService_UniqueTokenIDs(t *testing.T) {
	svc := NewJWTTokenService(testJWTSecret, time.Hour, "growfi")

	a, _, err := svc.Generate(1)
	require.NoError(t, err)
	b, _, err := svc.Generate(1)
	require.NoError(t, err)

	ca, err := svc.Validate(a)
	require.NoError(t, err)
	cb, err := svc.Validate(b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.TokenID, cb.TokenID)
}

func TestJWTTokenService_Rejects(t *testing.T) {
	svc := NewJWTTokenService(testJWTSecret, time.Hour, "growfi")

	expired, _, err := NewJWTTokenService(testJWTSecret, -time.Hour, "growfi").Generate(1)
	require.NoError(t, err)
	otherSecret, _, err := NewJWTTokenService("secret-2", time.Hour, "growfi").Generate(1)
	require.NoError(t, err)
	otherIssuer, _, err := NewJWTTokenService(testJWTSecret, time.Hour, "someone-else").Generate(1)
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		ID:        "x",
		Subject:   "1",
		Issuer:    "growfi",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        "x",
		Subject:   "not-a-number",
		Issuer:    "growfi",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:      "x",
		Subject: "1",
		Issuer:  "growfi",
	}).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	tests := map[string]string{
		"expired":      expired,
		"other secret": otherSecret,
		"other issuer": otherIssuer,
		"alg none":     noneAlg,
		"bad subject":  badSubject,
		"no expiry":    noExpiry,
		"garbage":      "not.a.valid.jwt",
		"empty":        "",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Validate(token)
			assert.Error(t, err)
		})
	}
}
