package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/wellness-booking-api/internal/models"
	appErrors "github.com/noah-isme/wellness-booking-api/pkg/errors"
)

func signTestToken(t *testing.T, secret, issuer string, method jwt.SigningMethod, expires time.Time) string {
	t.Helper()
	claims := &models.JWTClaims{
		UserID: "admin-1",
		Role:   models.RoleAdmin,
		Email:  "admin@studio.test",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   "admin-1",
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthServiceValidateToken(t *testing.T) {
	svc := NewAuthService(nil, AuthConfig{AccessTokenSecret: "secret", Issuer: "studio-auth"})

	claims, err := svc.ValidateToken(signTestToken(t, "secret", "studio-auth", jwt.SigningMethodHS256, time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthServiceValidateTokenRejects(t *testing.T) {
	svc := NewAuthService(nil, AuthConfig{AccessTokenSecret: "secret", Issuer: "studio-auth"})

	cases := map[string]string{
		"wrong secret": signTestToken(t, "other", "studio-auth", jwt.SigningMethodHS256, time.Now().Add(time.Hour)),
		"wrong issuer": signTestToken(t, "secret", "elsewhere", jwt.SigningMethodHS256, time.Now().Add(time.Hour)),
		"expired":      signTestToken(t, "secret", "studio-auth", jwt.SigningMethodHS256, time.Now().Add(-time.Minute)),
		"other method": signTestToken(t, "secret", "studio-auth", jwt.SigningMethodHS512, time.Now().Add(time.Hour)),
		"garbage":      "not-a-token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			require.Error(t, err)
			var appErr *appErrors.Error
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
		})
	}
}
