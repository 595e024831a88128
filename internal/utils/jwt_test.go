// internal/utils/jwt_test.go
package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceTokenRoundTrip(t *testing.T) {
	token, err := GenerateServiceToken("secret", "catalog-admin", ScopeCatalogWrite, time.Minute)
	require.NoError(t, err)

	claims, err := parseServiceToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, ScopeCatalogWrite, claims.Scope)
	assert.Equal(t, "catalog-admin", claims.Issuer)
	assert.NotEmpty(t, claims.ID)

	_, err = parseServiceToken(token, "other")
	assert.Error(t, err)
}

func TestServiceTokenRejects(t *testing.T) {
	_, err := GenerateServiceToken("", "catalog-admin", ScopeCatalogWrite, time.Minute)
	assert.Error(t, err)

	expired, err := GenerateServiceToken("secret", "catalog-admin", ScopeCatalogWrite, -time.Minute)
	require.NoError(t, err)
	_, err = parseServiceToken(expired, "secret")
	assert.Error(t, err)
}

func parseServiceToken(tokenString, secret string) (*ServiceClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ServiceClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*ServiceClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
