package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/deppfellow/userstore/internal/config"
	"github.com/deppfellow/userstore/internal/errs"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims() Claims {
	return Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func runAuth(t *testing.T, auth *AuthMiddleware, header string) (echo.Context, error) {
	t.Helper()
	c, _ := newContext(echo.New(), http.MethodGet, "/users")
	if header != "" {
		c.Request().Header.Set(echo.HeaderAuthorization, header)
	}
	return c, auth.RequireAuth(okHandler)(c)
}

func requireUnauthorized(t *testing.T, err error) {
	t.Helper()
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	auth := NewAuthMiddleware(newTestServer(nil))
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims())

	c, err := runAuth(t, auth, "Bearer "+token)

	require.NoError(t, err)
	assert.Equal(t, "user-123", GetUserID(c))
	assert.Equal(t, "admin", c.Get(UserRoleKey))
}

func TestRequireAuth_Rejects(t *testing.T) {
	auth := NewAuthMiddleware(newTestServer(nil))

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	noSubject := validClaims()
	noSubject.Subject = ""

	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"empty token", "Bearer "},
		{"garbage", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims())},
		{"wrong alg", "Bearer " + signToken(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims())},
		{"expired", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), expired)},
		{"no subject", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), noSubject)},
		{"no expiry", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), noExpiry)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := runAuth(t, auth, tt.header)
			requireUnauthorized(t, err)
			assert.Empty(t, GetUserID(c))
		})
	}
}

func TestRequireAuth_IssuerAndAudience(t *testing.T) {
	auth := NewAuthMiddleware(newTestServer(func(cfg *config.Config) {
		cfg.Auth.Issuer = "issuer"
		cfg.Auth.Audience = "userstore"
	}))

	good := validClaims()
	good.Issuer = "issuer"
	good.Audience = jwt.ClaimStrings{"userstore"}

	_, err := runAuth(t, auth, "Bearer "+signToken(t, jwt.SigningMethodHS256, []byte(testSecret), good))
	require.NoError(t, err)

	bad := good
	bad.Issuer = "someone-else"
	_, err = runAuth(t, auth, "Bearer "+signToken(t, jwt.SigningMethodHS256, []byte(testSecret), bad))
	requireUnauthorized(t, err)
}

func TestBearerTokenCaseInsensitiveScheme(t *testing.T) {
	token, err := bearerToken("bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
}
