package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/deppfellow/userstore/internal/errs"
	"github.com/deppfellow/userstore/internal/server"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Claims is the token payload accepted by RequireAuth.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// AuthMiddleware verifies HS256 bearer tokens signed with the configured secret.
type AuthMiddleware struct {
	server *server.Server
	parser *jwt.Parser
	secret []byte
}

// NewAuthMiddleware constructs an AuthMiddleware.
//
// Issuer and audience checks are enabled only when configured.
func NewAuthMiddleware(s *server.Server) *AuthMiddleware {
	cfg := s.Config.Auth

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &AuthMiddleware{
		server: s,
		parser: jwt.NewParser(opts...),
		secret: []byte(cfg.SecretKey),
	}
}

// RequireAuth rejects requests without a valid bearer token with a 401.
//
// On success the subject and role are stored under UserIDKey and UserRoleKey.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		token, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			auth.reject(c, start, err)
			return errs.NewUnauthorizedError("Unauthorized", false)
		}

		claims := &Claims{}
		_, err = auth.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
			return auth.secret, nil
		})
		if err != nil {
			auth.reject(c, start, err)
			return errs.NewUnauthorizedError("Unauthorized", false)
		}
		if claims.Subject == "" {
			auth.reject(c, start, errors.New("token has no subject"))
			return errs.NewUnauthorizedError("Unauthorized", false)
		}

		c.Set(UserIDKey, claims.Subject)
		if claims.Role != "" {
			c.Set(UserRoleKey, claims.Role)
		}

		auth.server.Logger.Debug().
			Str("function", "RequireAuth").
			Str("user_id", claims.Subject).
			Str("request_id", GetRequestID(c)).
			Dur("duration", time.Since(start)).
			Msg("user authenticated successfully")

		return next(c)
	}
}

func (auth *AuthMiddleware) reject(c echo.Context, start time.Time, err error) {
	auth.server.Logger.Warn().
		Err(err).
		Str("function", "RequireAuth").
		Str("request_id", GetRequestID(c)).
		Dur("duration", time.Since(start)).
		Msg("request rejected by auth")
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("missing authorization header")
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", errors.New("invalid authorization header")
	}
	return strings.TrimSpace(token), nil
}
