package middleware

import (
	"net/http"
	"strings"

	"github.com/anonto42/class-forum/backend/internal/models"
	"github.com/anonto42/class-forum/backend/internal/session"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	// UserContextKey holds the *models.SessionClaims of an authenticated request.
	UserContextKey = "user"
	// TokenCookieName is the cookie carrying the session token for browser clients.
	TokenCookieName = "forum_token"
)

// SessionAuth rejects requests without a valid token backed by a live session.
func SessionAuth(secret string, sessions session.Store) echo.MiddlewareFunc {
	return sessionAuth(secret, sessions, false)
}

// OptionalSessionAuth authenticates the request when it carries a valid token and
// lets anonymous requests through otherwise.
func OptionalSessionAuth(secret string, sessions session.Store) echo.MiddlewareFunc {
	return sessionAuth(secret, sessions, true)
}

func sessionAuth(secret string, sessions session.Store, optional bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := extractToken(c)
			if err != nil {
				if optional {
					return next(c)
				}
				return err
			}

			claims, err := ParseToken(secret, tokenString)
			if err != nil {
				if optional {
					return next(c)
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			sess, err := sessions.Get(c.Request().Context(), claims.ID)
			if err != nil {
				if !errors.Is(err, session.ErrNotFound) {
					return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load session").SetInternal(err)
				}
				if optional {
					return next(c)
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Session expired")
			}
			if sess.UserID != claims.UserID {
				if optional {
					return next(c)
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set(UserContextKey, claims)
			return next(c)
		}
	}
}

// extractToken reads "Authorization: Bearer <token>", falling back to the session cookie.
func extractToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
		}
		return parts[1], nil
	}
	if cookie, err := c.Cookie(TokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	return "", echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
}

// ParseToken verifies an HS256 session token and returns its claims.
func ParseToken(secret, tokenString string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.ID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// SignToken issues the session token for user: its jti is the session ID.
func SignToken(secret string, user *models.User, sess *session.Session) (string, error) {
	claims := &models.SessionClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// CurrentUser returns the claims stored by SessionAuth, or nil for anonymous requests.
func CurrentUser(c echo.Context) *models.SessionClaims {
	claims, _ := c.Get(UserContextKey).(*models.SessionClaims)
	return claims
}
