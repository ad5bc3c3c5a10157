// Package middleware provides the HTTP cross-cutting concerns for the
// reservation API: bearer-token authentication, role gating, the
// availability response cache and the submission rate limiter.
package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Roles carried in the access token's "role" claim.
const (
	RoleDiner      = "DINER"
	RoleRestaurant = "RESTAURANT"
)

// Context keys populated by the auth middlewares.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// parseAccess validates a raw HS256 access token and extracts the numeric
// subject and the role claim.
func parseAccess(secret, raw string) (uint64, string, bool) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tok.Valid {
		return 0, "", false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", false
	}
	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || id == 0 {
		return 0, "", false
	}
	role, _ := claims["role"].(string)
	return id, role, true
}

// JWTAuth returns middleware that requires a valid Bearer access token and
// stores the caller's ID and role in the request context.  Handlers read
// them back via c.Get(ContextUserID) and c.Get(ContextRole).
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			id, role, ok := parseAccess(secret, strings.TrimPrefix(auth, "Bearer "))
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(ContextUserID, id)
			c.Set(ContextRole, role)
			return next(c)
		}
	}
}

// OptionalJWT decodes a Bearer token when one is present but lets
// anonymous requests through untouched.  The public booking submission
// uses it to link reservations to diner accounts opportunistically.
func OptionalJWT(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				if id, role, ok := parseAccess(secret, strings.TrimPrefix(auth, "Bearer ")); ok {
					c.Set(ContextUserID, id)
					c.Set(ContextRole, role)
				}
			}
			return next(c)
		}
	}
}

// UserID reads the authenticated caller's ID from the context.  The
// second return value is false for anonymous requests.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(ContextUserID).(uint64)
	return id, ok && id != 0
}
