// Package middleware provides reusable HTTP middleware: JWT
// authentication, role checks, Redis-backed rate limiting and response
// caching, and Prometheus request metrics.
package middleware

import (
    "net/http"
    "strings"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
)

// parseBearer validates a Bearer token against the HS256 secret and
// returns its claims.  A nil map means the header was missing or the
// token invalid.
func parseBearer(c echo.Context, secret string) jwt.MapClaims {
    auth := c.Request().Header.Get("Authorization")
    if !strings.HasPrefix(auth, "Bearer ") {
        return nil
    }
    raw := strings.TrimPrefix(auth, "Bearer ")
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, echo.ErrUnauthorized
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return nil
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return nil
    }
    return claims
}

// JWTAuth validates a Bearer access token and injects the subject and
// role claims into the request context.  Handlers read them via
// c.Get("user_id") and c.Get("role").  Requests without a valid token
// are rejected with 401.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            claims := parseBearer(c, secret)
            if claims == nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing or invalid bearer token"})
            }
            c.Set("user_id", claims["sub"])
            c.Set("role", claims["role"])
            return next(c)
        }
    }
}

// OptionalJWTAuth injects identity claims when a valid token is present
// and passes the request through unchanged otherwise.  Public endpoints
// use it so availability responses can flag the caller's own holds.
func OptionalJWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if claims := parseBearer(c, secret); claims != nil {
                c.Set("user_id", claims["sub"])
                c.Set("role", claims["role"])
            }
            return next(c)
        }
    }
}
