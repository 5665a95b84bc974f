package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/userhub/user-management/internal/core/ports"
)

// Auth validates the bearer token and injects the caller identity into the
// request context. A token is accepted only when its signature and expiry
// check out AND its session is still present in the store; logout removes
// the session, so revoked tokens fail here with 401.
func Auth(jwtSecret string, sessions ports.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sub, _ := claims["sub"].(string)
			userID, err := strconv.ParseInt(sub, 10, 64)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			jti, _ := claims["jti"].(string)
			if jti == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sessionUserID, err := sessions.Get(c.Request().Context(), jti)
			if err != nil || sessionUserID != userID {
				return echo.NewHTTPError(http.StatusUnauthorized, "token revoked or expired")
			}

			c.Set("user_id", userID)
			c.Set("role", claims["role"])
			c.Set("jti", jti)

			return next(c)
		}
	}
}
