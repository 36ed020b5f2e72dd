package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/camlink/camera-registry/internal/core/domain"
	"github.com/camlink/camera-registry/internal/core/ports"
)

const unauthenticated = "No autenticado"

// Session resolves the session cookie into a user and injects it into the
// context as "user", together with "role" and "session_token".
func Session(auth ports.AuthService, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(cookieName)
			if err != nil || ck.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, unauthenticated)
			}

			user, err := auth.Authenticate(c.Request().Context(), ck.Value)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					return echo.NewHTTPError(http.StatusUnauthorized, unauthenticated)
				}
				return err
			}

			c.Set("user", user)
			c.Set("role", string(user.Role))
			c.Set("session_token", ck.Value)

			return next(c)
		}
	}
}
