package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/camlink/camera-registry/internal/core/domain"
)

// currentUser returns the user injected by the Session middleware. Its
// absence means the route was mounted without the middleware, which is
// reported as unauthenticated.
func currentUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get("user").(*domain.User)
	if user == nil {
		return nil, toHTTPError(domain.ErrUnauthenticated)
	}
	return user, nil
}
