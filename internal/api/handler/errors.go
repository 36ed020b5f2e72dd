package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/camlink/camera-registry/internal/core/domain"
)

// Response messages keep the wording existing clients already display.
const (
	msgRegistered         = "Registro exitoso"
	msgLoggedIn           = "Inicio de sesión exitoso"
	msgLoggedOut          = "Sesión cerrada"
	msgUsernameTaken      = "Usuario ya registrado"
	msgEmailTaken         = "Correo ya registrado"
	msgInvalidCredentials = "Credenciales inválidas"
	msgUnauthenticated    = "No autenticado"
	msgMissingConnection  = "IP y puerto son obligatorios cuando la cámara está activa"
	msgInvalidPayload     = "invalid payload"
	statusOK              = "ok"
	statusPong            = "OK"
)

// toHTTPError maps domain errors to echo HTTP errors. Unknown errors are
// returned unchanged so the central error handler logs them as 500s.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, domain.ErrUsernameTaken):
		return echo.NewHTTPError(http.StatusConflict, msgUsernameTaken)
	case errors.Is(err, domain.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, msgEmailTaken)
	case errors.Is(err, domain.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, msgUsernameTaken)
	case errors.Is(err, domain.ErrInvalidRole), errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrPasswordTooLong):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, domain.ErrUnauthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, msgUnauthenticated)
	case errors.Is(err, domain.ErrMissingConnectionInfo):
		return echo.NewHTTPError(http.StatusBadRequest, msgMissingConnection)
	default:
		return err
	}
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidPayload).SetInternal(err)
	}
	if c.Echo().Validator == nil {
		return nil
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
