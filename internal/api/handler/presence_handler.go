package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/camlink/camera-registry/internal/api/metrics"
	"github.com/camlink/camera-registry/internal/core/ports"
)

type PresenceHandler struct {
	presenceService ports.PresenceService
}

func NewPresenceHandler(presenceService ports.PresenceService) *PresenceHandler {
	return &PresenceHandler{presenceService: presenceService}
}

// CheckAuth reports the caller's own state and, for clients, the camera
// server they should connect to.
//
// @Summary      Session status and server discovery
// @Tags         presence
// @Produce      json
// @Success      200  {object}  statusResponse
// @Failure      401  {object}  map[string]string
// @Router       /check-auth [get]
func (h *PresenceHandler) CheckAuth(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	view, err := h.presenceService.Status(c.Request().Context(), user)
	if err != nil {
		return toHTTPError(err)
	}

	u := view.User
	resp := statusResponse{
		Status:       statusOK,
		User:         u.Username,
		Tipo:         string(u.Role),
		CamaraActiva: u.CameraActive,
		CamaraIP:     u.CameraIP,
		CamaraPuerto: u.CameraPort,
		URLPublica:   u.PublicURL,
	}
	if view.Discovery != nil {
		resp.DiscoveryFields = &DiscoveryFields{}
		if srv := view.Discovery.Server; srv != nil {
			resp.IPServidor = &srv.IP
			resp.PuertoServidor = &srv.Port
			resp.URLPublicaServidor = srv.PublicURL
			resp.ServidorUsuario = &srv.Username
			metrics.DiscoveryTotal.WithLabelValues("hit").Inc()
		} else {
			metrics.DiscoveryTotal.WithLabelValues("miss").Inc()
		}
	}

	return c.JSON(http.StatusOK, resp)
}

// SetCameraState publishes or withdraws the caller's camera.
//
// @Summary      Update camera presence
// @Tags         presence
// @Accept       json
// @Produce      json
// @Param        body  body      cameraStateRequest  true  "Camera state"
// @Success      200   {object}  cameraStateResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /estado-camara [post]
func (h *PresenceHandler) SetCameraState(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req cameraStateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Estado == nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "estado is required")
	}

	active, err := h.presenceService.SetCameraState(c.Request().Context(), user, ports.CameraStateInput{
		Active:    *req.Estado,
		IP:        req.IP,
		Port:      req.Puerto,
		PublicURL: req.URLPublica,
	})
	if err != nil {
		return toHTTPError(err)
	}

	state := "inactive"
	if active {
		state = "active"
	}
	metrics.PresenceChangesTotal.WithLabelValues(state).Inc()
	return c.JSON(http.StatusOK, cameraStateResponse{Estado: active})
}

// Ping is an unauthenticated liveness check kept for existing clients.
//
// @Summary      Ping
// @Tags         health
// @Produce      json
// @Success      200  {object}  pingResponse
// @Router       /ping [get]
func (h *PresenceHandler) Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, pingResponse{Status: statusPong})
}
