package handler

// --- Request types ---

type registerRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email"    validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,max=72"`
	Tipo     string `json:"tipo"     validate:"required,oneof=client server cliente"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type cameraStateRequest struct {
	Estado     *bool  `json:"estado"      validate:"required"`
	IP         string `json:"ip"          validate:"max=45"`
	Puerto     string `json:"puerto"      validate:"max=5"`
	URLPublica string `json:"url_publica" validate:"max=255"`
}

// --- Response types ---

type messageResponse struct {
	Message string `json:"message"`
}

type loginResponse struct {
	Message string `json:"message"`
	Tipo    string `json:"tipo"`
}

type cameraStateResponse struct {
	Estado bool `json:"estado"`
}

type pingResponse struct {
	Status string `json:"status"`
}

// statusResponse is the body of GET /check-auth. The discovery keys are only
// present for client callers, where they are null when no server is active.
type statusResponse struct {
	Status       string  `json:"status"`
	User         string  `json:"user"`
	Tipo         string  `json:"tipo"`
	CamaraActiva bool    `json:"camara_activa"`
	CamaraIP     *string `json:"camara_ip"`
	CamaraPuerto *string `json:"camara_puerto"`
	URLPublica   *string `json:"url_publica"`

	*DiscoveryFields
}

// DiscoveryFields is exported so encoding/json flattens it into
// statusResponse.
type DiscoveryFields struct {
	IPServidor         *string `json:"ip_servidor"`
	PuertoServidor     *string `json:"puerto_servidor"`
	URLPublicaServidor *string `json:"url_publica_servidor"`
	ServidorUsuario    *string `json:"servidor_usuario"`
}
