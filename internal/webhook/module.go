// Package webhook provides the inbound message transport: the Meta webhook
// verification handshake and delivery endpoint.
package webhook

import (
	apphttp "autoparts_backend/internal/http"
	"autoparts_backend/platform/logger"
	"autoparts_backend/platform/validator"
)

// Module is the webhook bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the webhook module.
func NewModule(verifyToken, appSecret string, dispatcher Dispatcher, val *validator.Validator, log *logger.Logger) *Module {
	return &Module{
		handler: NewHandler(verifyToken, appSecret, dispatcher, val, log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "webhook"
}

// RegisterRoutes mounts webhook routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/webhook/whatsapp")
	group.GET("", m.handler.HandleVerify)
	group.POST("", m.handler.HandleReceive)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
