// internal/app/features/announcements/handler.go
package announcements

import (
	"go.uber.org/zap"
)

// Handler owns all Announcements handlers.
type Handler struct {
	Service *Service
	Log     *zap.Logger
}

// NewHandler constructs an Announcements Handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{
		Service: svc,
		Log:     logger,
	}
}
