package http

import (
	"net/http"
	"time"

	"contactbook/pkg/api"
	"contactbook/pkg/logger"
)

// HealthHandler handles HTTP requests for health check operations
type HealthHandler struct {
	Logger logger.LoggerInterface
	API    api.Api
	now    func() time.Time
}

// NewHealthHandler creates a new instance of HealthHandler
func NewHealthHandler(appLogger logger.LoggerInterface) *HealthHandler {
	return &HealthHandler{
		Logger: appLogger,
		API:    api.New(),
		now:    time.Now,
	}
}

// HealthCheckHandler reports that the service is up
func (h *HealthHandler) HealthCheckHandler(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	h.Logger.DebugContext(ctx, "Health check endpoint called")

	h.API.Success(ctx, w, "Service is running", map[string]any{
		"status":    "healthy",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}
