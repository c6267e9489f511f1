package v1

import (
	"net/http"

	"github.com/MGTheTrain/tokenization-service/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Health states
const (
	StatusUp   = "UP"
	StatusDown = "DOWN"
)

// HealthCheck probes one component
type HealthCheck func() error

// HealthHandler defines the interface for the health endpoint
type HealthHandler interface {
	Health(ctx *gin.Context)
}

type healthHandler struct {
	checks map[string]HealthCheck
	logger logger.Logger
}

// NewHealthHandler creates a HealthHandler reporting each named check as a component
func NewHealthHandler(checks map[string]HealthCheck, logger logger.Logger) HealthHandler {
	return &healthHandler{checks: checks, logger: logger}
}

// Health handles the GET request reporting service health
// @Summary Service health
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (handler *healthHandler) Health(ctx *gin.Context) {
	response := HealthResponse{Status: StatusUp, Components: map[string]string{}}

	for name, check := range handler.checks {
		if err := check(); err != nil {
			handler.logger.Warn("Health check ", name, " failed: ", err)
			response.Components[name] = StatusDown
			response.Status = StatusDown
			continue
		}
		response.Components[name] = StatusUp
	}

	status := http.StatusOK
	if response.Status == StatusDown {
		status = http.StatusServiceUnavailable
	}
	ctx.JSON(status, response)
}
