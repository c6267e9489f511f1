package v1

import (
	"net/http"

	"github.com/MGTheTrain/tokenization-service/internal/domain/idempotency"
	"github.com/MGTheTrain/tokenization-service/internal/domain/tokens"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up all the API routes for version 1.
// The routes are mounted at the root to keep the public contract stable.
func SetupRoutes(r *gin.Engine,
	tokenizationService tokens.TokenizationService,
	idempotencyService idempotency.Service,
	healthChecks map[string]HealthCheck,
	observer RequestObserver,
	metricsHandler http.Handler,
	logger logger.Logger) {

	// Recovery runs inside ObserveRequests so panics are counted as 500s
	r.Use(ObserveRequests(observer, logger), Recovery(logger))

	tokenHandler := NewTokenHandler(tokenizationService, idempotencyService, logger)
	r.POST("/tokenize", tokenHandler.Tokenize)
	r.POST("/detokenize", tokenHandler.Detokenize)

	healthHandler := NewHealthHandler(healthChecks, logger)
	r.GET("/health", healthHandler.Health)

	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}
}
