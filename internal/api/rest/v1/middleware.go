package v1

import (
	"fmt"
	"time"

	"github.com/MGTheTrain/tokenization-service/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

const unmatchedRoute = "unmatched"

// RequestObserver records finished HTTP requests
type RequestObserver interface {
	ObserveHTTPRequest(method, route string, status int, elapsed time.Duration)
}

// ObserveRequests logs every request and reports it to observer when set.
// Routes are labelled by their pattern so the label set stays bounded.
func ObserveRequests(observer RequestObserver, log logger.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		elapsed := time.Since(start)

		route := ctx.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		status := ctx.Writer.Status()

		log.Debug(ctx.Request.Method, " ", ctx.Request.URL.Path, " ", status, " ", elapsed)
		if observer != nil {
			observer.ObserveHTTPRequest(ctx.Request.Method, route, status, elapsed)
		}
	}
}

// Recovery turns panics into 500 problem details
func Recovery(log logger.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(ctx *gin.Context, recovered any) {
		writeProblem(ctx, log, fmt.Errorf("panic: %v", recovered))
	})
}
