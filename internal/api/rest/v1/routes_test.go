//go:build unit
// +build unit

package v1

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/MGTheTrain/tokenization-service/internal/domain/idempotency"
	"github.com/MGTheTrain/tokenization-service/internal/domain/tokens"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/config"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type observedRequest struct {
	method string
	route  string
	status int
}

type recordingObserver struct {
	mu       sync.Mutex
	requests []observedRequest
}

func (o *recordingObserver) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.requests = append(o.requests, observedRequest{method, route, status})
}

func newTestRouter(service tokens.TokenizationService, observer RequestObserver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})
	SetupRoutes(r, service, new(idempotency.MockService),
		map[string]HealthCheck{"db": func() error { return nil }},
		observer, metricsHandler, logger.NewWriterLogger(config.LogLevelInfo, &bytes.Buffer{}))
	return r
}

// TestSetupRoutes_RoutesRegistered verifies that routes are properly registered
func TestSetupRoutes_RoutesRegistered(t *testing.T) {
	r := newTestRouter(new(tokens.MockTokenizationService), nil)

	tests := []struct {
		method string
		url    string
	}{
		{"POST", "/tokenize"},
		{"POST", "/detokenize"},
		{"GET", "/health"},
		{"GET", "/metrics"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, tt.url, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.NotEqual(t, http.StatusNotFound, w.Code, "Route should be registered")
		})
	}
}

func TestSetupRoutes_ObservesRequestsByRoutePattern(t *testing.T) {
	service := new(tokens.MockTokenizationService)
	service.On("Tokenize", mock.Anything, mock.Anything).Return([]string{testToken}, nil)
	observer := &recordingObserver{}
	r := newTestRouter(service, observer)

	for _, url := range []string{"/tokenize", "/nowhere"} {
		req, _ := http.NewRequest("POST", url, bytes.NewBufferString(`["`+testAccount+`"]`))
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, []observedRequest{
		{"POST", "/tokenize", http.StatusOK},
		{"POST", unmatchedRoute, http.StatusNotFound},
	}, observer.requests)
}

func TestSetupRoutes_RecoversFromPanics(t *testing.T) {
	service := new(tokens.MockTokenizationService)
	service.On("Tokenize", mock.Anything, mock.Anything).Run(func(mock.Arguments) { panic("boom") })
	observer := &recordingObserver{}
	r := newTestRouter(service, observer)

	req, _ := http.NewRequest("POST", "/tokenize", bytes.NewBufferString(`["`+testAccount+`"]`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "An unexpected error occurred")
	assert.NotContains(t, w.Body.String(), "boom")
	assert.Equal(t, []observedRequest{{"POST", "/tokenize", http.StatusInternalServerError}}, observer.requests)
}
