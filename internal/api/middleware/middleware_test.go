package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingFlow/pkg/logger"
)

type observed struct {
	method string
	route  string
	status int
}

type fakeMetrics struct {
	calls []observed
}

func (f *fakeMetrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	f.calls = append(f.calls, observed{method: method, route: route, status: status})
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	collector := &fakeMetrics{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(collector))
	r.HandleFunc("/api/v1/sessions/{sessionId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/abc-123", nil))

	require.Len(t, collector.calls, 1)
	assert.Equal(t, observed{method: http.MethodGet, route: "/api/v1/sessions/{sessionId}", status: http.StatusNotFound}, collector.calls[0])
}

func TestRecovery(t *testing.T) {
	r := mux.NewRouter()
	r.Use(Recovery(logger.NewNop()))
	r.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}
