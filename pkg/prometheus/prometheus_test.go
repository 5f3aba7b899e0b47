package prometheus

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNewHandler(t *testing.T) {
	interactions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_interactions_total",
		Help: "test counter",
	}, []string{"type"})
	interactions.WithLabelValues("Ping").Inc()

	rec := httptest.NewRecorder()
	NewHandler(interactions).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `test_interactions_total{type="Ping"} 1`)
	require.Contains(t, string(body), "go_goroutines")
}

func TestNewHandler_DuplicateCollectorPanics(t *testing.T) {
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "dup_total", Help: "dup"})

	require.Panics(t, func() { NewHandler(c, c) })
}
