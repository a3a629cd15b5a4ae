package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, reg *Registry) string {
	t.Helper()

	rr := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	return string(body)
}

func TestRegistry_Middleware(t *testing.T) {
	reg := NewRegistry("product")

	router := chi.NewRouter()
	router.Use(reg.Middleware)
	router.Get("/api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"1", "2", "3"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/products/"+id, nil))
		require.Equal(t, http.StatusNotFound, rr.Code)
	}

	assert.Contains(t, scrape(t, reg),
		`aicommerce_product_http_requests_total{method="GET",route="/api/products/{id}",status="404"} 3`)
}

func TestRegistry_ObserveAICall(t *testing.T) {
	reg := NewRegistry("product")

	reg.ObserveAICall("ok", 2*time.Second)
	reg.ObserveAICall("not_configured", 0)

	out := scrape(t, reg)
	assert.Contains(t, out, `aicommerce_product_ai_recommendation_calls_total{outcome="ok"} 1`)
	assert.Contains(t, out, `aicommerce_product_ai_recommendation_calls_total{outcome="not_configured"} 1`)
	assert.Contains(t, out, "aicommerce_product_ai_recommendation_duration_seconds_count 1")
}
