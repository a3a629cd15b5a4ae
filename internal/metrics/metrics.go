package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns the collectors of one binary. Each binary creates its own so
// tests never trip over duplicate registration.
type Registry struct {
	reg *prometheus.Registry

	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec

	AICalls      *prometheus.CounterVec
	AILatencySec prometheus.Histogram
}

func NewRegistry(service string) *Registry {
	r := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aicommerce",
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "route", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "aicommerce",
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"method", "route"})
	aiCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aicommerce",
		Subsystem: service,
		Name:      "ai_recommendation_calls_total",
		Help:      "AI recommendation calls by outcome.",
	}, []string{"outcome"})
	aiLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "aicommerce",
		Subsystem: service,
		Name:      "ai_recommendation_duration_seconds",
		Help:      "Latency of upstream generative model calls.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
	})

	r.MustRegister(requests, latency, aiCalls, aiLatency)

	return &Registry{
		reg:          r,
		Requests:     requests,
		LatencyMS:    latency,
		AICalls:      aiCalls,
		AILatencySec: aiLatency,
	}
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// ObserveAICall records the outcome of one recommendation call. Calls that
// never reached the upstream are passed with a zero duration and are not
// added to the latency histogram.
func (r *Registry) ObserveAICall(outcome string, d time.Duration) {
	r.AICalls.WithLabelValues(outcome).Inc()
	if d > 0 {
		r.AILatencySec.Observe(d.Seconds())
	}
}

// Middleware records request count and latency per chi route pattern.
func (r *Registry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)

		next.ServeHTTP(ww, req)

		route := req.URL.Path
		if rctx := chi.RouteContext(req.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		r.Requests.WithLabelValues(req.Method, route, strconv.Itoa(status)).Inc()
		r.LatencyMS.WithLabelValues(req.Method, route).Observe(float64(time.Since(start).Milliseconds()))
	})
}
