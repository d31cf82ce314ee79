package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/delta-student/wanderlust/internal/platform/logger"
)

// Manager holds the application's Prometheus metrics. A nil *Manager is
// valid and records nothing, so components can run without metrics wired.
type Manager struct {
	Registry            *prometheus.Registry
	SignupsTotal        prometheus.Counter
	ListingsCreated     prometheus.Counter
	ListingsDeleted     prometheus.Counter
	ReviewsCreated      prometheus.Counter
	ReviewsDeleted      prometheus.Counter
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewManager initializes and registers the application metrics on a private
// registry.
func NewManager(serviceName string) *Manager {
	registry := prometheus.NewRegistry()

	m := &Manager{
		Registry: registry,
		SignupsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "signups_total",
			Help:      "Total number of user signups.",
		}),
		ListingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "listings_created_total",
			Help:      "Total number of listings created.",
		}),
		ListingsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "listings_deleted_total",
			Help:      "Total number of listings deleted.",
		}),
		ReviewsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "reviews_created_total",
			Help:      "Total number of reviews created.",
		}),
		ReviewsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "reviews_deleted_total",
			Help:      "Total number of reviews deleted.",
		}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method and status.",
		}, []string{"method", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	registry.MustRegister(
		m.SignupsTotal,
		m.ListingsCreated,
		m.ListingsDeleted,
		m.ReviewsCreated,
		m.ReviewsDeleted,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// IncSignups increments the signup counter.
func (m *Manager) IncSignups() {
	if m != nil {
		m.SignupsTotal.Inc()
	}
}

// IncListingsCreated increments the listings-created counter.
func (m *Manager) IncListingsCreated() {
	if m != nil {
		m.ListingsCreated.Inc()
	}
}

// IncListingsDeleted increments the listings-deleted counter.
func (m *Manager) IncListingsDeleted() {
	if m != nil {
		m.ListingsDeleted.Inc()
	}
}

// IncReviewsCreated increments the reviews-created counter.
func (m *Manager) IncReviewsCreated() {
	if m != nil {
		m.ReviewsCreated.Inc()
	}
}

// IncReviewsDeleted increments the reviews-deleted counter.
func (m *Manager) IncReviewsDeleted() {
	if m != nil {
		m.ReviewsDeleted.Inc()
	}
}

// ObserveHTTPRequest records one handled HTTP request.
func (m *Manager) ObserveHTTPRequest(method, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// StartServer exposes the registry on /metrics at the given port. It blocks
// until the server stops.
func StartServer(port string, appLogger *logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		appLogger.Info("Metrics server port not configured, server will not start.")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	appLogger.Info("Metrics server starting", zap.String("port", port), zap.String("path", "/metrics"))

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
	return server.ListenAndServe()
}
