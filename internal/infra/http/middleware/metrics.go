package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	importRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_import_rows_total",
			Help: "Imported spreadsheet rows by outcome",
		},
		[]string{"outcome"},
	)

	leadsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_leads_created_total",
			Help: "Total number of leads created through the form",
		},
	)

	interactionsLogged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_interactions_logged_total",
			Help: "Total number of interactions logged",
		},
	)

	publishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_event_publish_errors_total",
			Help: "Total number of lead events that failed to publish",
		},
		[]string{"event"},
	)

	leadsByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "crm_leads_by_status",
			Help: "Number of leads in each pipeline stage",
		},
		[]string{"status"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern evita cardinalidade alta: /api/leads/{id} em vez do id real.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func RecordLeadCreated() {
	leadsCreated.Inc()
}

func RecordInteraction() {
	interactionsLogged.Inc()
}

func RecordPublishError(event string) {
	publishErrors.WithLabelValues(event).Inc()
}

func SetLeadsByStatus(counts map[string]int) {
	for status, n := range counts {
		leadsByStatus.WithLabelValues(status).Set(float64(n))
	}
}

// ImportRecorder expõe os contadores do relatório de importação.
type ImportRecorder struct{}

func (ImportRecorder) RecordImport(report entity.ImportReport) {
	importRows.WithLabelValues("inserted").Add(float64(report.Inserted))
	importRows.WithLabelValues("updated").Add(float64(report.Updated))
	importRows.WithLabelValues("skipped").Add(float64(report.Skipped))
	importRows.WithLabelValues("rejected").Add(float64(report.Rejected))
}
