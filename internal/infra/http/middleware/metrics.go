package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
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

	stageTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stage_transitions_total",
			Help: "Total number of lead stage transitions",
		},
		[]string{"from", "to"},
	)

	leadsConverted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_leads_converted_total",
			Help: "Total number of leads converted to clients",
		},
	)

	proposalsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_proposals_sent_total",
			Help: "Total number of proposals sent",
		},
	)

	followUpsLogged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_follow_ups_logged_total",
			Help: "Total number of follow-ups appended to a lead ledger",
		},
		[]string{"type"},
	)

	remindersDispatched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_follow_up_reminders_total",
			Help: "Total number of due follow-up reminders published",
		},
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

// routePattern usa o padrão do chi (/leads/{id}) para não explodir a
// cardinalidade com um label por id.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordStageTransition(from, to string) {
	stageTransitions.WithLabelValues(from, to).Inc()
}

func RecordLeadConverted() {
	leadsConverted.Inc()
}

func RecordProposalSent() {
	proposalsSent.Inc()
}

func RecordFollowUpLogged(followUpType string) {
	followUpsLogged.WithLabelValues(followUpType).Inc()
}

func RecordRemindersDispatched(n int) {
	remindersDispatched.Add(float64(n))
}
