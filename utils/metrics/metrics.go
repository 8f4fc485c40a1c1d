package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status_code"},
	)

	DatabaseOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_operations_total",
			Help: "Total number of database operations",
		},
		[]string{"operation", "status"},
	)

	AuthAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication attempts by type and result",
		},
		[]string{"type", "result"},
	)

	RateLimitHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limit_hits_total",
			Help: "Total number of rate limit hits",
		},
	)

	PasswordEvaluations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "password_evaluations_total",
			Help: "Total number of password policy evaluations by result",
		},
		[]string{"result"},
	)

	PasswordViolations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "password_violations_total",
			Help: "Total number of password policy violations by rule",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DatabaseOperations)
	prometheus.MustRegister(AuthAttempts)
	prometheus.MustRegister(RateLimitHits)
	prometheus.MustRegister(PasswordEvaluations)
	prometheus.MustRegister(PasswordViolations)
}

// RecordRequestDuration records the duration of a finished HTTP request
func RecordRequestDuration(path, method string, status int, duration time.Duration) {
	RequestDuration.WithLabelValues(path, method, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordDatabaseOperation records a database operation with its status
func RecordDatabaseOperation(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DatabaseOperations.WithLabelValues(operation, status).Inc()
}

// RecordAuthAttempt records an authentication attempt, e.g. ("login", "failure")
func RecordAuthAttempt(attemptType, result string) {
	AuthAttempts.WithLabelValues(attemptType, result).Inc()
}

// RecordRateLimitHit increments the rate limit hits counter
func RecordRateLimitHit() {
	RateLimitHits.Inc()
}

// RecordPasswordEvaluation counts one policy evaluation and each rule it broke.
func RecordPasswordEvaluation(valid bool, violations []string) {
	result := "accepted"
	if !valid {
		result = "rejected"
	}
	PasswordEvaluations.WithLabelValues(result).Inc()

	for _, kind := range violations {
		PasswordViolations.WithLabelValues(kind).Inc()
	}
}

// Handler returns an HTTP handler for the metrics endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
