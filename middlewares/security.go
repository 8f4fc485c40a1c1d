package middlewares

import (
	"ERPAuth/utils/logger"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

var ErrNoAllowedOrigins = errors.New("ALLOWED_ORIGINS must be set in production")

var (
	corsRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_cors_requests_total",
			Help: "Total number of CORS requests by origin",
		},
		[]string{"origin"},
	)
)

func init() {
	prometheus.MustRegister(corsRequestsTotal)
}

type SecurityConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
	Environment      string
}

// NewSecurityConfig allows any origin outside production. In production only
// allowedOrigins may make cross-origin requests.
func NewSecurityConfig(environment string, allowedOrigins []string) (*SecurityConfig, error) {
	if environment == "production" && len(allowedOrigins) == 0 {
		return nil, ErrNoAllowedOrigins
	}

	return &SecurityConfig{
		Environment:    environment,
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Authorization",
			"Content-Type",
			"Accept-Language",
			"X-Request-ID",
			"X-Real-IP",
		},
		ExposedHeaders:   []string{"X-Request-ID"},
		MaxAge:           3600,
		AllowCredentials: true,
	}, nil
}

func (c *SecurityConfig) SecurityMiddleware(next http.Handler) http.Handler {
	log := logger.GetLogger("security")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Cache-Control", "no-store")
		if c.Environment == "production" {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		if !c.isAllowedOrigin(origin) {
			log.Warn().
				Str("origin", origin).
				Str("path", r.URL.Path).
				Str("ip", r.RemoteAddr).
				Msg("Invalid origin attempt")
			http.Error(w, "Invalid origin", http.StatusForbidden)
			return
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", strings.Join(c.AllowedMethods, ", "))
		w.Header().Set("Access-Control-Allow-Headers", strings.Join(c.AllowedHeaders, ", "))
		w.Header().Set("Access-Control-Expose-Headers", strings.Join(c.ExposedHeaders, ", "))
		w.Header().Add("Vary", "Origin")
		if c.AllowCredentials {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		if r.Method == http.MethodOptions {
			c.preflight(w, r, origin)
			return
		}

		corsRequestsTotal.WithLabelValues(origin).Inc()
		next.ServeHTTP(w, r)
	})
}

func (c *SecurityConfig) preflight(w http.ResponseWriter, r *http.Request, origin string) {
	log := logger.GetLogger("security")
	requestMethod := r.Header.Get("Access-Control-Request-Method")

	if !slices.Contains(c.AllowedMethods, requestMethod) {
		log.Warn().
			Str("origin", origin).
			Str("method", requestMethod).
			Msg("Invalid preflight method request")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if requestHeaders := r.Header.Get("Access-Control-Request-Headers"); requestHeaders != "" {
		for _, header := range strings.Split(requestHeaders, ",") {
			header = strings.TrimSpace(header)
			allowed := slices.ContainsFunc(c.AllowedHeaders, func(h string) bool {
				return strings.EqualFold(h, header)
			})
			if !allowed {
				log.Warn().
					Str("origin", origin).
					Str("header", header).
					Msg("Invalid preflight header request")
				http.Error(w, "Header not allowed", http.StatusForbidden)
				return
			}
		}
	}

	w.Header().Set("Access-Control-Max-Age", strconv.Itoa(c.MaxAge))
	w.WriteHeader(http.StatusOK)
}

func (c *SecurityConfig) isAllowedOrigin(origin string) bool {
	if c.Environment != "production" {
		return true
	}
	return slices.Contains(c.AllowedOrigins, origin)
}
