package middlewares

import (
	"ERPAuth/services"
	"ERPAuth/utils/logger"
	"ERPAuth/utils/metrics"
	"ERPAuth/utils/response"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// TrustedProxies lists the peers allowed to report the client address through
// X-Forwarded-For or X-Real-IP. Headers from any other peer are ignored.
type TrustedProxies []netip.Prefix

// ParseTrustedProxies accepts plain addresses and CIDR ranges.
func ParseTrustedProxies(entries []string) (TrustedProxies, error) {
	proxies := make(TrustedProxies, 0, len(entries))
	for _, entry := range entries {
		if prefix, err := netip.ParsePrefix(entry); err == nil {
			proxies = append(proxies, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		proxies = append(proxies, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return proxies, nil
}

func (p TrustedProxies) trusts(host string) bool {
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range p {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP returns the forwarded client address when the peer is a trusted
// proxy, and the peer address otherwise.
func (p TrustedProxies) ClientIP(r *http.Request) string {
	host := remoteHost(r)
	if !p.trusts(host) {
		return host
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return host
}

// RateLimitMiddleware limits requests per client IP and path. Requests pass
// through when the limiter itself fails.
func RateLimitMiddleware(limiter services.RateLimiter, proxies TrustedProxies) func(http.Handler) http.Handler {
	log := logger.GetLogger("rate_limit")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "erp:rate_limit:" + proxies.ClientIP(r) + ":" + r.URL.Path

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				log.Warn().Err(err).Str("path", r.URL.Path).Msg("Rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				metrics.RecordRateLimitHit()
				response.JSONError(w, "Too many requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// remoteHost strips the port from the peer address.
func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
