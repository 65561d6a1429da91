package middleware

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/tito24dxb/bk/utils"
)

// In-memory per-IP sliding-window rate limiter, used on the login
// endpoints. Designed to be replaced by Redis if the API ever runs on
// more than one instance.

type timestamps []int64 // unix nanos

type IPRateLimiter struct {
	max         int
	window      time.Duration
	mu          sync.Mutex
	state       map[string]timestamps
	trustedCIDR []string
}

// NewIPRateLimiter allows max requests per IP within the window.
func NewIPRateLimiter(max int, window time.Duration) *IPRateLimiter {
	l := &IPRateLimiter{
		max:    max,
		window: window,
		state:  make(map[string]timestamps),
	}
	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		l.trustedCIDR = strings.Split(v, ",")
	}
	go l.cleanupLoop()
	return l
}

// clientIP returns the client IP string. X-Forwarded-For / X-Real-IP
// headers are honored only when the remote addr is inside one of the
// trusted CIDRs or IPs.
func clientIP(r *http.Request, trustedCIDR []string) string {
	remoteHost, _, _ := net.SplitHostPort(r.RemoteAddr)
	remoteIP := net.ParseIP(remoteHost)
	trusted := false
	for _, cidr := range trustedCIDR {
		cidr = strings.TrimSpace(cidr)
		if cidr == "" {
			continue
		}
		if strings.Contains(cidr, "/") {
			if _, ipnet, err := net.ParseCIDR(cidr); err == nil {
				if remoteIP != nil && ipnet.Contains(remoteIP) {
					trusted = true
					break
				}
			}
			continue
		}
		if ip := net.ParseIP(cidr); ip != nil && remoteIP != nil && ip.Equal(remoteIP) {
			trusted = true
			break
		}
	}
	if trusted {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			if len(parts) > 0 {
				return strings.TrimSpace(parts[0])
			}
		}
		if xr := r.Header.Get("X-Real-IP"); xr != "" {
			return strings.TrimSpace(xr)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware applies the per-IP limit and sets rate-limit headers.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r, l.trustedCIDR)
		now := time.Now().UnixNano()
		cutoff := now - int64(l.window)

		l.mu.Lock()
		var kept timestamps
		for _, ts := range l.state[ip] {
			if ts >= cutoff {
				kept = append(kept, ts)
			}
		}
		kept = append(kept, now)
		l.state[ip] = kept
		count := len(kept)
		oldest := kept[0]
		l.mu.Unlock()

		remaining := l.max - count
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", l.max))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if count > l.max {
			retryAfter := (oldest + int64(l.window) - now) / int64(time.Second)
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			utils.WriteJSON(w, http.StatusTooManyRequests, utils.APIResponse{
				Success: false,
				Message: "Too many requests, please try again later",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (l *IPRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().UnixNano() - int64(l.window)
		l.mu.Lock()
		for ip, arr := range l.state {
			var kept timestamps
			for _, ts := range arr {
				if ts >= cutoff {
					kept = append(kept, ts)
				}
			}
			if len(kept) == 0 {
				delete(l.state, ip)
			} else {
				l.state[ip] = kept
			}
		}
		l.mu.Unlock()
	}
}
