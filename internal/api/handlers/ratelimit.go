package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/cashtrackr/cashtrackr-be/internal/api/respond"
)

// rateLimiter is a simple in-memory per-IP limiter guarding the sensitive
// auth endpoints (login, confirm, forgot/reset password).
type rateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientInfo
	limit   int
	window  time.Duration
}

type clientInfo struct {
	windowStart time.Time
	requests    int
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		clients: make(map[string]*clientInfo),
		limit:   limit,
		window:  window,
	}
}

// allow reports whether a request from the given IP fits the window, and
// opportunistically drops stale entries.
func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for ip, c := range rl.clients {
		if now.Sub(c.windowStart) > 2*rl.window {
			delete(rl.clients, ip)
		}
	}

	client, exists := rl.clients[clientIP]
	if !exists || now.Sub(client.windowStart) > rl.window {
		rl.clients[clientIP] = &clientInfo{windowStart: now, requests: 1}
		return true
	}

	client.requests++
	return client.requests <= rl.limit
}

// RateLimit returns a middleware limiting each client IP to 60 requests
// per minute on the routes it wraps. Expects chi's RealIP to have run.
func RateLimit() func(http.Handler) http.Handler {
	rl := newRateLimiter(60, time.Minute)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.allow(r.RemoteAddr) {
				respond.Error(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
