package httpx

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"

	"cantina/internal/common/logger"
)

// RequestLogger logs one http_request entry per request, tagged with chi's request id.
func RequestLogger(lg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			lg.With(middleware.GetReqID(r.Context())).Info("http_request", map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
				"remote_ip":   clientIP(r),
			})
		})
	}
}

// ---------- Rate limiter per-IP ----------

type ipLimiter struct {
	limiter *rate.Limiter
	last    time.Time
}

type RateLimiter struct {
	rps   rate.Limit
	burst int

	mu  sync.Mutex
	ips map[string]*ipLimiter
	now func() time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{rps: rate.Limit(rps), burst: burst, ips: make(map[string]*ipLimiter), now: time.Now}
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	l, ok := rl.ips[ip]
	if !ok {
		l = &ipLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.ips[ip] = l
	}
	l.last = rl.now()
	rl.mu.Unlock()
	return l.limiter.Allow()
}

// Sweep forgets clients idle for longer than idle and returns how many were dropped.
func (rl *RateLimiter) Sweep(idle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	n := 0
	cutoff := rl.now().Add(-idle)
	for ip, l := range rl.ips {
		if l.last.Before(cutoff) {
			delete(rl.ips, ip)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (rl *RateLimiter) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			rl.Sweep(idle)
		}
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", "1")
			WriteProblem(w, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ---------- Admin JWT auth (HMAC) ----------

type adminKey struct{}

// AdminFromContext returns the identity (email or role) of the authenticated admin.
func AdminFromContext(ctx context.Context) string {
	v, _ := ctx.Value(adminKey{}).(string)
	return v
}

// WithAdmin stores an admin identity, used by AdminAuth and by tests.
func WithAdmin(ctx context.Context, who string) context.Context {
	return context.WithValue(ctx, adminKey{}, who)
}

// AdminAuth accepts HS256 bearer tokens whose role is service_role or whose
// email is on the allow list.
func AdminAuth(secret string, emails []string) func(http.Handler) http.Handler {
	key := []byte(secret)
	allowed := make(map[string]bool, len(emails))
	for _, e := range emails {
		allowed[strings.ToLower(strings.TrimSpace(e))] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			parts := strings.Fields(r.Header.Get("Authorization"))
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				WriteProblem(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return key, nil
			})
			if err != nil || !token.Valid {
				WriteProblem(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}

			role, _ := claims["role"].(string)
			email, _ := claims["email"].(string)
			email = strings.ToLower(email)
			var who string
			switch {
			case role == "service_role":
				who = role
			case email != "" && allowed[email]:
				who = email
			default:
				WriteProblem(w, http.StatusForbidden, "forbidden", "admin access required")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAdmin(r.Context(), who)))
		})
	}
}
