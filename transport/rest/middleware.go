package rest

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/rocketscienceinc/jeopardy-backend/internal/pkg"
)

const (
	sessionCookieName = "session_id"
	sessionCookieAge  = 24 * time.Hour
	requestIDHeader   = "X-Request-Id"
)

type contextKey string

const (
	sessionIDKey contextKey = "session_id"
	requestIDKey contextKey = "request_id"
)

func sessionIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// session - reuses the session cookie or issues a new one.
func (that *Server) session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID string
		if cookie, err := r.Cookie(sessionCookieName); err == nil && pkg.IsValidSessionID(cookie.Value) {
			sessionID = cookie.Value
		} else {
			sessionID = pkg.GenerateNewSessionID()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    sessionID,
				Path:     "/",
				Expires:  time.Now().Add(sessionCookieAge),
				HttpOnly: true,
				SameSite: http.SameSiteStrictMode,
			})
			that.logger.Debug("created new session", "session_id", sessionID)
		}

		ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (that *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" {
			reqID = pkg.GenerateRequestID()
		}

		w.Header().Set(requestIDHeader, reqID)

		ctx := context.WithValue(r.Context(), requestIDKey, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// rateLimit - per client IP. Starting a game costs one remote fetch per category.
func (that *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)
		if !that.limiters.get(key).Allow() {
			that.logger.Warn("rate limit exceeded", "client", key, "request_id", requestIDFrom(r.Context()))
			that.writeError(w, http.StatusTooManyRequests, "too many requests, please slow down")
			return
		}

		next.ServeHTTP(w, r)
	})
}

type limiterStore struct {
	mu       sync.Mutex
	rps      rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

func newLimiterStore(rps float64, burst int) *limiterStore {
	return &limiterStore{
		rps:      rate.Limit(rps),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (that *limiterStore) get(key string) *rate.Limiter {
	that.mu.Lock()
	defer that.mu.Unlock()

	if lim, ok := that.limiters[key]; ok {
		return lim
	}

	lim := rate.NewLimiter(that.rps, that.burst)
	that.limiters[key] = lim

	return lim
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
