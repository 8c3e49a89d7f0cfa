package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/blockedby/interview-list/internal/models"
)

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.AuthUser, error)
}

// StatusCoder is implemented by errors that know their HTTP status and code.
type StatusCoder interface {
	error
	HTTPStatus() int
	ErrorCode() string
}

type ctxKey struct{}

// UserFrom returns the authenticated user stored by RequireAuth.
func UserFrom(ctx context.Context) (*models.AuthUser, bool) {
	u, ok := ctx.Value(ctxKey{}).(*models.AuthUser)
	return u, ok
}

// WithUser stores u in ctx.
func WithUser(ctx context.Context, u *models.AuthUser) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// BearerToken extracts the token from the Authorization header, or from the
// token query parameter for websocket handshakes.
func BearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return r.URL.Query().Get("token")
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.Authenticate(r.Context(), BearerToken(r))
			if err != nil {
				status, code := http.StatusUnauthorized, CodeUnauthenticated
				var sc StatusCoder
				if errors.As(err, &sc) {
					status, code = sc.HTTPStatus(), sc.ErrorCode()
				}
				WriteError(w, status, code, err.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireOwner allows a request only when the {param} URL segment is the
// authenticated user's id. Must run after RequireAuth.
func RequireOwner(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFrom(r.Context())
			if !ok {
				WriteError(w, http.StatusUnauthorized, CodeUnauthenticated, "not signed in")
				return
			}
			if chi.URLParam(r, param) != user.ID {
				WriteError(w, http.StatusForbidden, CodePermissionDenied, "path belongs to another user")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*visitor
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows rps requests per second per IP with the given burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		limiters: make(map[string]*visitor),
	}
}

// Allow reports whether a request from key may proceed now.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.limiters[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.limiters[key] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

// Cleanup forgets visitors idle for longer than idle.
func (l *RateLimiter) Cleanup(idle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, v := range l.limiters {
		if time.Since(v.lastSeen) > idle {
			delete(l.limiters, k)
		}
	}
}

// Middleware rejects requests over the limit with 429.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientIP(r)) {
			WriteError(w, http.StatusTooManyRequests, CodeTooManyRequests, "too many requests, try again later")
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
