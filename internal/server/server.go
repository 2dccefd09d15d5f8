package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"squido/internal/app"
	"squido/internal/metrics"
	"squido/internal/ratelimit"
	"squido/internal/util"
	"squido/pkg/domain"
)

const sessionHeader = "X-Session-Id"

// Config wires required dependencies for the HTTP server.
type Config struct {
	App *app.App

	RedisAddr     string
	RedisPassword string

	LoginRateLimitPerMinute    int
	RegisterRateLimitPerMinute int

	TrustedProxies []string
	MaxUploadBytes int64
}

// Server exposes the bookstore HTTP API.
type Server struct {
	app             *app.App
	mux             *http.ServeMux
	loginLimiter    *ratelimit.FixedWindowLimiter
	registerLimiter *ratelimit.FixedWindowLimiter
	trustedProxies  *util.TrustedProxies
	maxUploadBytes  int64
}

// New constructs the server with routes configured.
func New(cfg Config) (*Server, error) {
	loginLimit := cfg.LoginRateLimitPerMinute
	if loginLimit <= 0 {
		loginLimit = 10
	}
	registerLimit := cfg.RegisterRateLimitPerMinute
	if registerLimit <= 0 {
		registerLimit = 5
	}
	newLimiter := func(name string, limit int) (*ratelimit.FixedWindowLimiter, error) {
		prefix := "squido:ratelimit:" + name
		limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, prefix, limit, time.Minute)
		if err != nil {
			return nil, fmt.Errorf("init %s limiter: %w", name, err)
		}
		return limiter, nil
	}
	loginLimiter, err := newLimiter("login", loginLimit)
	if err != nil {
		return nil, err
	}
	registerLimiter, err := newLimiter("register", registerLimit)
	if err != nil {
		return nil, err
	}
	trusted, err := util.NewTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("parse trusted proxies: %w", err)
	}
	maxUploadBytes := cfg.MaxUploadBytes
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 * 1024 * 1024
	}
	s := &Server{
		app:             cfg.App,
		mux:             http.NewServeMux(),
		loginLimiter:    loginLimiter,
		registerLimiter: registerLimiter,
		trustedProxies:  trusted,
		maxUploadBytes:  maxUploadBytes,
	}
	s.routes()
	return s, nil
}

// Router returns the configured handler wrapped in the middleware chain.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog(util.WithSecurityHeaders(util.WithCORS(withMetrics(s.mux)))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.Handle("/metrics", promhttp.Handler())

	// auth
	s.mux.HandleFunc("/api/auth/login", s.handleLogin)
	s.mux.HandleFunc("/api/auth/register", s.handleRegister)
	s.mux.HandleFunc("/api/auth/refresh", s.handleRefresh)
	s.mux.HandleFunc("/api/auth/logout", s.handleLogout)
	s.mux.Handle("/api/auth/me", s.authenticated(s.handleMe))

	// catalog
	s.mux.HandleFunc("/api/books", s.handleBooks)
	s.mux.HandleFunc("/api/books/", s.handleBookByID)
	s.mux.HandleFunc("/api/categories", s.handleCategories)
	s.mux.HandleFunc("/api/categories/", s.handleCategoryByID)
	s.mux.HandleFunc("/api/authors", s.handleAuthors)
	s.mux.HandleFunc("/api/authors/", s.handleAuthorByID)

	// storefront cart & checkout
	s.mux.HandleFunc("/api/cart", s.handleCart)
	s.mux.HandleFunc("/api/cart/items", s.handleCartItems)
	s.mux.HandleFunc("/api/cart/items/", s.handleCartItemByID)
	s.mux.HandleFunc("/api/checkout", s.handleCheckout)

	// back office
	s.mux.Handle("/api/users", s.adminOnly(s.handleUsers))
	s.mux.Handle("/api/users/", s.adminOnly(s.handleUserByID))
	s.mux.Handle("/api/orders", s.staffOnly(s.handleOrders))
	s.mux.Handle("/api/orders/", s.staffOnly(s.handleOrderByID))
	s.mux.Handle("/api/stats", s.staffOnly(s.handleStats))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type authHandler func(http.ResponseWriter, *http.Request, domain.User)

func (s *Server) authorize(r *http.Request) (domain.User, bool) {
	token, ok := bearerToken(r)
	if !ok {
		return domain.User{}, false
	}
	return s.app.UserFromToken(token)
}

func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.authorize(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r, user)
	})
}

// staffOnly admits admin and staff users.
func (s *Server) staffOnly(next authHandler) http.Handler {
	return s.authenticated(func(w http.ResponseWriter, r *http.Request, user domain.User) {
		if user.Role != domain.RoleAdmin && user.Role != domain.RoleStaff {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		next(w, r, user)
	})
}

func (s *Server) adminOnly(next authHandler) http.Handler {
	return s.authenticated(func(w http.ResponseWriter, r *http.Request, user domain.User) {
		if user.Role != domain.RoleAdmin {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		next(w, r, user)
	})
}

// requireStaff is the inline variant for handlers that branch per method.
func (s *Server) requireStaff(w http.ResponseWriter, r *http.Request) bool {
	user, ok := s.authorize(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return false
	}
	if user.Role != domain.RoleAdmin && user.Role != domain.RoleStaff {
		writeError(w, http.StatusForbidden, "forbidden")
		return false
	}
	return true
}

func (s *Server) allowRate(w http.ResponseWriter, r *http.Request, limiter *ratelimit.FixedWindowLimiter, msg string) bool {
	key := r.URL.Path + "|" + util.ClientIP(r, s.trustedProxies)
	if limiter.Allow(key) {
		return true
	}
	w.Header().Set("Retry-After", "60")
	writeError(w, http.StatusTooManyRequests, msg)
	return false
}

// sessionID reads the cart session header. Carts are anonymous; the caller
// mints and keeps the id.
func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.Header.Get(sessionHeader))
	if id == "" || len(id) > 128 {
		writeError(w, http.StatusBadRequest, "missing or invalid "+sessionHeader+" header")
		return "", false
	}
	return id, true
}

type metricsRecorder struct {
	http.ResponseWriter
	status int
}

func (m *metricsRecorder) WriteHeader(statusCode int) {
	m.status = statusCode
	m.ResponseWriter.WriteHeader(statusCode)
}

// withMetrics records request counts and latency. Paths are collapsed to
// their first two segments to keep label cardinality bounded.
func withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &metricsRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		route := metricsRoute(r.URL.Path)
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func metricsRoute(path string) string {
	parts := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 3)
	switch len(parts) {
	case 0:
		return "/"
	case 1:
		return "/" + parts[0]
	default:
		return "/" + parts[0] + "/" + parts[1]
	}
}
