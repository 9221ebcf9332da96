package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/config"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/db"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/fieldmap"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/rendering"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/scheduler"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/server/middleware"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/server/ratelimit"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/server/ws"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/session"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/tracker"
)

// maxBodyBytes caps request bodies, including imported documents.
const maxBodyBytes = 1 << 20

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	sessions    *session.Manager
	tokens      *TokenService
	generator   *rendering.Generator
	rateLimiter *ratelimit.Limiter
	hub         *ws.Hub
	validator   *validator.Validate
	scheduler   *scheduler.Scheduler
	db          *db.DB
	redis       *redis.Client
	now         func() time.Time
}

// Config holds server configuration
type Config struct {
	Port         int
	DatabaseURL  string // optional; enables the Postgres application store
	RedisURL     string // optional; enables Redis session snapshots
	SnapshotTTL  time.Duration
	TemplatePath string
	Answers      fieldmap.Answers
	Session      *config.SessionConfig
}

// New creates a server, connecting to Postgres and Redis when configured.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if cfg.Session == nil {
		return nil, fmt.Errorf("session config is required")
	}

	generator := rendering.NewGenerator(cfg.Answers)
	if cfg.TemplatePath != "" {
		g, err := rendering.NewGeneratorFromFile(cfg.TemplatePath, cfg.Answers)
		if err != nil {
			return nil, fmt.Errorf("failed to load script template: %w", err)
		}
		generator = g
	}

	hub := ws.NewHub()
	opts := session.Options{
		IdleTimeout: cfg.Session.IdleTimeout,
		Notifiers:   hub.Notifier,
	}

	var database *db.DB
	if cfg.DatabaseURL != "" {
		d, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := d.EnsureSchema(ctx); err != nil {
			d.Close()
			return nil, fmt.Errorf("failed to prepare database schema: %w", err)
		}
		database = d
		opts.Stores = func(id uuid.UUID) tracker.Store { return database.Applications(id) }
		log.Printf("[server] application history stored in Postgres")
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		c, err := session.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			if database != nil {
				database.Close()
			}
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		redisClient = c
		opts.Snapshots = session.NewRedisSnapshotStore(c, cfg.SnapshotTTL)
		log.Printf("[server] session snapshots stored in Redis")
	}

	manager := session.NewManager(opts)
	s := newServer(manager, hub, NewTokenService(cfg.Session), generator, ratelimit.NewLimiter(ratelimit.LoadConfig()))
	s.db = database
	s.redis = redisClient
	s.scheduler = scheduler.New(manager, cfg.Session.SweepSpec)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// newServer wires handlers around already-built dependencies.
func newServer(sessions *session.Manager, hub *ws.Hub, tokens *TokenService, generator *rendering.Generator, limiter *ratelimit.Limiter) *Server {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	s := &Server{
		sessions:    sessions,
		tokens:      tokens,
		generator:   generator,
		rateLimiter: limiter,
		hub:         hub,
		validator:   validate,
		now:         time.Now,
	}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	auth := middleware.SessionMiddleware(s.tokens.AsTokenValidator())
	authed := func(h http.HandlerFunc) http.Handler { return auth(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /platforms", s.handleListPlatforms)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)

	// Sessions
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.Handle("DELETE /session", authed(s.handleDeleteSession))
	mux.Handle("GET /session/events", authed(s.handleSessionEvents))

	// Profile
	mux.Handle("GET /profile", authed(s.handleGetProfile))
	mux.Handle("PUT /profile", authed(s.handleUpdateProfile))
	mux.Handle("POST /profile/reset", authed(s.handleResetProfile))
	mux.Handle("POST /profile/import", authed(s.handleImportProfile))
	mux.Handle("GET /profile/export", authed(s.handleExportProfile))

	// Scripts
	mux.Handle("POST /script", authed(s.handleGenerateScript))

	// Applications
	mux.Handle("GET /applications", authed(s.handleListApplications))
	mux.Handle("POST /applications", authed(s.handleAddApplication))
	mux.Handle("DELETE /applications", authed(s.handleClearApplications))
	mux.Handle("PATCH /applications/{index}/status", authed(s.handleUpdateApplicationStatus))
	mux.Handle("GET /applications/summary", authed(s.handleApplicationSummary))
	mux.Handle("GET /applications/export", authed(s.handleExportApplications))
	mux.Handle("POST /applications/import", authed(s.handleImportApplications))

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go s.hub.Run(ctx)
	if err := s.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start session sweeper: %w", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[server] starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[server] error: %v", err)
		}
	}()

	<-stop
	log.Println("[server] shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.scheduler.Stop()
	s.rateLimiter.Stop()
	cancel()

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Printf("[server] redis close: %v", err)
		}
	}
	if s.db != nil {
		s.db.Close()
	}
	log.Println("[server] stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	}
	if s.db != nil {
		body["database"] = "ok"
		if err := s.db.Ping(r.Context()); err != nil {
			log.Printf("[health] database ping failed: %v", err)
			body["database"] = "unreachable"
		}
	}
	s.jsonResponse(w, http.StatusOK, body)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[server] error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// failure maps err to a status code and writes it. Server errors are logged
// and not echoed to the client.
func (s *Server) failure(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[server] internal error: %v", err)
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// attachment writes a downloadable JSON document.
func (s *Server) attachment(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("[server] error writing attachment: %v", err)
	}
}

// decodeJSON decodes and validates a request body.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := s.validator.Struct(dst); err != nil {
		return validationMessage(err)
	}
	return nil
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; proxies are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
