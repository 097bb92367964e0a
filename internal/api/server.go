package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/jra-analyzer/internal/logger"
	"github.com/yourusername/jra-analyzer/internal/metrics"
	"github.com/yourusername/jra-analyzer/internal/service"
)

const dateLayout = "2006-01-02"

// Analyzer computes the analysis of one race for a reference date
type Analyzer interface {
	Analyze(ctx context.Context, raceID string, asOf time.Time) (*service.Result, error)
}

// HealthChecker reports whether the backing database is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Options configures the HTTP surface
type Options struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	CacheTTL       time.Duration
	MetricsEnabled bool
	MetricsPath    string
	Location       *time.Location
}

// Server wires the analysis service to HTTP
type Server struct {
	analyzer Analyzer
	health   HealthChecker
	opts     Options
	cache    *responseCache
	limiter  *rate.Limiter
	access   *logger.AccessLogger
	log      *logrus.Logger
	now      func() time.Time
}

// NewServer creates a server. A nil analyzer answers analysis requests
// with 503; a nil health checker reports the database as not configured.
func NewServer(analyzer Analyzer, health HealthChecker, opts Options, log *logrus.Logger) *Server {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	var limiter *rate.Limiter
	if opts.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), opts.RateLimitBurst)
	}
	return &Server{
		analyzer: analyzer,
		health:   health,
		opts:     opts,
		cache:    newResponseCache(opts.CacheTTL),
		limiter:  limiter,
		access:   logger.NewAccessLogger(log),
		log:      log,
		now:      time.Now,
	}
}

// Router builds the chi router with the middleware chain and routes
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(accessLog(s.access))
	r.Use(chimiddleware.Recoverer)
	if s.opts.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(s.opts.RequestTimeout))
	}

	origins := s.opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Cache"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	if s.opts.MetricsEnabled {
		path := s.opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimit(s.limiter))
		r.Get("/races/{raceId}/analysis", s.handleRaceAnalysis)
	})

	return r
}
