package server

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"

	"github.com/drewdunne/oscar/internal/config"
	"github.com/drewdunne/oscar/internal/logger"
	"github.com/drewdunne/oscar/internal/metrics"
	"github.com/drewdunne/oscar/internal/webhook"
	"go.uber.org/zap"
)

// HealthResponse represents the health check response structure.
type HealthResponse struct {
	Status string                 `json:"status"`
	Checks map[string]interface{} `json:"checks"`
}

// ProviderLister lists the configured hosting providers.
type ProviderLister interface {
	List() []string
}

// Server is the HTTP server for Oscar.
type Server struct {
	cfg       *config.Config
	mux       *http.ServeMux
	log       *zap.Logger
	providers ProviderLister
	dispatch  webhook.DispatchFunc

	mu       sync.RWMutex // guards srv and listener
	srv      *http.Server
	listener net.Listener
	ready    chan struct{} // closed once listener accepts connections
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithProviders reports providers in the health check.
func WithProviders(p ProviderLister) Option {
	return func(s *Server) {
		s.providers = p
	}
}

// New creates a new Server that hands code hook events to dispatch.
func New(cfg *config.Config, dispatch webhook.DispatchFunc, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		mux:      http.NewServeMux(),
		log:      zap.NewNop(),
		ready:    make(chan struct{}),
		dispatch: dispatch,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// Ready returns a channel that is closed when the server is ready to accept connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return logger.RequestLogger(s.mux)
}

// routes sets up the HTTP routes.
func (s *Server) routes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/metrics", s.handleMetrics)

	if s.dispatch != nil {
		s.mux.Handle("/lex", webhook.NewCodeHookHandler(s.cfg.CodeHook.Secret, s.dispatch, s.log))
	}
}

// handleHealth responds with server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	providers := []string{}
	if s.providers != nil {
		providers = s.providers.List()
	}

	status := "ok"
	if len(providers) == 0 || s.dispatch == nil {
		status = "degraded"
	}

	health := HealthResponse{
		Status: status,
		Checks: map[string]interface{}{
			"providers": providers,
			"codehook":  s.dispatch != nil,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

// handleMetrics responds with current operational metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	m := metrics.Get()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(m)
}
