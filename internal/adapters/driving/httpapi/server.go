package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
	"github.com/custodia-labs/docchat/internal/metrics"
)

// DefaultShutdownTimeout bounds how long in-flight requests may run after shutdown starts.
const DefaultShutdownTimeout = 10 * time.Second

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

// Config configures the HTTP server.
type Config struct {
	// Port is the listen port. Zero picks a free port.
	Port int

	// StaticDir is served at / when it exists.
	StaticDir string

	// ChatRateLimit is the sustained chat requests per second. Zero disables limiting.
	ChatRateLimit float64

	// ChatBurst is the chat limiter burst size.
	ChatBurst int

	// ShutdownTimeout bounds graceful shutdown. Zero uses DefaultShutdownTimeout.
	ShutdownTimeout time.Duration
}

// Server serves the chat API.
type Server struct {
	cfg       Config
	chat      driving.ChatService
	retrieval driving.RetrievalService
	metrics   *metrics.Metrics
	limiter   *rate.Limiter

	mu       sync.Mutex
	port     int
	server   *http.Server
	listener net.Listener
	errChan  chan error
}

// New creates an HTTP server. The metrics parameter is optional; without it
// /metrics is not mounted.
func New(
	cfg Config,
	chat driving.ChatService,
	retrieval driving.RetrievalService,
	m *metrics.Metrics,
) *Server {
	s := &Server{
		cfg:       cfg,
		chat:      chat,
		retrieval: retrieval,
		metrics:   m,
		port:      cfg.Port,
		errChan:   make(chan error, 1),
	}
	if cfg.ChatRateLimit > 0 {
		burst := cfg.ChatBurst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.ChatRateLimit), burst)
	}
	return s
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /api/chat", s.rateLimit(http.HandlerFunc(s.handleChat)))
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	if dir := s.cfg.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			mux.Handle("GET /", http.FileServer(http.Dir(dir)))
		} else {
			logger.Debug("Static directory %q not found, not serving files", dir)
		}
	}

	return requestID(s.observe(cors(mux)))
}

// Start listens on the configured port and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	addr := fmt.Sprintf(":%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	// Store the actual port (important when port was 0)
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case s.errChan <- err:
			default:
			}
		}
	}()

	logger.Info("Server running on port %d", s.port)
	return nil
}

// Run starts the server and blocks until ctx is cancelled or serving fails,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case err := <-s.errChan:
		return fmt.Errorf("serve: %w", err)
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	logger.Info("Shutting down server")
	return s.Stop(shutdownCtx)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Port returns the port the server is listening on.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.Port())
}
