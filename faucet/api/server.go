package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/pushchain/svm-faucet/faucet/requests"
)

const shutdownTimeout = 10 * time.Second

// Server provides the faucet HTTP endpoints
type Server struct {
	airdropper Airdropper
	logger     zerolog.Logger
	server     *http.Server

	mu       sync.Mutex
	listener net.Listener
}

// NewServer creates a new Server instance. CORS is enabled only when
// allowedOrigins is not empty.
func NewServer(airdropper Airdropper, logger zerolog.Logger, bind string, port int, allowedOrigins []string) *Server {
	s := &Server{
		airdropper: airdropper,
		logger:     logger.With().Str("component", "api").Logger(),
	}

	var handler http.Handler = s.setupRoutes()
	if len(allowedOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         3600,
		}).Handler(handler)
	}

	s.server = &http.Server{
		Addr:              net.JoinHostPort(bind, strconv.Itoa(port)),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Start binds the listen address and serves in the background
func (s *Server) Start() error {
	if s.server == nil {
		return fmt.Errorf("faucet server is nil")
	}

	// Channel to signal server startup result
	startupChan := make(chan error, 1)

	go func() {
		ln, err := net.Listen("tcp", s.server.Addr)
		if err != nil {
			startupChan <- fmt.Errorf("failed to bind to address %s: %w", s.server.Addr, err)
			return
		}

		s.mu.Lock()
		s.listener = ln
		s.mu.Unlock()

		s.logger.Info().Str("req_id", requests.DefaultID).Str("addr", ln.Addr().String()).Msg("faucet server listening")
		startupChan <- nil

		err = s.server.Serve(ln)
		switch err {
		case nil:
			s.logger.Info().Msg("Faucet server stopped normally")
		case http.ErrServerClosed:
			s.logger.Info().Msg("Faucet server closed gracefully")
		default:
			s.logger.Error().Err(err).Msg("Faucet server error")
		}
	}()

	// Wait for startup result with timeout
	select {
	case err := <-startupChan:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("server startup timeout")
	}
}

// Addr returns the bound address once Start succeeded
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts down the HTTP server, waiting for in-flight airdrops
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}
