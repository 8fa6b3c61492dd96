package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// drainTimeout bounds how long in-flight code hook calls get to finish once
// the serve context is done.
const drainTimeout = 30 * time.Second

// ListenAndServe serves until ctx is done, then drains in-flight requests.
// It returns nil after a clean stop, whether triggered by ctx or Shutdown.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Server.Host, fmt.Sprint(s.cfg.Server.Port))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	s.srv, s.listener = srv, ln
	s.mu.Unlock()

	served := make(chan error, 1)
	go func() {
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		served <- err
	}()

	s.log.Info("listening", zap.String("addr", ln.Addr().String()))
	close(s.ready)

	select {
	case err := <-served:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("draining connections", zap.Duration("timeout", drainTimeout))

	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	if err := srv.Shutdown(drainCtx); err != nil {
		s.log.Error("shutdown failed", zap.Error(err))
		return err
	}
	<-served

	s.log.Info("stopped")
	return nil
}

// Shutdown stops a running server, waiting for in-flight requests until ctx
// is done. It does nothing before ListenAndServe.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.srv
	s.mu.RUnlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Addr is the bound listen address, or "" before ListenAndServe.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
