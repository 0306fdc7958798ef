package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultShutdownTimeout = time.Second * 5

type Server struct {
	listener        net.Listener
	svr             *http.Server
	shutdownTimeout time.Duration
	readySignal     func()
}

type Option func(*Server) error

func New(addr string, opts ...Option) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &Server{
		listener:        listener,
		svr:             &http.Server{},
		shutdownTimeout: DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		if optErr := opt(s); optErr != nil {
			return nil, optErr
		}
	}
	return s, nil
}

func WithHandler(handler http.Handler) Option {
	return func(s *Server) error {
		s.svr.Handler = handler
		return nil
	}
}

func WithReadTimeout(timeout time.Duration) Option {
	return func(s *Server) error {
		s.svr.ReadTimeout = timeout
		return nil
	}
}

func WithWriteTimeout(timeout time.Duration) Option {
	return func(s *Server) error {
		s.svr.WriteTimeout = timeout
		return nil
	}
}

func WithShutdownTimeout(timeout time.Duration) Option {
	return func(s *Server) error {
		s.shutdownTimeout = timeout
		return nil
	}
}

// WithReadySignal configures a callback that is invoked
// just before the server starts accepting connections.
// Useful in tests to know when the listening port is ready
func WithReadySignal(signal func()) Option {
	return func(s *Server) error {
		s.readySignal = signal
		return nil
	}
}

// ListenAndServe serves http requests until the provided context is canceled,
// in which case the server is shut down gracefully,
// giving the remaining connections the configured timeout to finish
func (s *Server) ListenAndServe(ctx context.Context) error {
	failure := make(chan error, 1)

	go func() {
		log.Info().Stringer("addr", s.listener.Addr()).Msg("Starting HTTP server")
		if err := s.svr.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failure <- err
		}
	}()

	if s.readySignal != nil {
		s.readySignal()
	}

	select {
	case err := <-failure:
		log.Error().Err(err).Msg("HTTP server failed to serve")
		return err
	case <-ctx.Done():
		return s.Stop()
	}
}

// Stop attempts to shut down the server gracefully
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	log.Info().Stringer("addr", s.listener.Addr()).Msg("Stopping HTTP server")
	if err := s.svr.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAddr returns the address the server is listening on
func (s *Server) ListenAddr() net.Addr {
	return s.listener.Addr()
}
