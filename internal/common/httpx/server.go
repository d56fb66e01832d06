package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"cantina/internal/config"
)

type Server struct{ *http.Server }

func New(addr string, h http.Handler) *Server { return &Server{Server: &http.Server{Addr: addr, Handler: h}} }

func NewFromConfig(cfg config.ServerConfig, h http.Handler) *Server {
	s := New(":"+strconv.Itoa(cfg.Port), h)
	s.ReadTimeout = cfg.ReadTimeout
	s.WriteTimeout = cfg.WriteTimeout
	s.IdleTimeout = cfg.IdleTimeout
	return s
}

// Run serves until ctx is cancelled, then shuts down with a 5s grace period.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.ListenAndServe() }()
	select {
	case <-ctx.Done():
		ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(ctx2)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
