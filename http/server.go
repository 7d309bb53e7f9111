package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aura-studio/function/event"
	atom "go.uber.org/atomic"
)

// srv is stored by Serve and read by Close from another goroutine.
var srv atom.Pointer[http.Server]

// Serve listens on the configured address until Close is called. It fails
// fast when the instance identity is missing from the environment.
func Serve(opts ...ServeOption) error {
	e := NewEngine(opts...)
	if _, err := event.NewContext(e.Lookup, ""); err != nil {
		return err
	}

	s := &http.Server{
		Addr:    e.Address,
		Handler: e.Engine,
	}
	srv.Store(s)

	e.logger.WithField("address", e.Address).Info("[http] serving")
	if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s := srv.Load()
	if s == nil {
		return nil
	}
	if err := s.Shutdown(ctx); err != nil {
		return err
	}
	return nil
}
