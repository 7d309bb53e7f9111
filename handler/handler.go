// Package handler defines the contract between the runtime and the user
// function.
package handler

import (
	"fmt"

	"github.com/aura-studio/function/event"
	"github.com/aura-studio/function/response"
)

// Handler is the user function. It is called once per request with the
// request Event and its Context; returning a nil Response yields an empty 200.
type Handler interface {
	Handle(e *event.Event, c *event.Context) (response.Response, error)
}

// HandlerFunc adapts an ordinary function to Handler.
type HandlerFunc func(e *event.Event, c *event.Context) (response.Response, error)

func (f HandlerFunc) Handle(e *event.Event, c *event.Context) (response.Response, error) {
	return f(e, c)
}

// Safe calls h and turns a panic into an error.
func Safe(h Handler, e *event.Event, c *event.Context) (resp response.Response, err error) {
	defer func() {
		if v := recover(); v != nil {
			resp = nil
			err = fmt.Errorf("panic: %v", v)
		}
	}()

	return h.Handle(e, c)
}
