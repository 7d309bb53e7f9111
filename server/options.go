package server

import (
	fnhttp "github.com/aura-studio/function/http"
	"github.com/aura-studio/function/reqresp"
)

const (
	ModeHTTP   = "http"
	ModeLambda = "lambda"
)

type Option interface {
	Apply(*Options)
}

type OptionFunc func(*Options)

func (f OptionFunc) Apply(o *Options) { f(o) }

type Options struct {
	Mode    string `validate:"required,oneof=http lambda"`
	Address string `validate:"omitempty,hostname_port"`
	Debug   bool

	HTTP    []fnhttp.ServeOption
	ReqResp []reqresp.Option
}

// WithMode selects the listener: ModeHTTP or ModeLambda.
func WithMode(mode string) Option {
	return OptionFunc(func(o *Options) {
		o.Mode = mode
	})
}

func WithAddress(addr string) Option {
	return OptionFunc(func(o *Options) {
		o.Address = addr
	})
}

func WithDebug(debug bool) Option {
	return OptionFunc(func(o *Options) {
		o.Debug = debug
	})
}

// WithHTTP appends options for the HTTP engine, which serves both modes.
func WithHTTP(opts ...fnhttp.ServeOption) Option {
	return OptionFunc(func(o *Options) {
		o.HTTP = append(o.HTTP, opts...)
	})
}

func WithReqResp(opts ...reqresp.Option) Option {
	return OptionFunc(func(o *Options) {
		o.ReqResp = append(o.ReqResp, opts...)
	})
}
