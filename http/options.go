package http

import (
	"github.com/aura-studio/function/event"
	"github.com/aura-studio/function/handler"
	"github.com/mohae/deepcopy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

type Option interface {
	Apply(o *Options)
}

type HttpOption func(*Options)

func (f HttpOption) Apply(o *Options) { f(o) }

type Options struct {
	// Http Options
	Address         string
	DebugMode       bool
	CorsMode        bool
	StaticLinkMap   map[string]string
	PrefixLinkMap   map[string]string
	HeaderLinkMap   map[string]string
	HealthCheckPath string
	MetricsPath     string

	// Event Options
	MaxMemory    int64
	MaxBodyBytes int64

	// Runtime
	Handler  handler.Handler
	Lookup   event.LookupFunc
	Logger   *logrus.Logger
	Registry *prometheus.Registry
}

var defaultOptions = &Options{
	Address:         ":8080",
	DebugMode:       false,
	CorsMode:        false,
	StaticLinkMap:   map[string]string{},
	PrefixLinkMap:   map[string]string{},
	HeaderLinkMap:   map[string]string{},
	HealthCheckPath: "",
	MetricsPath:     "",
	MaxMemory:       event.DefaultMaxMemory,
	MaxBodyBytes:    0,
}

func NewOptions(opts ...Option) *Options {
	options := deepcopy.Copy(defaultOptions).(*Options)
	options.init(opts...)
	return options
}

func (o *Options) init(opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt.Apply(o)
		}
	}
}

// -------------- Http Options ----------------
func WithAddress(addr string) Option {
	return HttpOption(func(o *Options) {
		o.Address = addr
	})
}

func WithDebugMode() Option {
	return HttpOption(func(o *Options) {
		o.DebugMode = true
	})
}

func WithCorsMode() Option {
	return HttpOption(func(o *Options) {
		o.CorsMode = true
	})
}

func WithStaticLink(srcPath, dstPath string) Option {
	return HttpOption(func(o *Options) {
		o.StaticLinkMap[srcPath] = dstPath
	})
}

func WithPrefixLink(srcPrefix string, dstPrefix string) Option {
	return HttpOption(func(o *Options) {
		o.PrefixLinkMap[srcPrefix] = dstPrefix
	})
}

func WithHeaderLinkKey(key string, prefix string) Option {
	return HttpOption(func(o *Options) {
		o.HeaderLinkMap[key] = prefix
	})
}

// WithHealthCheckPath answers path with a plain OK instead of calling the
// function. Off by default so every path reaches the handler.
func WithHealthCheckPath(path string) Option {
	return HttpOption(func(o *Options) {
		o.HealthCheckPath = path
	})
}

// WithMetricsPath serves Prometheus metrics on path. Off by default.
func WithMetricsPath(path string) Option {
	return HttpOption(func(o *Options) {
		o.MetricsPath = path
	})
}

// -------------- Event Options ----------------
func WithMaxMemory(n int64) Option {
	return HttpOption(func(o *Options) {
		o.MaxMemory = n
	})
}

func WithMaxBodyBytes(n int64) Option {
	return HttpOption(func(o *Options) {
		o.MaxBodyBytes = n
	})
}

// -------------- Runtime Options ----------------

// WithHandler sets the function. Without it the engine calls the function
// package configured in the dynamic options.
func WithHandler(h handler.Handler) Option {
	return HttpOption(func(o *Options) {
		o.Handler = h
	})
}

func WithHandlerFunc(f handler.HandlerFunc) Option {
	return WithHandler(f)
}

// WithLookup replaces the environment lookup used to build each Context.
func WithLookup(lookup event.LookupFunc) Option {
	return HttpOption(func(o *Options) {
		o.Lookup = lookup
	})
}

func WithLogger(logger *logrus.Logger) Option {
	return HttpOption(func(o *Options) {
		o.Logger = logger
	})
}

// WithRegistry sets the registry metrics are registered in and served from.
func WithRegistry(reg *prometheus.Registry) Option {
	return HttpOption(func(o *Options) {
		o.Registry = reg
	})
}
