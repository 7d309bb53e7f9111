package reqresp

import "github.com/mohae/deepcopy"

type Option interface {
	Apply(o *Options)
}

type OptionFunc func(*Options)

func (f OptionFunc) Apply(o *Options) { f(o) }

type Options struct {
	DebugMode bool
	// StripPrefix is removed from the event path before it reaches the
	// function, e.g. the base path of a custom domain mapping.
	StripPrefix string
}

var defaultOptions = &Options{
	DebugMode:   false,
	StripPrefix: "",
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

// -------------- ReqResp Options ----------------

func WithDebugMode(debug bool) Option {
	return OptionFunc(func(o *Options) {
		o.DebugMode = debug
	})
}

func WithStripPrefix(prefix string) Option {
	return OptionFunc(func(o *Options) {
		o.StripPrefix = prefix
	})
}
