package event

import "github.com/mohae/deepcopy"

// DefaultMaxMemory matches the multipart threshold net/http uses for ParseMultipartForm.
const DefaultMaxMemory = 32 << 20

type Option interface {
	Apply(o *Options)
}

type OptionFunc func(*Options)

func (f OptionFunc) Apply(o *Options) { f(o) }

type Options struct {
	// MaxMemory is the number of bytes of multipart file parts kept in memory;
	// the rest spills to temporary files.
	MaxMemory int64
	// MaxBodyBytes limits the request payload. Zero disables the limit.
	MaxBodyBytes int64
}

var defaultOptions = &Options{
	MaxMemory:    DefaultMaxMemory,
	MaxBodyBytes: 0,
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

func WithMaxMemory(n int64) Option {
	return OptionFunc(func(o *Options) {
		if n > 0 {
			o.MaxMemory = n
		}
	})
}

func WithMaxBodyBytes(n int64) Option {
	return OptionFunc(func(o *Options) {
		o.MaxBodyBytes = n
	})
}
