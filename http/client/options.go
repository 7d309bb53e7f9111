package client

import (
	"net/http"
	"time"

	"github.com/mohae/deepcopy"
)

// HTTPClient is the transport used by Client. *http.Client satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Options struct {
	HTTPClient     HTTPClient
	BaseURL        string
	DefaultTimeout time.Duration
	Headers        map[string]string
}

type Option interface {
	Apply(o *Options)
}

type OptionFunc func(*Options)

func (f OptionFunc) Apply(o *Options) { f(o) }

var defaultOptions = &Options{
	DefaultTimeout: 30 * time.Second,
	Headers:        map[string]string{},
}

func NewOptions(opts ...Option) *Options {
	o := deepcopy.Copy(defaultOptions).(*Options)
	o.HTTPClient = http.DefaultClient
	for _, opt := range opts {
		if opt != nil {
			opt.Apply(o)
		}
	}
	return o
}

func WithHTTPClient(client HTTPClient) Option {
	return OptionFunc(func(o *Options) {
		o.HTTPClient = client
	})
}

// WithBaseURL sets the address of the deployed function, e.g. http://127.0.0.1:8080.
func WithBaseURL(url string) Option {
	return OptionFunc(func(o *Options) {
		o.BaseURL = url
	})
}

// WithDefaultTimeout bounds requests whose context has no deadline.
func WithDefaultTimeout(timeout time.Duration) Option {
	return OptionFunc(func(o *Options) {
		o.DefaultTimeout = timeout
	})
}

func WithHeaders(headers map[string]string) Option {
	return OptionFunc(func(o *Options) {
		o.Headers = headers
	})
}

func WithHeader(key, value string) Option {
	return OptionFunc(func(o *Options) {
		if o.Headers == nil {
			o.Headers = map[string]string{}
		}
		o.Headers[key] = value
	})
}
