// Package server boots the function: it loads .env, merges YAML config with
// FUNCTION_* environment overrides and serves in http or lambda mode.
package server

import (
	"github.com/sirupsen/logrus"

	fnhttp "github.com/aura-studio/function/http"
	"github.com/aura-studio/function/reqresp"
)

// httpOptions returns the HTTP engine options with the server level settings
// applied last.
func (o *Options) httpOptions() []fnhttp.ServeOption {
	opts := append([]fnhttp.ServeOption(nil), o.HTTP...)
	if o.Address != "" {
		opts = append(opts, fnhttp.WithAddress(o.Address))
	}
	if o.Debug {
		opts = append(opts, fnhttp.WithDebugMode())
	}
	return opts
}

func (o *Options) reqrespOptions() []reqresp.Option {
	opts := append([]reqresp.Option(nil), o.ReqResp...)
	if o.Debug {
		opts = append(opts, reqresp.WithDebugMode(true))
	}
	return opts
}

func Serve(opts ...Option) error {
	if err := LoadEnv(); err != nil {
		return err
	}

	options, err := NewOptions(opts...)
	if err != nil {
		return err
	}

	logrus.WithField("mode", options.Mode).Info("[server] starting")

	switch options.Mode {
	case ModeLambda:
		return reqresp.Serve(options.reqrespOptions(), options.httpOptions()...)
	default:
		return fnhttp.Serve(options.httpOptions()...)
	}
}

func Close() error {
	if err := fnhttp.Close(); err != nil {
		return err
	}
	reqresp.Close()
	return nil
}
