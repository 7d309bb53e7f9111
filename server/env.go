package server

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment overrides: FUNCTION_MODE,
// FUNCTION_ADDRESS and FUNCTION_DEBUG.
const EnvPrefix = "FUNCTION"

var ErrInvalidConfig = errors.New("server: invalid config")

// LoadEnv loads .env files into the process environment. Missing files are
// skipped; variables already set are kept.
func LoadEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("server: load %s: %w", name, err)
		}
	}
	return nil
}

// envOverrides applies FUNCTION_* variables on top of o.
func envOverrides(o *Options) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if mode := v.GetString("mode"); mode != "" {
		o.Mode = mode
	}
	if addr := v.GetString("address"); addr != "" {
		o.Address = addr
	}
	if v.GetString("debug") != "" {
		o.Debug = v.GetBool("debug")
	}
}

var validate = validator.New()

// NewOptions applies opts, then the environment overrides, and validates the
// result. Mode defaults to ModeHTTP.
func NewOptions(opts ...Option) (*Options, error) {
	o := &Options{Mode: ModeHTTP}
	for _, opt := range opts {
		if opt != nil {
			opt.Apply(o)
		}
	}
	envOverrides(o)

	if err := validate.Struct(o); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return o, nil
}
