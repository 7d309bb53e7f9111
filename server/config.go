package server

import (
	"fmt"
	"os"

	"github.com/aura-studio/function/dynamic"
	fnhttp "github.com/aura-studio/function/http"
	"github.com/aura-studio/function/internal/configfile"
	"github.com/aura-studio/function/reqresp"
	yaml "gopkg.in/yaml.v2"
)

type yamlServerConfig struct {
	Mode    string `yaml:"mode"`
	HTTP    any    `yaml:"http"`
	ReqResp any    `yaml:"reqresp"`
	Dynamic any    `yaml:"dynamic"`
}

// section re-encodes one top-level section so the owning package can parse it
// with its own loader.
func section(name string, v any) ([]byte, error) {
	return yaml.Marshal(map[string]any{name: v})
}

// WithServeConfig parses YAML bytes following server.yaml structure: `mode`
// plus the `http`, `reqresp` and `dynamic` sections of the other packages.
// It panics if the YAML is invalid.
func WithServeConfig(yamlBytes []byte) Option {
	var cfg yamlServerConfig
	if err := yaml.Unmarshal(yamlBytes, &cfg); err != nil {
		panic(fmt.Errorf("server.WithServeConfig: %w", err))
	}

	var httpOpts []fnhttp.ServeOption
	if cfg.HTTP != nil {
		b, err := section("http", cfg.HTTP)
		if err != nil {
			panic(fmt.Errorf("server.WithServeConfig: %w", err))
		}
		httpOpts = append(httpOpts, fnhttp.WithConfig(b))
	}
	if cfg.Dynamic != nil {
		b, err := yaml.Marshal(cfg.Dynamic)
		if err != nil {
			panic(fmt.Errorf("server.WithServeConfig: %w", err))
		}
		httpOpts = append(httpOpts, dynamic.WithConfig(b))
	}

	var reqrespOpts []reqresp.Option
	if cfg.ReqResp != nil {
		b, err := section("reqresp", cfg.ReqResp)
		if err != nil {
			panic(fmt.Errorf("server.WithServeConfig: %w", err))
		}
		reqrespOpts = append(reqrespOpts, reqresp.WithConfig(b))
	}

	return OptionFunc(func(o *Options) {
		if cfg.Mode != "" {
			o.Mode = cfg.Mode
		}
		o.HTTP = append(o.HTTP, httpOpts...)
		o.ReqResp = append(o.ReqResp, reqrespOpts...)
	})
}

// WithServeConfigFile loads a YAML file and applies it as an Option.
func WithServeConfigFile(path string) Option {
	b, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Errorf("server.WithServeConfigFile(%s): %w", path, err))
	}
	return WithServeConfig(b)
}

// DefaultServeConfigCandidates returns relative paths that will be checked (in order)
// when searching for a default server config.
func DefaultServeConfigCandidates() []string {
	return []string{
		"function.yaml",
		"function.yml",
		"server.yaml",
		"server.yml",
		"config.yaml",
		"config.yml",
	}
}

func FindDefaultServeConfigFile() (string, error) {
	p, err := configfile.Find(DefaultServeConfigCandidates()...)
	if err != nil {
		return "", fmt.Errorf("server: %w", err)
	}
	return p, nil
}

// WithDefaultServeConfigFile finds and loads the default server config file.
// It panics if the file cannot be found or read.
func WithDefaultServeConfigFile() Option {
	p, err := FindDefaultServeConfigFile()
	if err != nil {
		panic(fmt.Errorf("server.WithDefaultServeConfigFile: %w", err))
	}
	return WithServeConfigFile(p)
}
