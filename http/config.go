package http

import (
	"fmt"
	"os"

	"github.com/aura-studio/function/dynamic"
	yaml "gopkg.in/yaml.v2"
)

type yamlHTTPConfig struct {
	Address         string `yaml:"address"`
	Debug           bool   `yaml:"debug"`
	Cors            bool   `yaml:"cors"`
	HealthCheckPath string `yaml:"healthCheckPath"`
	MetricsPath     string `yaml:"metricsPath"`
	MaxMemory       int64  `yaml:"maxMemory"`
	MaxBodyBytes    int64  `yaml:"maxBodyBytes"`
	StaticLink      []struct {
		SrcPath string `yaml:"srcPath"`
		DstPath string `yaml:"dstPath"`
	} `yaml:"staticLink"`
	PrefixLink []struct {
		SrcPrefix string `yaml:"srcPrefix"`
		DstPrefix string `yaml:"dstPrefix"`
	} `yaml:"prefixLink"`
	HeaderLinkKey []struct {
		Key    string `yaml:"key"`
		Prefix string `yaml:"prefix"`
	} `yaml:"headerLinkKey"`
}

type yamlConfig struct {
	HTTP yamlHTTPConfig `yaml:"http"`
}

type yamlServeConfig struct {
	HTTP    yamlHTTPConfig `yaml:"http"`
	Dynamic any            `yaml:"dynamic"`
}

func optionFromHTTPConfig(cfg yamlHTTPConfig) Option {
	return HttpOption(func(o *Options) {
		if cfg.Address != "" {
			o.Address = cfg.Address
		}
		o.DebugMode = cfg.Debug
		o.CorsMode = cfg.Cors
		o.HealthCheckPath = cfg.HealthCheckPath
		o.MetricsPath = cfg.MetricsPath
		if cfg.MaxMemory > 0 {
			o.MaxMemory = cfg.MaxMemory
		}
		o.MaxBodyBytes = cfg.MaxBodyBytes

		for _, link := range cfg.StaticLink {
			if link.SrcPath == "" || link.DstPath == "" {
				continue
			}
			o.StaticLinkMap[link.SrcPath] = link.DstPath
		}
		for _, link := range cfg.PrefixLink {
			if link.SrcPrefix == "" || link.DstPrefix == "" {
				continue
			}
			o.PrefixLinkMap[link.SrcPrefix] = link.DstPrefix
		}
		for _, link := range cfg.HeaderLinkKey {
			if link.Key == "" || link.Prefix == "" {
				continue
			}
			o.HeaderLinkMap[link.Key] = link.Prefix
		}
	})
}

// WithConfig parses YAML bytes following http.yaml structure and applies it to Options.
// It panics if the YAML is invalid.
func WithConfig(yamlBytes []byte) Option {
	var cfg yamlConfig
	if err := yaml.Unmarshal(yamlBytes, &cfg); err != nil {
		return HttpOption(func(*Options) {
			panic(fmt.Errorf("http.WithConfig: %w", err))
		})
	}
	return optionFromHTTPConfig(cfg.HTTP)
}

// WithConfigFile loads a YAML file and applies it to Options.
// It panics if the file cannot be read or YAML is invalid.
func WithConfigFile(path string) Option {
	b, err := os.ReadFile(path)
	if err != nil {
		return HttpOption(func(*Options) {
			panic(fmt.Errorf("http.WithConfigFile(%s): %w", path, err))
		})
	}
	return WithConfig(b)
}

type serveConfigOption struct {
	httpOpt Option
	dynOpt  dynamic.Option
	err     error
}

func (o serveConfigOption) apply(b *serveOptionBag) {
	if o.err != nil {
		panic(fmt.Errorf("http.WithServeConfig: %w", o.err))
	}
	if o.httpOpt != nil {
		b.http = append(b.http, o.httpOpt)
	}
	if o.dynOpt != nil {
		b.dynamic = append(b.dynamic, o.dynOpt)
	}
}

// WithServeConfig parses YAML bytes following http.yaml structure, and also
// supports embedding dynamic.yaml content under top-level `dynamic:`.
// It panics when applied if the YAML is invalid.
func WithServeConfig(yamlBytes []byte) ServeOption {
	var cfg yamlServeConfig
	if err := yaml.Unmarshal(yamlBytes, &cfg); err != nil {
		return serveConfigOption{err: err}
	}

	var dynOpt dynamic.Option
	if cfg.Dynamic != nil {
		b, err := yaml.Marshal(cfg.Dynamic)
		if err != nil {
			return serveConfigOption{err: err}
		}
		dynOpt = dynamic.WithConfig(b)
	}

	return serveConfigOption{httpOpt: optionFromHTTPConfig(cfg.HTTP), dynOpt: dynOpt}
}

// WithServeConfigFile loads a YAML file and applies it as ServeOption.
func WithServeConfigFile(path string) ServeOption {
	b, err := os.ReadFile(path)
	if err != nil {
		return serveConfigOption{err: fmt.Errorf("http.WithServeConfigFile(%s): %w", path, err)}
	}
	return WithServeConfig(b)
}
