package reqresp

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

type yamlReqRespConfig struct {
	Mode struct {
		Debug bool `yaml:"debug"`
	} `yaml:"mode"`
	StripPrefix string `yaml:"stripPrefix"`
}

type yamlConfig struct {
	ReqResp yamlReqRespConfig `yaml:"reqresp"`
}

func optionFromReqRespConfig(cfg yamlReqRespConfig) Option {
	return OptionFunc(func(o *Options) {
		o.DebugMode = cfg.Mode.Debug
		o.StripPrefix = cfg.StripPrefix
	})
}

// WithConfig parses YAML bytes following reqresp.yaml structure and applies it to Options.
// It panics if the YAML is invalid.
func WithConfig(yamlBytes []byte) Option {
	var cfg yamlConfig
	if err := yaml.Unmarshal(yamlBytes, &cfg); err != nil {
		return OptionFunc(func(*Options) {
			panic(fmt.Errorf("reqresp.WithConfig: %w", err))
		})
	}
	return optionFromReqRespConfig(cfg.ReqResp)
}

// WithConfigFile loads a YAML file and applies it to Options.
// It panics if the file cannot be read or YAML is invalid.
func WithConfigFile(path string) Option {
	b, err := os.ReadFile(path)
	if err != nil {
		return OptionFunc(func(*Options) {
			panic(fmt.Errorf("reqresp.WithConfigFile(%s): %w", path, err))
		})
	}
	return WithConfig(b)
}
