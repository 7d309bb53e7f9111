package http

import (
	"fmt"

	"github.com/aura-studio/function/internal/configfile"
)

// DefaultConfigCandidates returns relative paths that will be checked (in order)
// when searching for a default http config.
func DefaultConfigCandidates() []string {
	return []string{
		"http.yaml",
		"http.yml",
		"http/http.yaml",
		"http/http.yml",
	}
}

// FindDefaultConfigFile searches the configfile directories for an http config.
func FindDefaultConfigFile() (string, error) {
	p, err := configfile.Find(DefaultConfigCandidates()...)
	if err != nil {
		return "", fmt.Errorf("http: %w", err)
	}
	return p, nil
}

// WithDefaultConfig finds and loads the default http config file.
// It panics if the file cannot be found or read.
func WithDefaultConfig() Option {
	p, err := FindDefaultConfigFile()
	if err != nil {
		return HttpOption(func(*Options) {
			panic(fmt.Errorf("http.WithDefaultConfig: %w", err))
		})
	}
	return WithConfigFile(p)
}

// WithDefaultServeConfig finds and loads the default http config file as a ServeOption.
// This supports the optional embedded `dynamic:` section in http.yaml.
func WithDefaultServeConfig() ServeOption {
	p, err := FindDefaultConfigFile()
	if err != nil {
		return serveConfigOption{err: fmt.Errorf("http.WithDefaultServeConfig: %w", err)}
	}
	return WithServeConfigFile(p)
}
