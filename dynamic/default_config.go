package dynamic

import (
	"fmt"

	"github.com/aura-studio/function/internal/configfile"
)

// DefaultConfigCandidates returns relative paths that will be checked (in order)
// when searching for a default dynamic config.
func DefaultConfigCandidates() []string {
	return []string{
		"dynamic.yaml",
		"dynamic.yml",
		"dynamic/dynamic.yaml",
		"dynamic/dynamic.yml",
	}
}

// FindDefaultConfigFile searches the configfile directories for a dynamic config.
func FindDefaultConfigFile() (string, error) {
	p, err := configfile.Find(DefaultConfigCandidates()...)
	if err != nil {
		return "", fmt.Errorf("dynamic: %w", err)
	}
	return p, nil
}

// WithDefaultConfigFile finds and loads the default dynamic config file.
// It panics if the file cannot be found or read.
func WithDefaultConfigFile() Option {
	p, err := FindDefaultConfigFile()
	if err != nil {
		return OptionFunc(func(*Options) {
			panic(fmt.Errorf("dynamic: WithDefaultConfigFile: %w", err))
		})
	}
	return WithConfigFile(p)
}
