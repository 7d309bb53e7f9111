package reqresp

import (
	"fmt"

	"github.com/aura-studio/function/internal/configfile"
)

// DefaultConfigCandidates returns relative paths that will be checked (in order)
// when searching for a default reqresp config.
func DefaultConfigCandidates() []string {
	return []string{
		"reqresp.yaml",
		"reqresp.yml",
		"reqresp/reqresp.yaml",
		"reqresp/reqresp.yml",
	}
}

func FindDefaultConfigFile() (string, error) {
	p, err := configfile.Find(DefaultConfigCandidates()...)
	if err != nil {
		return "", fmt.Errorf("reqresp: %w", err)
	}
	return p, nil
}

// WithDefaultConfigFile finds and loads the default reqresp config file.
// It panics if the file cannot be found or read.
func WithDefaultConfigFile() Option {
	p, err := FindDefaultConfigFile()
	if err != nil {
		return OptionFunc(func(*Options) {
			panic(fmt.Errorf("reqresp.WithDefaultConfigFile: %w", err))
		})
	}
	return WithConfigFile(p)
}
