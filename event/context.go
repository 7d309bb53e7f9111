package event

import (
	"errors"
	"os"
)

// HostnameEnv names the variable carrying the instance identity.
const HostnameEnv = "HOSTNAME"

var ErrMissingHostname = errors.New("event: " + HostnameEnv + " is not set")

// LookupFunc resolves an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Context carries per-request execution metadata.
type Context struct {
	Hostname  string
	RequestID string
}

// NewContext resolves the instance identity through lookup, falling back to
// the process environment when lookup is nil.
func NewContext(lookup LookupFunc, requestID string) (*Context, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	hostname, ok := lookup(HostnameEnv)
	if !ok {
		return nil, ErrMissingHostname
	}
	return &Context{
		Hostname:  hostname,
		RequestID: requestID,
	}, nil
}
