package event

import (
	"net/http"
	"sort"
	"strings"
)

// Header is a single header field as received.
type Header struct {
	Name  string
	Value string
}

// Headers is an ordered multimap of request headers. Lookups are
// case-insensitive; every value of a repeated name is kept in received order.
type Headers []Header

// HeadersFrom flattens an http.Header. net/http hands headers over as a map,
// so names are ordered lexically; the values of each name keep wire order.
func HeadersFrom(h http.Header) Headers {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	headers := make(Headers, 0, len(h))
	for _, name := range names {
		for _, value := range h[name] {
			headers = append(headers, Header{Name: name, Value: value})
		}
	}
	return headers
}

// Get returns the first value for name, or "" if there is none.
func (h Headers) Get(name string) string {
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			return f.Value
		}
	}
	return ""
}

// Values returns every value for name in order.
func (h Headers) Values(name string) []string {
	var values []string
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			values = append(values, f.Value)
		}
	}
	return values
}

func (h Headers) Has(name string) bool {
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			return true
		}
	}
	return false
}

// Map groups the headers by name as received. Names that differ only in case
// stay separate keys.
func (h Headers) Map() map[string][]string {
	m := make(map[string][]string, len(h))
	for _, f := range h {
		m[f.Name] = append(m[f.Name], f.Value)
	}
	return m
}
