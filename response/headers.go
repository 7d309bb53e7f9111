package response

import (
	"sort"
	"strings"
)

type Header struct {
	Name  string
	Value string
}

// Headers is the ordered list of header pairs a handler asks for. It may hold
// the same name more than once; see Normalize.
type Headers []Header

// HeadersFromMap converts a plain mapping. Maps carry no order, so names are
// sorted to keep the output stable.
func HeadersFromMap(m map[string]string) Headers {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	headers := make(Headers, 0, len(m))
	for _, name := range names {
		headers = append(headers, Header{Name: name, Value: m[name]})
	}
	return headers
}

// HeadersFromPairs keeps the given order.
func HeadersFromPairs(pairs ...[2]string) Headers {
	headers := make(Headers, 0, len(pairs))
	for _, p := range pairs {
		headers = append(headers, Header{Name: p[0], Value: p[1]})
	}
	return headers
}

func (h Headers) Add(name, value string) Headers {
	return append(h, Header{Name: name, Value: value})
}

// Get returns the first value for name, compared case-insensitively.
func (h Headers) Get(name string) string {
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			return f.Value
		}
	}
	return ""
}

// Normalize applies every pair as a set: one pair per case-insensitive name
// survives, at the position of the name's first occurrence, carrying the last
// written name and value. Repeated Set-Cookie pairs collapse like any other.
func (h Headers) Normalize() Headers {
	out := make(Headers, 0, len(h))
	index := make(map[string]int, len(h))
	for _, f := range h {
		key := strings.ToLower(f.Name)
		if i, ok := index[key]; ok {
			out[i] = f
			continue
		}
		index[key] = len(out)
		out = append(out, f)
	}
	return out
}
