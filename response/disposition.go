package response

import (
	"errors"
	"mime"
	"net/url"
	"strings"
)

const (
	DispositionAttachment = "attachment"
	DispositionInline     = "inline"
)

// Disposition is a parsed Content-Disposition value.
type Disposition struct {
	Type     string
	Filename string
	Params   map[string]string
}

// ParseContentDisposition splits a Content-Disposition value into its
// lower-cased type and parameters. filename* (RFC 2231) is folded into
// Filename. Parameters the strict parser rejects, such as unquoted spaces or
// repeated names, are read leniently with the last occurrence winning.
func ParseContentDisposition(v string) Disposition {
	typ, params, err := mime.ParseMediaType(v)
	switch {
	case errors.Is(err, mime.ErrInvalidMediaParameter):
		params = lenientParams(v)
	case err != nil:
		typ, _, _ = strings.Cut(v, ";")
		typ = strings.ToLower(strings.TrimSpace(typ))
		params = lenientParams(v)
	}
	if params == nil {
		params = map[string]string{}
	}
	return Disposition{
		Type:     typ,
		Filename: params["filename"],
		Params:   params,
	}
}

func lenientParams(v string) map[string]string {
	params := map[string]string{}
	extended := map[string]string{}
	for i, part := range splitParams(v) {
		if i == 0 {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if key == "" {
			continue
		}
		if base, ok := strings.CutSuffix(key, "*"); ok {
			if decoded, ok := decodeExtValue(value); ok {
				extended[base] = decoded
			}
			continue
		}
		params[key] = unquote(value)
	}
	for key, value := range extended {
		params[key] = value
	}
	return params
}

// splitParams splits on semicolons outside quoted strings.
func splitParams(v string) []string {
	var (
		parts   []string
		start   int
		quoted  bool
		escaped bool
	)
	for i := 0; i < len(v); i++ {
		switch c := v[i]; {
		case escaped:
			escaped = false
		case c == '\\' && quoted:
			escaped = true
		case c == '"':
			quoted = !quoted
		case c == ';' && !quoted:
			parts = append(parts, v[start:i])
			start = i + 1
		}
	}
	return append(parts, v[start:])
}

func unquote(v string) string {
	if len(v) < 2 || v[0] != '"' || v[len(v)-1] != '"' {
		return v
	}
	v = v[1 : len(v)-1]
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		if v[i] == '\\' && i+1 < len(v) {
			i++
		}
		b.WriteByte(v[i])
	}
	return b.String()
}

// decodeExtValue decodes an RFC 5987 value (charset'lang'pct-encoded).
// Only UTF-8, US-ASCII and an empty charset are understood.
func decodeExtValue(v string) (string, bool) {
	charset, rest, ok := strings.Cut(v, "'")
	if !ok {
		return "", false
	}
	_, encoded, ok := strings.Cut(rest, "'")
	if !ok {
		return "", false
	}
	switch strings.ToLower(charset) {
	case "", "utf-8", "us-ascii":
	default:
		return "", false
	}
	decoded, err := url.PathUnescape(encoded)
	if err != nil {
		return "", false
	}
	return decoded, true
}

func (d Disposition) IsAttachment() bool {
	return d.Type == DispositionAttachment
}

// FormatContentDisposition renders typ with an optional filename, quoting or
// RFC 2231 encoding it as needed.
func FormatContentDisposition(typ, filename string) string {
	if filename == "" {
		return typ
	}
	if v := mime.FormatMediaType(typ, map[string]string{"filename": filename}); v != "" {
		return v
	}
	return typ
}
