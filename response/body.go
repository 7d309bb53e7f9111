package response

import (
	"encoding/json"
	"fmt"
)

const (
	MIMEJSON = "application/json"
	MIMEHTML = "text/html; charset=utf-8"
)

// Body is JSON, Text or nil for an empty body.
type Body interface {
	isBody()
}

// JSON is serialized with encoding/json and sent as application/json.
type JSON struct {
	Value any
}

// Text is sent verbatim.
type Text string

func (JSON) isBody() {}
func (Text) isBody() {}

func JSONBody(v any) Body {
	return JSON{Value: v}
}

func TextBody(s string) Body {
	return Text(s)
}

// TextOf coerces v to its textual form. nil yields the empty body.
func TextOf(v any) Body {
	switch v := v.(type) {
	case nil:
		return nil
	case string:
		return Text(v)
	case []byte:
		return Text(string(v))
	case fmt.Stringer:
		return Text(v.String())
	default:
		return Text(fmt.Sprint(v))
	}
}

// encode returns the bytes and the default content type of b.
func encode(b Body) ([]byte, string, error) {
	switch b := b.(type) {
	case nil:
		return []byte{}, MIMEHTML, nil
	case JSON:
		data, err := json.Marshal(b.Value)
		if err != nil {
			return nil, "", fmt.Errorf("response: encode json body: %w", err)
		}
		return data, MIMEJSON, nil
	case Text:
		return []byte(b), MIMEHTML, nil
	default:
		return nil, "", fmt.Errorf("response: unsupported body %T", b)
	}
}
