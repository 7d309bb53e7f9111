package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var ErrDecode = errors.New("response: malformed descriptor")

// Decode reads a descriptor encoded as JSON, the form returned by handlers
// running behind a tunnel:
//
//	{"statusCode": 201, "body": {...}, "headers": {"X-A": "1"}}
//	{"file": "/tmp/report.csv", "headers": [["Content-Disposition", "attachment; filename=r.csv"]]}
//
// Empty input and null decode to the empty response. An object body is JSON,
// a string body is text, any other body is the text of its JSON literal.
func Decode(data []byte) (Response, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid json", ErrDecode)
	}

	root := gjson.ParseBytes(data)
	if root.Type == gjson.Null {
		return nil, nil
	}
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: expected object, got %s", ErrDecode, root.Type)
	}

	headers, err := decodeHeaders(root.Get("headers"))
	if err != nil {
		return nil, err
	}

	if file := root.Get("file"); file.Exists() {
		if file.Type != gjson.String {
			return nil, fmt.Errorf("%w: file must be a string path", ErrDecode)
		}
		return &File{Path: file.String(), Headers: headers}, nil
	}

	r := &Structured{Headers: headers}

	if sc := root.Get("statusCode"); sc.Exists() && sc.Type != gjson.Null {
		if sc.Type != gjson.Number {
			return nil, fmt.Errorf("%w: statusCode must be a number", ErrDecode)
		}
		r.StatusCode = int(sc.Int())
	}

	switch b := root.Get("body"); {
	case !b.Exists() || b.Type == gjson.Null:
	case b.IsObject():
		r.Body = JSON{Value: json.RawMessage(b.Raw)}
	case b.Type == gjson.String:
		r.Body = Text(b.String())
	default:
		r.Body = Text(b.Raw)
	}

	return r, nil
}

func decodeHeaders(v gjson.Result) (Headers, error) {
	switch {
	case !v.Exists() || v.Type == gjson.Null:
		return nil, nil
	case v.IsObject():
		var headers Headers
		v.ForEach(func(key, value gjson.Result) bool {
			headers = append(headers, Header{Name: key.String(), Value: scalar(value)})
			return true
		})
		return headers, nil
	case v.IsArray():
		var (
			headers Headers
			err     error
		)
		v.ForEach(func(_, pair gjson.Result) bool {
			items := pair.Array()
			if !pair.IsArray() || len(items) != 2 {
				err = fmt.Errorf("%w: header pair must be [name, value]", ErrDecode)
				return false
			}
			headers = append(headers, Header{Name: items[0].String(), Value: scalar(items[1])})
			return true
		})
		return headers, err
	default:
		return nil, fmt.Errorf("%w: headers must be an object or a list of pairs", ErrDecode)
	}
}

func scalar(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.String()
	}
	return v.Raw
}
