// Package event turns an inbound HTTP request into the Event handed to a
// function handler, together with its execution Context.
package event

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	ErrBodyTooLarge  = errors.New("event: request body too large")
	ErrMalformedForm = errors.New("event: malformed multipart form")
)

// Event is the normalized view of one request. It is built once per request
// and must not be modified by handlers.
type Event struct {
	Body    []byte
	JSON    any
	Form    url.Values
	Files   Files
	Headers Headers
	Method  string
	Query   url.Values
	Path    string

	multipart *multipart.Form
}

// Build reads r once and derives every Event view from that single buffer.
// A body that is not valid JSON leaves JSON nil; it is never an error.
// The request body is replaced with a reader over the buffered bytes.
func Build(r *http.Request, opts ...Option) (*Event, error) {
	o := NewOptions(opts...)

	body, err := readBody(r, o.MaxBodyBytes)
	if err != nil {
		return nil, err
	}

	headers := HeadersFrom(r.Header)
	if r.Host != "" && !headers.Has("Host") {
		headers = append(Headers{{Name: "Host", Value: r.Host}}, headers...)
	}

	e := &Event{
		Body:    body,
		Form:    url.Values{},
		Files:   Files{},
		Headers: headers,
		Method:  r.Method,
		Query:   r.URL.Query(),
		Path:    r.URL.Path,
	}

	mediaType, params, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case IsJSONMediaType(mediaType):
		e.JSON = decodeJSON(body)
	case mediaType == "application/x-www-form-urlencoded":
		// malformed pairs are dropped, the rest is kept
		form, _ := url.ParseQuery(string(body))
		e.Form = form
	case mediaType == "multipart/form-data":
		if err := e.parseMultipart(body, params["boundary"], o.MaxMemory); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Close releases temporary files created for multipart uploads.
func (e *Event) Close() error {
	if e.multipart == nil {
		return nil
	}
	return e.multipart.RemoveAll()
}

// IsJSONMediaType reports whether mediaType is application/json or an
// application/*+json type.
func IsJSONMediaType(mediaType string) bool {
	if mediaType == "application/json" {
		return true
	}
	return strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+json")
}

func readBody(r *http.Request, limit int64) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return []byte{}, nil
	}
	defer r.Body.Close()

	reader := io.Reader(r.Body)
	if limit > 0 {
		reader = io.LimitReader(r.Body, limit+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("event: read body: %w", err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, ErrBodyTooLarge
	}

	r.Body = io.NopCloser(bytes.NewReader(data))
	return data, nil
}

func decodeJSON(body []byte) any {
	if !gjson.ValidBytes(body) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil
	}
	return v
}

func (e *Event) parseMultipart(body []byte, boundary string, maxMemory int64) error {
	if boundary == "" {
		return fmt.Errorf("%w: missing boundary", ErrMalformedForm)
	}
	form, err := multipart.NewReader(bytes.NewReader(body), boundary).ReadForm(maxMemory)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedForm, err)
	}
	e.multipart = form

	for name, values := range form.Value {
		e.Form[name] = append([]string(nil), values...)
	}
	for name, headers := range form.File {
		for _, fh := range headers {
			e.Files[name] = append(e.Files[name], newFile(fh))
		}
	}
	return nil
}
