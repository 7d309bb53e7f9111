package reqresp

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
)

// NewRequest converts a proxy event. Multi-value headers and query
// parameters take precedence over their single-value forms.
func NewRequest(ctx context.Context, event events.APIGatewayProxyRequest, stripPrefix string) (*http.Request, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, fmt.Errorf("reqresp: decode body: %w", err)
		}
		body = decoded
	}

	path := event.Path
	if prefix := strings.TrimRight(stripPrefix, "/"); prefix != "" {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			path = strings.TrimPrefix(path, prefix)
		}
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	query := url.Values{}
	if len(event.MultiValueQueryStringParameters) > 0 {
		for key, values := range event.MultiValueQueryStringParameters {
			query[key] = append([]string(nil), values...)
		}
	} else {
		for key, value := range event.QueryStringParameters {
			query.Set(key, value)
		}
	}

	u := &url.URL{Path: path, RawQuery: query.Encode()}

	method := event.HTTPMethod
	if method == "" {
		method = http.MethodGet
	}

	r, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("reqresp: new request: %w", err)
	}

	if len(event.MultiValueHeaders) > 0 {
		for name, values := range event.MultiValueHeaders {
			for _, value := range values {
				r.Header.Add(name, value)
			}
		}
	} else {
		for name, value := range event.Headers {
			r.Header.Set(name, value)
		}
	}

	if host := r.Header.Get("Host"); host != "" {
		r.Host = host
	} else if event.RequestContext.DomainName != "" {
		r.Host = event.RequestContext.DomainName
	}
	if r.Header.Get("X-Request-ID") == "" && event.RequestContext.RequestID != "" {
		r.Header.Set("X-Request-ID", event.RequestContext.RequestID)
	}
	r.RemoteAddr = event.RequestContext.Identity.SourceIP
	r.ContentLength = int64(len(body))
	r.RequestURI = u.RequestURI()

	return r, nil
}

// ResponseWriter buffers a response so it can be returned as a proxy
// response.
type ResponseWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func NewResponseWriter() *ResponseWriter {
	return &ResponseWriter{header: http.Header{}}
}

func (w *ResponseWriter) Header() http.Header {
	return w.header
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.WriteHeader(http.StatusOK)
	}
	return w.body.Write(b)
}

func (w *ResponseWriter) Flush() {}

func (w *ResponseWriter) WriteHeader(status int) {
	if w.status != 0 {
		return
	}
	w.status = status
}

// Proxy renders the buffered response. Bodies that are not valid UTF-8 are
// base64 encoded.
func (w *ResponseWriter) Proxy() events.APIGatewayProxyResponse {
	status := w.status
	if status == 0 {
		status = http.StatusOK
	}

	resp := events.APIGatewayProxyResponse{
		StatusCode:        status,
		Headers:           map[string]string{},
		MultiValueHeaders: map[string][]string{},
	}
	for name, values := range w.header {
		if len(values) == 0 {
			continue
		}
		resp.Headers[name] = values[len(values)-1]
		resp.MultiValueHeaders[name] = append([]string(nil), values...)
	}

	body := w.body.Bytes()
	if utf8.Valid(body) {
		resp.Body = string(body)
	} else {
		resp.Body = base64.StdEncoding.EncodeToString(body)
		resp.IsBase64Encoded = true
	}
	return resp
}
