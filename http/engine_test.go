package http_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aura-studio/function/dynamic"
	"github.com/aura-studio/function/event"
	"github.com/aura-studio/function/handler"
	fnhttp "github.com/aura-studio/function/http"
	"github.com/aura-studio/function/response"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func withHostname(hostname string) fnhttp.Option {
	return fnhttp.WithLookup(func(key string) (string, bool) {
		if key == event.HostnameEnv {
			return hostname, true
		}
		return "", false
	})
}

func newEngine(t *testing.T, h handler.HandlerFunc, opts ...fnhttp.ServeOption) *fnhttp.Engine {
	t.Helper()
	base := []fnhttp.ServeOption{
		fnhttp.WithHandler(h),
		fnhttp.WithLogger(quietLogger()),
		fnhttp.WithRegistry(prometheus.NewRegistry()),
		withHostname("fn-test"),
	}
	return fnhttp.NewEngine(append(base, opts...)...)
}

func serve(e *fnhttp.Engine, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)
	return w
}

func TestEngine_JSONRoundTrip(t *testing.T) {
	e := newEngine(t, func(ev *event.Event, c *event.Context) (response.Response, error) {
		return response.New(http.StatusOK, response.JSONBody(ev.JSON), nil), nil
	})

	r := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"name":"fn","n":[1,2,9007199254740993]}`))
	r.Header.Set("Content-Type", "application/json")
	w := serve(e, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}
	if got := w.Header().Get("Content-Type"); got != response.MIMEJSON {
		t.Errorf("Content-Type = %q", got)
	}
	if got := w.Body.String(); got != `{"n":[1,2,9007199254740993],"name":"fn"}` {
		t.Errorf("body = %s", got)
	}
}

func TestEngine_NilResponse(t *testing.T) {
	e := newEngine(t, func(*event.Event, *event.Context) (response.Response, error) {
		return nil, nil
	})

	for _, path := range []string{"/", "/a/b/c"} {
		w := serve(e, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s: status = %d", path, w.Code)
		}
		if w.Body.Len() != 0 {
			t.Errorf("%s: body = %q, want empty", path, w.Body)
		}
		if got := w.Header().Get("Content-Type"); got != response.MIMEHTML {
			t.Errorf("%s: Content-Type = %q", path, got)
		}
	}
}

func TestEngine_AllMethodsReachHandler(t *testing.T) {
	e := newEngine(t, func(ev *event.Event, _ *event.Context) (response.Response, error) {
		return response.New(0, response.TextBody(ev.Method), nil), nil
	})

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodPatch, http.MethodDelete} {
		w := serve(e, httptest.NewRequest(method, "/any", nil))
		if w.Code != http.StatusOK || w.Body.String() != method {
			t.Errorf("%s: %d %q", method, w.Code, w.Body)
		}
	}
}

func TestEngine_MethodNotAllowed(t *testing.T) {
	called := false
	e := newEngine(t, func(*event.Event, *event.Context) (response.Response, error) {
		called = true
		return nil, nil
	})

	for _, method := range []string{"TRACE", "CONNECT", "PROPFIND"} {
		w := serve(e, httptest.NewRequest(method, "/x", nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: status = %d, want 405", method, w.Code)
		}
	}
	if called {
		t.Error("handler called for a method that is not routed")
	}
}

func TestEngine_HeadRunsHandlerWithoutBody(t *testing.T) {
	var method string
	e := newEngine(t, func(ev *event.Event, _ *event.Context) (response.Response, error) {
		method = ev.Method
		headers := response.HeadersFromPairs([2]string{"X-Health", "up"})
		return response.New(http.StatusOK, response.TextBody("healthy"), headers), nil
	})

	w := serve(e, httptest.NewRequest(http.MethodHead, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if method != http.MethodHead {
		t.Errorf("event method = %q, want HEAD", method)
	}
	if w.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", w.Body)
	}
	if w.Header().Get("X-Health") != "up" {
		t.Errorf("X-Health = %q", w.Header().Get("X-Health"))
	}
	if w.Header().Get("Content-Length") != "7" {
		t.Errorf("Content-Length = %q, want 7", w.Header().Get("Content-Length"))
	}
}

func TestEngine_OptionsAnswersAllow(t *testing.T) {
	called := false
	e := newEngine(t, func(*event.Event, *event.Context) (response.Response, error) {
		called = true
		return nil, nil
	})

	w := serve(e, httptest.NewRequest(http.MethodOptions, "/x", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Allow"); got != "DELETE, GET, HEAD, OPTIONS, PATCH, POST, PUT" {
		t.Errorf("Allow = %q", got)
	}
	if called {
		t.Error("handler called for OPTIONS")
	}
}

func TestEngine_HeadersLastWriteWins(t *testing.T) {
	e := newEngine(t, func(*event.Event, *event.Context) (response.Response, error) {
		headers := response.HeadersFromPairs(
			[2]string{"X-A", "1"},
			[2]string{"Content-Type", "text/plain"},
			[2]string{"x-a", "2"},
		)
		return response.New(http.StatusCreated, response.TextBody("made"), headers), nil
	})

	w := serve(e, httptest.NewRequest(http.MethodPost, "/", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Values("X-A"); len(got) != 1 || got[0] != "2" {
		t.Errorf("X-A = %v, want [2]", got)
	}
	if got := w.Header().Get("Content-Type"); got != "text/plain" {
		t.Errorf("Content-Type = %q, want explicit header to win", got)
	}
	if w.Body.String() != "made" {
		t.Errorf("body = %q", w.Body)
	}
}

func TestEngine_QueryOrder(t *testing.T) {
	e := newEngine(t, func(ev *event.Event, _ *event.Context) (response.Response, error) {
		return response.New(0, response.TextBody(strings.Join(ev.Query["b"], ",")), nil), nil
	})

	w := serve(e, httptest.NewRequest(http.MethodGet, "/?b=2&a=1&b=3&b=1", nil))
	if got := w.Body.String(); got != "2,3,1" {
		t.Errorf("body = %q, want 2,3,1", got)
	}
}

func TestEngine_Context(t *testing.T) {
	e := newEngine(t, func(_ *event.Event, c *event.Context) (response.Response, error) {
		return response.New(0, response.TextBody(c.Hostname+"|"+c.RequestID), nil), nil
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", "req-42")
	w := serve(e, r)

	if got := w.Body.String(); got != "fn-test|req-42" {
		t.Errorf("body = %q", got)
	}
	if w.Header().Get("X-Request-ID") != "" {
		t.Error("request ID should not be echoed")
	}
}

func TestEngine_MissingHostname(t *testing.T) {
	called := false
	e := newEngine(t, func(*event.Event, *event.Context) (response.Response, error) {
		called = true
		return nil, nil
	}, fnhttp.WithLookup(func(string) (string, bool) { return "", false }))

	w := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), event.HostnameEnv) {
		t.Errorf("body = %q", w.Body)
	}
	if called {
		t.Error("handler called without a hostname")
	}
}

func TestEngine_HandlerErrors(t *testing.T) {
	cases := map[string]handler.HandlerFunc{
		"boom": func(*event.Event, *event.Context) (response.Response, error) {
			return nil, errors.New("boom")
		},
		"panic: kaput": func(*event.Event, *event.Context) (response.Response, error) {
			panic("kaput")
		},
	}
	for want, h := range cases {
		w := serve(newEngine(t, h), httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusInternalServerError {
			t.Errorf("%s: status = %d", want, w.Code)
		}
		if !strings.Contains(w.Body.String(), want) {
			t.Errorf("%s: body = %q", want, w.Body)
		}
	}
}

func TestEngine_InvalidStatus(t *testing.T) {
	for _, status := range []int{42, 1000, -1, 100, 101, 199} {
		e := newEngine(t, func(*event.Event, *event.Context) (response.Response, error) {
			return response.New(status, response.TextBody("x"), response.HeadersFromPairs([2]string{"X-Leak", "1"})), nil
		})
		w := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusInternalServerError {
			t.Errorf("status %d: code = %d, want 500", status, w.Code)
		}
		if w.Header().Get("X-Leak") != "" {
			t.Errorf("status %d: descriptor headers were written", status)
		}
	}
}

func TestEngine_NoContent(t *testing.T) {
	e := newEngine(t, func(*event.Event, *event.Context) (response.Response, error) {
		return response.New(http.StatusNoContent, response.TextBody("ignored"), nil), nil
	})

	w := serve(e, httptest.NewRequest(http.MethodDelete, "/item/1", nil))
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Errorf("got %d %q", w.Code, w.Body)
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestEngine_FileAttachment(t *testing.T) {
	p := writeTempFile(t, "data.bin", `{"rows":2}`)
	e := newEngine(t, func(*event.Event, *event.Context) (response.Response, error) {
		return response.SendFile(p, response.HeadersFromPairs(
			[2]string{"Content-Disposition", `attachment; filename="report.json"`},
			[2]string{"Cache-Control", "no-store"},
		)), nil
	})

	w := serve(e, httptest.NewRequest(http.MethodGet, "/download", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}
	if got := w.Header().Get("Content-Disposition"); got != "attachment; filename=report.json" {
		t.Errorf("Content-Disposition = %q", got)
	}
	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want inferred from filename", got)
	}
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q", got)
	}
	if w.Body.String() != `{"rows":2}` {
		t.Errorf("body = %q", w.Body)
	}
}

func TestEngine_FileAttachmentDefaultsToBaseName(t *testing.T) {
	p := writeTempFile(t, "export.txt", "hello")
	e := newEngine(t, func(*event.Event, *event.Context) (response.Response, error) {
		return response.SendFile(p, response.HeadersFromPairs(
			[2]string{"Content-Type", "text/plain"},
			[2]string{"Content-Disposition", "attachment"},
		)), nil
	})

	w := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := w.Header().Get("Content-Disposition"); got != "attachment; filename=export.txt" {
		t.Errorf("Content-Disposition = %q", got)
	}
	if got := w.Header().Get("Content-Type"); got != "text/plain" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestEngine_FileInline(t *testing.T) {
	p := writeTempFile(t, "page", "<p>hi</p>")
	e := newEngine(t, func(*event.Event, *event.Context) (response.Response, error) {
		return response.SendFile(p, response.HeadersFromPairs(
			[2]string{"Content-Type", "text/html"},
		)), nil
	})

	w := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK || w.Body.String() != "<p>hi</p>" {
		t.Fatalf("got %d %q", w.Code, w.Body)
	}
	if got := w.Header().Get("Content-Disposition"); got != "" {
		t.Errorf("Content-Disposition = %q, want none", got)
	}
}

func TestEngine_FileRange(t *testing.T) {
	p := writeTempFile(t, "digits.txt", "0123456789")
	e := newEngine(t, func(*event.Event, *event.Context) (response.Response, error) {
		return response.SendFile(p, response.HeadersFromPairs([2]string{"Content-Type", "text/plain"})), nil
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Range", "bytes=2-4")
	w := serve(e, r)
	if w.Code != http.StatusPartialContent || w.Body.String() != "234" {
		t.Errorf("got %d %q", w.Code, w.Body)
	}
}

func TestEngine_FileValidationError(t *testing.T) {
	p := writeTempFile(t, "x", "secret")
	e := newEngine(t, func(*event.Event, *event.Context) (response.Response, error) {
		return response.SendFile(p, response.HeadersFromPairs([2]string{"X-Custom", "1"})), nil
	})

	w := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "secret") || w.Header().Get("X-Custom") != "" {
		t.Errorf("response leaked file data: %v %q", w.Header(), w.Body)
	}
	if !strings.Contains(w.Body.String(), "Content-Type") {
		t.Errorf("body = %q, want the validation hint", w.Body)
	}
}

func TestEngine_FileMissing(t *testing.T) {
	p := filepath.Join(t.TempDir(), "gone.csv")
	e := newEngine(t, func(*event.Event, *event.Context) (response.Response, error) {
		return response.SendFile(p, response.HeadersFromPairs([2]string{"Content-Type", "text/csv"})), nil
	})

	w := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if w.Header().Get("Content-Disposition") != "" {
		t.Error("Content-Disposition written for a missing file")
	}
}

func TestEngine_BodyTooLarge(t *testing.T) {
	e := newEngine(t, func(*event.Event, *event.Context) (response.Response, error) {
		return nil, nil
	}, fnhttp.WithMaxBodyBytes(4))

	w := serve(e, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", w.Code)
	}
}

func TestEngine_MalformedMultipart(t *testing.T) {
	e := newEngine(t, func(*event.Event, *event.Context) (response.Response, error) {
		return nil, nil
	})

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("garbage"))
	r.Header.Set("Content-Type", "multipart/form-data")
	w := serve(e, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestEngine_Links(t *testing.T) {
	e := newEngine(t, func(ev *event.Event, _ *event.Context) (response.Response, error) {
		return response.New(0, response.TextBody(ev.Path), nil), nil
	},
		fnhttp.WithStaticLink("/", "/index"),
		fnhttp.WithPrefixLink("/v1/", "/api/"),
		fnhttp.WithHeaderLinkKey("X-Route", "/routed"),
	)

	cases := []struct {
		path, header, want string
	}{
		{"/", "", "/index"},
		{"/v1/users", "", "/api/users"},
		{"/ignored", "/target", "/routed/target"},
		{"/plain", "", "/plain"},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.header != "" {
			r.Header.Set("X-Route", tc.header)
		}
		w := serve(e, r)
		if got := w.Body.String(); got != tc.want {
			t.Errorf("%s: path = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestEngine_HealthAndMetricsPaths(t *testing.T) {
	e := newEngine(t, func(ev *event.Event, _ *event.Context) (response.Response, error) {
		return response.New(0, response.TextBody("fn:"+ev.Path), nil), nil
	}, fnhttp.WithHealthCheckPath("/healthz"), fnhttp.WithMetricsPath("/metrics"))

	w := serve(e, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Body.String() != "OK" {
		t.Errorf("health body = %q", w.Body)
	}

	serve(e, httptest.NewRequest(http.MethodGet, "/work", nil))
	w = serve(e, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(w.Body.String(), "function_requests_total") {
		t.Errorf("metrics body missing counters:\n%s", w.Body)
	}

	w = serve(e, httptest.NewRequest(http.MethodGet, "/health-check", nil))
	if w.Body.String() != "fn:/health-check" {
		t.Errorf("unconfigured path should reach the function, got %q", w.Body)
	}
}

func TestEngine_Cors(t *testing.T) {
	e := newEngine(t, func(*event.Event, *event.Context) (response.Response, error) {
		return nil, nil
	}, fnhttp.WithCorsMode())

	w := serve(e, httptest.NewRequest(http.MethodOptions, "/", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
	w = serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("headers = %v", w.Header())
	}
}

func TestEngine_DynamicFunction(t *testing.T) {
	tunnel := &stubTunnel{reply: `{"statusCode":202,"body":{"ok":true},"headers":{"X-Fn":"dyn"}}`}
	e := fnhttp.NewEngine(
		fnhttp.WithLogger(quietLogger()),
		fnhttp.WithRegistry(prometheus.NewRegistry()),
		withHostname("fn-dyn"),
		dynamic.WithStaticPackage("http-engine-fn", "v1", tunnel),
		dynamic.WithFunction("http-engine-fn", "v1"),
	)

	w := serve(e, httptest.NewRequest(http.MethodGet, "/orders?id=7", nil))
	if w.Code != http.StatusAccepted || w.Body.String() != `{"ok":true}` {
		t.Fatalf("got %d %q", w.Code, w.Body)
	}
	if w.Header().Get("X-Fn") != "dyn" {
		t.Errorf("X-Fn = %q", w.Header().Get("X-Fn"))
	}
	if tunnel.route != "/orders" {
		t.Errorf("route = %q", tunnel.route)
	}
}

func TestEngine_NoFunctionConfigured(t *testing.T) {
	e := fnhttp.NewEngine(
		fnhttp.WithLogger(quietLogger()),
		fnhttp.WithRegistry(prometheus.NewRegistry()),
		withHostname("fn"),
	)

	w := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError || !strings.Contains(w.Body.String(), dynamic.ErrNoFunction.Error()) {
		t.Errorf("got %d %q", w.Code, w.Body)
	}
}

type stubTunnel struct {
	reply string
	route string
}

func (s *stubTunnel) Init() {}

func (s *stubTunnel) Invoke(route string, req string) string {
	s.route = route
	return s.reply
}

func (s *stubTunnel) Meta() string { return "" }

func (s *stubTunnel) Close() {}
