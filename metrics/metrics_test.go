package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aura-studio/function/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegister_Twice(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := metrics.Register(reg); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if err := metrics.Register(reg); err != nil {
		t.Fatalf("second Register error: %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(metrics.Middleware())
	r.GET("/*path", func(c *gin.Context) { c.String(http.StatusTeapot, "tea") })

	before := testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues(http.MethodGet, "4xx"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/brew", nil))

	after := testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues(http.MethodGet, "4xx"))
	if after-before != 1 {
		t.Errorf("requests_total{GET,4xx} delta = %v, want 1", after-before)
	}
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := metrics.Register(reg); err != nil {
		t.Fatal(err)
	}
	metrics.FailuresTotal.WithLabelValues(metrics.StageFormat).Inc()

	w := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `function_failures_total{stage="format"}`) {
		t.Errorf("metrics output missing failures counter:\n%s", w.Body.String())
	}
}
