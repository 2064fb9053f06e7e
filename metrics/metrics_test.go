package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewCollector(t *testing.T) {
	c := NewCollector("")
	if c == nil {
		t.Fatal("NewCollector returned nil")
	}
	if c.Registry() == nil {
		t.Error("registry should not be nil")
	}
}

func TestCollector_IndependentRegistries(t *testing.T) {
	// two collectors must not collide on registration
	a := NewCollector("")
	b := NewCollector("")
	a.SetActiveProducts(3)
	if got := testutil.ToFloat64(b.activeProducts); got != 0 {
		t.Errorf("collectors share state: %v", got)
	}
}

func TestCollector_RecordHTTPRequest(t *testing.T) {
	c := NewCollector("")

	c.RecordHTTPRequest("get", "/products/{id}", 200, 50*time.Millisecond)
	c.RecordHTTPRequest("GET", "/products/{id}", 200, 2*time.Second)
	c.RecordHTTPRequest("GET", "/products/{id}", 404, 12*time.Second)

	if got := testutil.ToFloat64(c.requests.WithLabelValues("GET", "/products/{id}", "200")); got != 2 {
		t.Errorf("200 count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.requests.WithLabelValues("GET", "/products/{id}", "404")); got != 1 {
		t.Errorf("404 count = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(c.duration); n != 1 {
		t.Errorf("duration series = %d, want 1", n)
	}
}

func TestCollector_HandlerExposition(t *testing.T) {
	c := NewCollector("")
	c.SetActiveProducts(7)
	c.RecordHTTPRequest("POST", "/products", 201, 20*time.Second)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	text := string(body)

	for _, want := range []string{
		"active_products_total 7",
		`http_request_count_total{method="POST",route="/products",status_code="201"} 1`,
		`http_request_duration_seconds_bucket{method="POST",route="/products",le="10"} 0`,
		`http_request_duration_seconds_bucket{method="POST",route="/products",le="+Inf"} 1`,
		`le="0.3"`,
		`le="1.5"`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
