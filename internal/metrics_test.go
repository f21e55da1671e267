package internal

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func metricsRouter(metrics *Metrics) *chi.Mux {
	router := chi.NewRouter()
	router.Use(metrics.Middleware())
	router.Get("/items", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("[]"))
	})
	router.Get("/items/{code}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("item"))
	})
	router.Get("/metrics", metrics.Handler().ServeHTTP)
	return router
}

func scrape(t *testing.T, router *chi.Mux) string {
	t.Helper()
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 from /metrics, got %d", w.Code)
	}
	return w.Body.String()
}

func TestMetricsCollection(t *testing.T) {
	metrics := NewMetrics()
	router := metricsRouter(metrics)

	// Generate some traffic first.
	testReq := httptest.NewRequest("GET", "/items", nil)
	testW := httptest.NewRecorder()
	router.ServeHTTP(testW, testReq)

	if testW.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", testW.Code)
	}

	body := scrape(t, router)
	for _, metric := range []string{
		"http_requests_total",
		"http_request_duration_seconds",
		"http_requests_in_flight",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("Expected metric '%s' not found in response", metric)
		}
	}

	if !strings.Contains(body, `path="/items"`) {
		t.Error("Expected metrics to contain path label for /items")
	}
}

func TestMetricsMiddlewarePassesResponseThrough(t *testing.T) {
	metrics := NewMetrics()
	router := metricsRouter(metrics)

	req := httptest.NewRequest("GET", "/items", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "[]" {
		t.Errorf("Expected body '[]', got '%s'", w.Body.String())
	}
}

func TestMetricsInFlightGaugeReturnsToZero(t *testing.T) {
	metrics := NewMetrics()
	router := metricsRouter(metrics)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/items", nil))

	body := scrape(t, router)
	if !strings.Contains(body, "http_requests_in_flight 1") {
		// The scrape itself is the only request in flight.
		t.Errorf("Expected in-flight gauge of 1 during scrape, got:\n%s", body)
	}
}

func TestMetricsUsesChiRoutePatterns(t *testing.T) {
	metrics := NewMetrics()
	router := metricsRouter(metrics)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/items/BRG001", nil))

	body := scrape(t, router)
	if !strings.Contains(body, `path="/items/{code}"`) {
		t.Error("Expected metrics to contain the route pattern, not the actual path")
	}
	if strings.Contains(body, `path="/items/BRG001"`) {
		t.Error("Expected raw item codes to be collapsed into the route pattern")
	}
}
