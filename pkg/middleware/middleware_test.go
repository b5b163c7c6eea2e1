package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func TestMetricsRecordsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()

	r := chi.NewRouter()
	r.Use(Metrics(WithRegistry(reg), WithNamespace("testhub")))
	r.Get("/feed/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed/123", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	if !strings.Contains(body, `testhub_requests_total{method="GET",route="/feed/{id}",status="200"} 3`) {
		t.Errorf("missing counter sample, got:\n%s", body)
	}
	if !strings.Contains(body, "testhub_request_duration_seconds_bucket") {
		t.Error("missing duration histogram")
	}
}

func TestMetricsCapturesErrorStatus(t *testing.T) {
	reg := prometheus.NewRegistry()

	r := chi.NewRouter()
	r.Use(Metrics(WithRegistry(reg)))
	r.Get("/boom", func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	rec := httptest.NewRecorder()
	promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `status="500"`) {
		t.Error("expected 500 status label")
	}
}

func TestTracingPassesRequestThrough(t *testing.T) {
	// Default no-op tracer provider: the middleware must be transparent.
	r := chi.NewRouter()
	r.Use(Tracing())
	r.Get("/feed/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("ok"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed/9", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("response = %d %q", rec.Code, rec.Body.String())
	}
}

func TestTracingFilterSkips(t *testing.T) {
	called := false
	r := chi.NewRouter()
	r.Use(Tracing(WithFilter(func(r *http.Request) bool {
		called = true
		return false
	})))
	r.Get("/x", func(w http.ResponseWriter, req *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	if !called {
		t.Error("filter was not consulted")
	}
}
