package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	if m == nil {
		t.Fatal("expected metrics, got nil")
	}

	tests := []struct {
		name   string
		metric interface{}
	}{
		{"AuthAttempts", m.AuthAttempts},
		{"TokensIssued", m.TokensIssued},
		{"Registrations", m.Registrations},
		{"Requests", m.Requests},
		{"RequestDuration", m.RequestDuration},
		{"PolicyReloads", m.PolicyReloads},
	}
	for _, tt := range tests {
		if tt.metric == nil {
			t.Errorf("%s not initialized", tt.name)
		}
	}
}

func TestRecordAuth(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordAuth("login", "ok")
	m.RecordAuth("login", "ok")
	m.RecordAuth("login", "invalid_credentials")

	if got := testutil.ToFloat64(m.AuthAttempts.WithLabelValues("login", "ok")); got != 2 {
		t.Errorf("login ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.AuthAttempts.WithLabelValues("login", "invalid_credentials")); got != 1 {
		t.Errorf("login invalid_credentials = %v, want 1", got)
	}
}

func TestRecordPolicyReload(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordPolicyReload(true)
	m.RecordPolicyReload(false)

	if got := testutil.ToFloat64(m.PolicyReloads.WithLabelValues("ok")); got != 1 {
		t.Errorf("ok reloads = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.PolicyReloads.WithLabelValues("error")); got != 1 {
		t.Errorf("error reloads = %v, want 1", got)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	// recording on nil is a no-op
	m.RecordAuth("verify", "ok")
	m.RecordTokenIssued("session")
	m.RecordRegistration("ok")
	m.RecordPolicyReload(true)

	// instrumenting with nil metrics returns the handler untouched
	rec := httptest.NewRecorder()
	m.InstrumentHandler("/api/user", http.NotFoundHandler()).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestInstrumentHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	handler := m.InstrumentHandler("/api/todo/{id}", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/todo/7", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/todo/8", nil))

	// requests are labelled by route template, not by path
	if got := testutil.ToFloat64(m.Requests.WithLabelValues("/api/todo/{id}", "post", "201")); got != 2 {
		t.Errorf("requests = %v, want 2", got)
	}
	if got := testutil.CollectAndCount(m.RequestDuration); got != 1 {
		t.Errorf("duration series = %d, want 1", got)
	}
}

func TestMetricsExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordTokenIssued("session")
	m.InstrumentHandler("/api/login", http.NotFoundHandler()).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/login", nil))

	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	body := rec.Body.String()
	for _, name := range []string{
		"tally_tokens_issued_total",
		"tally_http_requests_total",
		"tally_http_request_duration_seconds",
	} {
		if !strings.Contains(body, name) {
			t.Errorf("exposition missing %s", name)
		}
	}
}
