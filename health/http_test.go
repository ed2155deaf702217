package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLivenessHandler(t *testing.T) {
	routes := NewBuilder("orders", "2.3.0").
		AddCheck("database", unhealthyCheck("down")).
		Build()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	routes.LivenessHandler()(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %v, want 'application/json'", rec.Header().Get("Content-Type"))
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %v, want 'healthy'", body["status"])
	}
	if body["service"] != "orders" {
		t.Errorf("service = %v, want 'orders'", body["service"])
	}
	if body["version"] != "2.3.0" {
		t.Errorf("version = %v, want '2.3.0'", body["version"])
	}
	checks, ok := body["checks"].(map[string]any)
	if !ok || len(checks) != 0 {
		t.Errorf("checks = %v, want {}", body["checks"])
	}
	ts, ok := body["timestamp"].(string)
	if !ok {
		t.Fatalf("timestamp = %v, want string", body["timestamp"])
	}
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("timestamp %q is not RFC 3339: %v", ts, err)
	}
}

func TestLivenessHandler_Body(t *testing.T) {
	fixed := time.Date(2026, 10, 15, 8, 30, 0, 0, time.UTC)
	routes := NewBuilder("orders", "2.3.0").
		WithConfig(Config{Now: func() time.Time { return fixed }}).
		Build()

	rec := httptest.NewRecorder()
	routes.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	want := `{"status":"healthy","service":"orders","checks":{},"timestamp":"2026-10-15T08:30:00Z","version":"2.3.0"}` + "\n"
	if rec.Body.String() != want {
		t.Errorf("Body = %s, want %s", rec.Body.String(), want)
	}
}

func TestLivenessHandler_NoVersion(t *testing.T) {
	routes := NewBuilderWithoutVersion("orders").Build()

	rec := httptest.NewRecorder()
	routes.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if _, ok := body["version"]; ok {
		t.Errorf("version should be omitted, got %v", body["version"])
	}
}

func TestReadinessHandler_Healthy(t *testing.T) {
	routes := NewBuilder("svc", "").
		AddCheck("test", CheckerFunc(func(ctx context.Context) Result {
			return HealthyWithMessage("ok").WithDuration(3 * time.Millisecond)
		})).
		Build()

	rec := httptest.NewRecorder()
	routes.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Status != StatusHealthy {
		t.Errorf("Status = %v, want StatusHealthy", resp.Status)
	}
	d, ok := resp.Checks["test"].Duration()
	if !ok || d != 3*time.Millisecond {
		t.Errorf("Duration() = %v, %v, want 3ms, true", d, ok)
	}
}

func TestReadinessHandler_Unhealthy(t *testing.T) {
	routes := NewBuilder("svc", "").
		AddCheck("database", healthyCheck()).
		AddCheck("cache", unhealthyCheck("timeout")).
		Build()

	rec := httptest.NewRecorder()
	routes.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	var body struct {
		Status string `json:"status"`
		Checks map[string]struct {
			Status  string  `json:"status"`
			Message *string `json:"message"`
		} `json:"checks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if body.Status != "unhealthy" {
		t.Errorf("status = %v, want 'unhealthy'", body.Status)
	}
	if body.Checks["database"].Status != "healthy" {
		t.Errorf("database status = %v, want 'healthy'", body.Checks["database"].Status)
	}
	if body.Checks["database"].Message != nil {
		t.Errorf("database message should be omitted, got %q", *body.Checks["database"].Message)
	}
	if body.Checks["cache"].Message == nil || *body.Checks["cache"].Message != "timeout" {
		t.Errorf("cache message = %v, want 'timeout'", body.Checks["cache"].Message)
	}
}

func TestReadinessHandler_Unknown(t *testing.T) {
	routes := NewBuilder("svc", "").
		WithConfig(Config{Unknown: UnknownNotReady}).
		AddCheck("warmup", unknownCheck("cache not primed")).
		Build()

	rec := httptest.NewRecorder()
	routes.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Status != StatusUnknown {
		t.Errorf("Status = %v, want StatusUnknown", resp.Status)
	}
}

func TestRouter(t *testing.T) {
	routes := NewBuilder("svc", "").
		AddCheck("cache", unhealthyCheck("down")).
		Build()

	server := httptest.NewServer(routes.Router())
	defer server.Close()

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusServiceUnavailable},
		{http.MethodPost, "/health", http.StatusMethodNotAllowed},
		{http.MethodGet, "/missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, server.URL+tt.path, nil)
			if err != nil {
				t.Fatalf("NewRequest() error = %v", err)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.want {
				t.Errorf("Status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestRegisterMux(t *testing.T) {
	routes := NewBuilder("svc", "").
		AddCheck("database", healthyCheck()).
		Build()

	mux := http.NewServeMux()
	routes.RegisterMux(mux)

	for _, path := range []string{"/health", "/ready"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want %d", path, rec.Code, http.StatusOK)
		}
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/ready", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE /ready status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
