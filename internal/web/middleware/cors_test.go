package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsLocalhostOrigin(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"http://localhost:3000", true},
		{"https://localhost:8235", true},
		{"http://localhost", true},
		{"http://evil-localhost.example.com", false},
		{"https://example.com", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := isLocalhostOrigin(tc.origin); got != tc.want {
			t.Errorf("isLocalhostOrigin(%q) = %v, want %v", tc.origin, got, tc.want)
		}
	}
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	handler := CORS()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not run for preflight")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/ratios", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}
	if recorder.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Errorf("expected localhost origin to be allowed, got %q",
			recorder.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestCORS_UnknownOriginGetsNoAllowHeader(t *testing.T) {
	handler := CORS()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ratios", nil)
	req.Header.Set("Origin", "https://example.com")
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, req)

	if recorder.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Errorf("unexpected Allow-Origin header %q",
			recorder.Header().Get("Access-Control-Allow-Origin"))
	}
}
