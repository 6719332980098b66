package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func corsRequest(t *testing.T, handler http.Handler, method, origin string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/api/users", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func TestCORSAllowsWhitelistedOrigin(t *testing.T) {
	handler := CORS("https://attendance.example.com")(okHandler())

	rec := corsRequest(t, handler, "GET", "https://attendance.example.com")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://attendance.example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestCORSAlwaysAllowsLocalhost(t *testing.T) {
	handler := CORS("")(okHandler())

	rec := corsRequest(t, handler, "GET", "http://localhost:3000")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q, want localhost origin echoed", got)
	}
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	handler := CORS("https://attendance.example.com")(okHandler())

	rec := corsRequest(t, handler, "GET", "https://evil.example.com")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q, want empty for unknown origin", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := CORS("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("preflight request reached the next handler")
	}))

	rec := corsRequest(t, handler, "OPTIONS", "http://localhost:3000")
	if rec.Code != http.StatusOK {
		t.Errorf("preflight status = %d, want 200", rec.Code)
	}
}
