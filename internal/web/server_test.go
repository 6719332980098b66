package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/face-attend/internal/config"
	"github.com/kozaktomas/face-attend/internal/database/mock"
	"github.com/kozaktomas/face-attend/internal/facematch"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		Web: config.WebConfig{
			Port:             4000,
			Host:             "127.0.0.1",
			RateLimitMax:     1000,
			RateLimitWindowM: 15,
		},
		FaceMatch: config.FaceMatchConfig{Threshold: 0.6},
	}
	users := mock.NewUserStore()
	records := mock.NewAttendanceStore(users)
	return NewServer(cfg, users, records, facematch.NewIndex())
}

func TestServerRoutes(t *testing.T) {
	server := testServer(t)

	t.Run("health check", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/health", nil)
		recorder := httptest.NewRecorder()
		server.Router().ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		var resp map[string]string
		if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if resp["status"] != "ok" {
			t.Errorf("expected status ok, got %q", resp["status"])
		}
	})

	t.Run("register and mark through the router", func(t *testing.T) {
		body := `{"name": "Jana Nováková", "nationalId": "123456789012", "faceDescriptor": [0.1, 0.2, 0.3]}`
		req := httptest.NewRequest("POST", "/api/users/register", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		server.Router().ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("register: expected 200, got %d\nBody: %s", recorder.Code, recorder.Body.String())
		}

		req = httptest.NewRequest("POST", "/api/attendance/mark", bytes.NewBufferString(`{"nationalId": "123456789012"}`))
		req.Header.Set("Content-Type", "application/json")
		recorder = httptest.NewRecorder()
		server.Router().ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("mark: expected 200, got %d\nBody: %s", recorder.Code, recorder.Body.String())
		}
	})

	t.Run("unknown route", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/nope", nil)
		recorder := httptest.NewRecorder()
		server.Router().ServeHTTP(recorder, req)

		if recorder.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", recorder.Code)
		}
	})
}
