package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/face-attend/internal/attendance"
	"github.com/kozaktomas/face-attend/internal/database"
	"github.com/kozaktomas/face-attend/internal/database/mock"
	"github.com/kozaktomas/face-attend/internal/identity"
)

// testStores creates a paired in-memory user and attendance store.
func testStores(t *testing.T) (*mock.UserStore, *mock.AttendanceStore) {
	t.Helper()
	users := mock.NewUserStore()
	return users, mock.NewAttendanceStore(users)
}

// testService builds an attendance service over the given stores.
func testService(users *mock.UserStore, records *mock.AttendanceStore) *attendance.Service {
	return attendance.NewService(identity.NewResolver(users), records)
}

// seedUser adds a registered user directly to the store.
func seedUser(users *mock.UserStore, id, name, nationalID string) database.User {
	user := database.User{
		ID:             id,
		Name:           name,
		NationalID:     nationalID,
		FaceDescriptor: []float32{0.1, 0.2, 0.3},
	}
	users.AddUser(user)
	return user
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}
