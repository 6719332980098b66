package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/kozaktomas/face-attend/internal/database"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// UserResponse represents a registered user in API responses.
type UserResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	NationalID     string    `json:"nationalId"`
	FaceDescriptor []float32 `json:"faceDescriptor"`
	CreatedAt      string    `json:"createdAt,omitempty"`
}

func userToResponse(u *database.User) UserResponse {
	resp := UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		NationalID:     u.NationalID,
		FaceDescriptor: u.FaceDescriptor,
	}
	if !u.CreatedAt.IsZero() {
		resp.CreatedAt = u.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

// RecordResponse represents an attendance record in API responses. User is
// present on read paths that join the record with its owner.
type RecordResponse struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	Timestamp string        `json:"timestamp"`
	Day       string        `json:"day"`
	User      *UserResponse `json:"user,omitempty"`
}

func recordToResponse(rec *database.AttendanceRecord, user *database.User) RecordResponse {
	resp := RecordResponse{
		ID:        rec.ID,
		UserID:    rec.UserID,
		Timestamp: rec.Timestamp.Format(time.RFC3339Nano),
		Day:       rec.Day,
	}
	if user != nil {
		u := userToResponse(user)
		resp.User = &u
	}
	return resp
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
