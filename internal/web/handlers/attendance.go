package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/kozaktomas/face-attend/internal/attendance"
	"github.com/kozaktomas/face-attend/internal/database"
	"github.com/kozaktomas/face-attend/internal/identity"
)

// AttendanceHandler handles attendance marking and listing.
type AttendanceHandler struct {
	service *attendance.Service
}

// NewAttendanceHandler creates a new attendance handler.
func NewAttendanceHandler(service *attendance.Service) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// MarkRequest represents the request body for marking attendance. One of
// UserID or NationalID must be set; UserID wins when both are present.
type MarkRequest struct {
	UserID     string `json:"userId"`
	NationalID string `json:"nationalId"`
}

// MarkResponse represents a successful mark. Duplicate is set when the user
// already had a record for the day and the existing record is returned.
type MarkResponse struct {
	Success   bool           `json:"success"`
	Record    RecordResponse `json:"record"`
	Duplicate bool           `json:"duplicate,omitempty"`
}

// Mark records attendance for the selected user at the current time. Marking
// twice in one day returns the existing record with duplicate set, not an
// error.
func (h *AttendanceHandler) Mark(w http.ResponseWriter, r *http.Request) {
	var req MarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	sel, ok := identity.NewSelector(req.UserID, req.NationalID)
	if !ok {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	result, err := h.service.Mark(r.Context(), sel)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		log.Printf("mark attendance failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to mark attendance")
		return
	}

	respondJSON(w, http.StatusOK, MarkResponse{
		Success:   true,
		Record:    recordToResponse(result.Record, result.User),
		Duplicate: result.AlreadyMarked,
	})
}

// BulkRequest represents the request body for a bulk import.
type BulkRequest struct {
	Records []BulkRecordRequest `json:"records"`
}

// BulkRecordRequest is one bulk entry. Timestamp is optional RFC 3339 and
// defaults to the current time.
type BulkRecordRequest struct {
	UserID     string `json:"userId"`
	NationalID string `json:"nationalId"`
	Timestamp  string `json:"timestamp"`
}

// Bulk imports a batch of attendance entries. Entries that reference no known
// user are skipped silently; the response holds the events for the entries
// that resolved.
func (h *AttendanceHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	var req BulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	entries := make([]attendance.BulkEntry, 0, len(req.Records))
	for _, rec := range req.Records {
		sel, ok := identity.NewSelector(rec.UserID, rec.NationalID)
		if !ok {
			continue
		}
		entry := attendance.BulkEntry{Selector: sel}
		if rec.Timestamp != "" {
			ts, err := time.Parse(time.RFC3339, rec.Timestamp)
			if err != nil {
				continue
			}
			entry.Timestamp = &ts
		}
		entries = append(entries, entry)
	}

	results, err := h.service.MarkBulk(r.Context(), entries)
	if err != nil {
		log.Printf("bulk import failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to import attendance")
		return
	}

	response := make([]RecordResponse, 0, len(results))
	for i := range results {
		response = append(response, recordToResponse(results[i].Record, nil))
	}
	respondJSON(w, http.StatusOK, response)
}

// List returns all attendance records with their users, newest first.
func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context())
	if err != nil {
		log.Printf("list attendance failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list attendance")
		return
	}

	response := make([]RecordResponse, 0, len(records))
	for i := range records {
		rec := &records[i]
		response = append(response, recordToResponse(&rec.AttendanceRecord, &rec.User))
	}
	respondJSON(w, http.StatusOK, response)
}
