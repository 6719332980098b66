package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kozaktomas/face-attend/internal/facematch"
)

// FacesHandler scores probe descriptors against registered users.
type FacesHandler struct {
	index            *facematch.Index
	defaultThreshold float64
}

// NewFacesHandler creates a new faces handler.
func NewFacesHandler(index *facematch.Index, defaultThreshold float64) *FacesHandler {
	return &FacesHandler{
		index:            index,
		defaultThreshold: defaultThreshold,
	}
}

// MatchFaceRequest represents the request body for a face match. Threshold
// overrides the configured maximum match distance when positive.
type MatchFaceRequest struct {
	Descriptor []float32 `json:"descriptor"`
	Threshold  float64   `json:"threshold"`
}

// MatchFaceResponse represents the match outcome. User and Distance are only
// present when a registered user matched within the threshold.
type MatchFaceResponse struct {
	Matched  bool          `json:"matched"`
	User     *UserResponse `json:"user,omitempty"`
	Distance float64       `json:"distance,omitempty"`
}

// Match finds the registered user closest to a probe descriptor. No face
// within the threshold, or no registered users at all, is a negative match,
// not an error.
func (h *FacesHandler) Match(w http.ResponseWriter, r *http.Request) {
	if h.index == nil {
		respondError(w, http.StatusServiceUnavailable, "face matching not available")
		return
	}

	var req MatchFaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if len(req.Descriptor) == 0 {
		respondError(w, http.StatusBadRequest, "descriptor is required")
		return
	}

	threshold := h.defaultThreshold
	if req.Threshold > 0 {
		threshold = req.Threshold
	}

	match := h.index.Match(req.Descriptor, threshold)
	if match == nil {
		respondJSON(w, http.StatusOK, MatchFaceResponse{Matched: false})
		return
	}

	user := userToResponse(&match.User)
	respondJSON(w, http.StatusOK, MatchFaceResponse{
		Matched:  true,
		User:     &user,
		Distance: match.Distance,
	})
}
