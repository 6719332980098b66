package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/kozaktomas/face-attend/internal/database"
	"github.com/kozaktomas/face-attend/internal/facematch"
	"github.com/kozaktomas/face-attend/internal/identity"
)

// UsersHandler handles user registration and listing.
type UsersHandler struct {
	registrar *identity.Registrar
	users     database.UserStore
	faceIndex *facematch.Index
}

// NewUsersHandler creates a new users handler. faceIndex may be nil when the
// server runs without the face match endpoint.
func NewUsersHandler(registrar *identity.Registrar, users database.UserStore, faceIndex *facematch.Index) *UsersHandler {
	return &UsersHandler{
		registrar: registrar,
		users:     users,
		faceIndex: faceIndex,
	}
}

// RegisterRequest represents the request body for registering a user.
type RegisterRequest struct {
	Name           string    `json:"name"`
	NationalID     string    `json:"nationalId"`
	FaceDescriptor []float32 `json:"faceDescriptor"`
}

// Register creates a new user from a name, national ID and face descriptor.
func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	user, err := h.registrar.Register(r.Context(), req.Name, req.NationalID, req.FaceDescriptor)
	if err != nil {
		var verr *identity.ValidationError
		switch {
		case errors.As(err, &verr):
			respondError(w, http.StatusBadRequest, verr.Message)
		case errors.Is(err, identity.ErrAlreadyRegistered):
			respondError(w, http.StatusConflict, "national id already registered")
		default:
			log.Printf("register failed: %v", err)
			respondError(w, http.StatusInternalServerError, "failed to register user")
		}
		return
	}

	if h.faceIndex != nil {
		h.faceIndex.Add(user)
	}
	log.Printf("registered user %s", sanitizeForLog(user.ID))
	respondJSON(w, http.StatusOK, userToResponse(user))
}

// List returns all registered users. An optional search query filters by
// normalized name.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		log.Printf("list users failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	search := r.URL.Query().Get("search")
	response := make([]UserResponse, 0, len(users))
	for i := range users {
		if !identity.NameMatches(users[i].Name, search) {
			continue
		}
		response = append(response, userToResponse(&users[i]))
	}
	respondJSON(w, http.StatusOK, response)
}
