package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/kozaktomas/face-attend/internal/database"
)

// ErrAlreadyRegistered is returned when the national ID is already taken.
var ErrAlreadyRegistered = errors.New("national id already registered")

// ValidationError reports malformed or missing registration input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// nationalIDPattern matches exactly 12 decimal digits.
var nationalIDPattern = regexp.MustCompile(`^\d{12}$`)

// Registrar validates and persists new users.
type Registrar struct {
	users database.UserStore
}

func NewRegistrar(users database.UserStore) *Registrar {
	return &Registrar{users: users}
}

// Register creates a new user after validating the input. The descriptor's
// dimensionality is a contract of the external recognition library and is not
// checked beyond being non-empty.
//
// Returns *ValidationError for malformed input, ErrAlreadyRegistered for a
// duplicate national ID.
func (r *Registrar) Register(ctx context.Context, name, nationalID string, descriptor []float32) (*database.User, error) {
	if name == "" || nationalID == "" || len(descriptor) == 0 {
		return nil, &ValidationError{Message: "missing fields"}
	}
	if !nationalIDPattern.MatchString(nationalID) {
		return nil, &ValidationError{Message: "invalid national id"}
	}

	// Pre-check gives a friendly error for the common case; the store's
	// unique constraint still catches concurrent registrations.
	_, err := r.users.GetByNationalID(ctx, nationalID)
	if err == nil {
		return nil, ErrAlreadyRegistered
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("checking national id: %w", err)
	}

	user := &database.User{
		ID:             uuid.NewString(),
		Name:           name,
		NationalID:     nationalID,
		FaceDescriptor: descriptor,
	}
	if err := r.users.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}
