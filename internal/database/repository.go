package database

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint (national ID for users, (user_id, day) for attendance).
	ErrDuplicate = errors.New("duplicate record")
)

// UserStore provides access to registered users.
type UserStore interface {
	// Create persists a new user. Returns ErrDuplicate if a user with the
	// same national ID already exists.
	Create(ctx context.Context, user *User) error
	// GetByID retrieves a user by ID, returns ErrNotFound if missing.
	GetByID(ctx context.Context, id string) (*User, error)
	// GetByNationalID retrieves a user by national ID, returns ErrNotFound if missing.
	GetByNationalID(ctx context.Context, nationalID string) (*User, error)
	// List returns all users ordered by creation time.
	List(ctx context.Context) ([]User, error)
}

// AttendanceStore provides access to attendance records.
type AttendanceStore interface {
	// Insert persists a new attendance record. Returns ErrDuplicate if a
	// record for the same (user, day) already exists; the unique constraint
	// is the authority for concurrent marks.
	Insert(ctx context.Context, rec *AttendanceRecord) error
	// FindInWindow returns the record for a user with a timestamp inside
	// [start, end], or ErrNotFound.
	FindInWindow(ctx context.Context, userID string, start, end time.Time) (*AttendanceRecord, error)
	// ListWithUsers returns all records joined with their users, newest first.
	ListWithUsers(ctx context.Context) ([]AttendanceWithUser, error)
}
