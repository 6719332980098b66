package database

import (
	"time"
)

// User represents a registered person with a stored face descriptor.
type User struct {
	ID             string
	Name           string
	NationalID     string
	FaceDescriptor []float32
	CreatedAt      time.Time
}

// AttendanceRecord represents a single attendance event. At most one record
// exists per (UserID, Day) pair; Day is the local calendar date derived from
// Timestamp at creation time.
type AttendanceRecord struct {
	ID        string
	UserID    string
	Timestamp time.Time
	Day       string
	CreatedAt time.Time
}

// AttendanceWithUser is an attendance record joined with its user, as
// returned by the read path.
type AttendanceWithUser struct {
	AttendanceRecord
	User User
}
