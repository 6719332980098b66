package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kozaktomas/face-attend/internal/database"
	"github.com/pgvector/pgvector-go"
)

// AttendanceRepository provides PostgreSQL-backed attendance storage.
type AttendanceRepository struct {
	pool *Pool
}

// NewAttendanceRepository creates a new PostgreSQL attendance repository.
func NewAttendanceRepository(pool *Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// Insert persists a new attendance record. The unique constraint on
// (user_id, day) rejects a second record for the same local calendar day;
// that rejection surfaces as database.ErrDuplicate so the service can fall
// back to the record that won the race.
func (r *AttendanceRepository) Insert(ctx context.Context, rec *database.AttendanceRecord) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO attendance (id, user_id, ts, day)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, rec.ID, rec.UserID, rec.Timestamp, rec.Day).Scan(&rec.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return database.ErrDuplicate
		}
		return fmt.Errorf("insert attendance: %w", err)
	}
	return nil
}

// FindInWindow returns the user's record with a timestamp inside [start, end].
func (r *AttendanceRepository) FindInWindow(ctx context.Context, userID string, start, end time.Time) (*database.AttendanceRecord, error) {
	var rec database.AttendanceRecord
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, ts, day, created_at
		FROM attendance
		WHERE user_id = $1 AND ts >= $2 AND ts <= $3
		LIMIT 1
	`, userID, start, end).
		Scan(&rec.ID, &rec.UserID, &rec.Timestamp, &rec.Day, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query attendance window: %w", err)
	}
	return &rec, nil
}

// ListWithUsers returns all attendance records joined with their users,
// newest first.
func (r *AttendanceRepository) ListWithUsers(ctx context.Context) ([]database.AttendanceWithUser, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.user_id, a.ts, a.day, a.created_at,
		       u.id, u.name, u.national_id, u.face_descriptor, u.created_at
		FROM attendance a
		JOIN users u ON u.id = a.user_id
		ORDER BY a.ts DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query attendance: %w", err)
	}
	defer rows.Close()

	var records []database.AttendanceWithUser
	for rows.Next() {
		var rec database.AttendanceWithUser
		var vec pgvector.Vector
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.Timestamp, &rec.Day, &rec.CreatedAt,
			&rec.User.ID, &rec.User.Name, &rec.User.NationalID, &vec, &rec.User.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		rec.User.FaceDescriptor = vec.Slice()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance: %w", err)
	}
	return records, nil
}
