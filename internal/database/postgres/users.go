package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kozaktomas/face-attend/internal/database"
	"github.com/pgvector/pgvector-go"
)

// UserRepository provides PostgreSQL-backed user storage.
type UserRepository struct {
	pool *Pool
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(pool *Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create persists a new user. The unique constraint on national_id turns
// concurrent duplicate registrations into database.ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *database.User) error {
	vec := pgvector.NewVector(user.FaceDescriptor)
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, name, national_id, face_descriptor)
		VALUES ($1, $2, $3, $4::vector)
		RETURNING created_at
	`, user.ID, user.Name, user.NationalID, vec).Scan(&user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return database.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*database.User, error) {
	return r.getOne(ctx, `
		SELECT id, name, national_id, face_descriptor, created_at
		FROM users
		WHERE id = $1
	`, id)
}

// GetByNationalID retrieves a user by national ID.
func (r *UserRepository) GetByNationalID(ctx context.Context, nationalID string) (*database.User, error) {
	return r.getOne(ctx, `
		SELECT id, name, national_id, face_descriptor, created_at
		FROM users
		WHERE national_id = $1
	`, nationalID)
}

func (r *UserRepository) getOne(ctx context.Context, query, value string) (*database.User, error) {
	var user database.User
	var vec pgvector.Vector
	err := r.pool.QueryRow(ctx, query, value).
		Scan(&user.ID, &user.Name, &user.NationalID, &vec, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	user.FaceDescriptor = vec.Slice()
	return &user, nil
}

// List returns all users ordered by creation time.
func (r *UserRepository) List(ctx context.Context) ([]database.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, national_id, face_descriptor, created_at
		FROM users
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []database.User
	for rows.Next() {
		var user database.User
		var vec pgvector.Vector
		if err := rows.Scan(&user.ID, &user.Name, &user.NationalID, &vec, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		user.FaceDescriptor = vec.Slice()
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}
