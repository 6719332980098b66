// Package mock provides in-memory implementations of the database store
// interfaces for testing.
package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kozaktomas/face-attend/internal/database"
)

// UserStore is an in-memory implementation of database.UserStore.
type UserStore struct {
	mu    sync.RWMutex
	byID  map[string]*database.User
	order []string // insertion order for List

	// Error injection
	CreateError          error
	GetByIDError         error
	GetByNationalIDError error
	ListError            error
}

// NewUserStore creates an empty in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{
		byID: make(map[string]*database.User),
	}
}

// AddUser seeds a user without uniqueness checks.
func (s *UserStore) AddUser(user database.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	s.byID[u.ID] = &u
	s.order = append(s.order, u.ID)
}

func (s *UserStore) Create(ctx context.Context, user *database.User) error {
	if s.CreateError != nil {
		return s.CreateError
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.NationalID == user.NationalID {
			return database.ErrDuplicate
		}
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	u := *user
	s.byID[u.ID] = &u
	s.order = append(s.order, u.ID)
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*database.User, error) {
	if s.GetByIDError != nil {
		return nil, s.GetByIDError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.byID[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, database.ErrNotFound
}

func (s *UserStore) GetByNationalID(ctx context.Context, nationalID string) (*database.User, error) {
	if s.GetByNationalIDError != nil {
		return nil, s.GetByNationalIDError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.byID {
		if u.NationalID == nationalID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *UserStore) List(ctx context.Context) ([]database.User, error) {
	if s.ListError != nil {
		return nil, s.ListError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]database.User, 0, len(s.order))
	for _, id := range s.order {
		users = append(users, *s.byID[id])
	}
	return users, nil
}

// AttendanceStore is an in-memory implementation of database.AttendanceStore.
type AttendanceStore struct {
	mu      sync.RWMutex
	records []database.AttendanceRecord
	users   *UserStore // for ListWithUsers joins

	// Error injection
	InsertError       error
	FindInWindowError error
	ListError         error

	// BeforeInsert runs inside Insert after the duplicate check has been
	// scheduled but before the record is stored. Tests use it to simulate a
	// concurrent mark winning the race.
	BeforeInsert func()
}

// NewAttendanceStore creates an empty in-memory attendance store joined
// against the given user store.
func NewAttendanceStore(users *UserStore) *AttendanceStore {
	return &AttendanceStore{users: users}
}

func (s *AttendanceStore) Insert(ctx context.Context, rec *database.AttendanceRecord) error {
	if s.InsertError != nil {
		return s.InsertError
	}
	if s.BeforeInsert != nil {
		s.BeforeInsert()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.records {
		if existing.UserID == rec.UserID && existing.Day == rec.Day {
			return database.ErrDuplicate
		}
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	s.records = append(s.records, *rec)
	return nil
}

func (s *AttendanceStore) FindInWindow(ctx context.Context, userID string, start, end time.Time) (*database.AttendanceRecord, error) {
	if s.FindInWindowError != nil {
		return nil, s.FindInWindowError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.records {
		rec := &s.records[i]
		if rec.UserID != userID {
			continue
		}
		if rec.Timestamp.Before(start) || rec.Timestamp.After(end) {
			continue
		}
		copied := *rec
		return &copied, nil
	}
	return nil, database.ErrNotFound
}

func (s *AttendanceStore) ListWithUsers(ctx context.Context) ([]database.AttendanceWithUser, error) {
	if s.ListError != nil {
		return nil, s.ListError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]database.AttendanceWithUser, 0, len(s.records))
	for _, rec := range s.records {
		joined := database.AttendanceWithUser{AttendanceRecord: rec}
		if s.users != nil {
			if u, err := s.users.GetByID(ctx, rec.UserID); err == nil {
				joined.User = *u
			}
		}
		out = append(out, joined)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// Count returns the number of stored attendance records.
func (s *AttendanceStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
