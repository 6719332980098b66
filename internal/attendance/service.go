// Package attendance implements attendance marking with one-record-per-day
// dedupe semantics.
package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kozaktomas/face-attend/internal/database"
	"github.com/kozaktomas/face-attend/internal/identity"
)

// MarkResult is the outcome of a mark operation. AlreadyMarked is true when
// the user already had a record for the day; the returned record is then the
// existing one and no new record was written.
type MarkResult struct {
	Record        *database.AttendanceRecord
	User          *database.User
	AlreadyMarked bool
}

// BulkEntry is one entry of a bulk import. Timestamp defaults to the current
// time when nil.
type BulkEntry struct {
	Selector  identity.Selector
	Timestamp *time.Time
}

// Service marks and lists attendance.
type Service struct {
	resolver *identity.Resolver
	store    database.AttendanceStore
	now      func() time.Time
}

func NewService(resolver *identity.Resolver, store database.AttendanceStore) *Service {
	return &Service{
		resolver: resolver,
		store:    store,
		now:      time.Now,
	}
}

// Mark records attendance for the selected user at the current time.
func (s *Service) Mark(ctx context.Context, sel identity.Selector) (*MarkResult, error) {
	return s.MarkAt(ctx, sel, s.now())
}

// MarkAt records attendance for the selected user at the given time. The
// operation is idempotent per (user, calendar day): a second mark on the same
// day returns the existing record with AlreadyMarked set instead of failing.
func (s *Service) MarkAt(ctx context.Context, sel identity.Selector, at time.Time) (*MarkResult, error) {
	user, err := s.resolver.Resolve(ctx, sel)
	if err != nil {
		return nil, err
	}

	start, end := DayWindow(at)
	existing, err := s.store.FindInWindow(ctx, user.ID, start, end)
	if err == nil {
		return &MarkResult{Record: existing, User: user, AlreadyMarked: true}, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("checking existing attendance: %w", err)
	}

	rec := &database.AttendanceRecord{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Timestamp: at,
		Day:       DayKey(at),
	}
	err = s.store.Insert(ctx, rec)
	if errors.Is(err, database.ErrDuplicate) {
		// A concurrent mark won the race between the check and the write.
		// The unique constraint on (user, day) is the authority; re-query
		// and report the winner's record as already marked.
		existing, err = s.store.FindInWindow(ctx, user.ID, start, end)
		if err != nil {
			return nil, fmt.Errorf("re-querying after duplicate insert: %w", err)
		}
		return &MarkResult{Record: existing, User: user, AlreadyMarked: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("inserting attendance: %w", err)
	}
	return &MarkResult{Record: rec, User: user}, nil
}

// MarkBulk applies the single-mark semantics to each entry. Entries whose
// selector resolves to no user are skipped rather than failing the batch;
// the returned slice holds one result per processed entry.
func (s *Service) MarkBulk(ctx context.Context, entries []BulkEntry) ([]MarkResult, error) {
	results := make([]MarkResult, 0, len(entries))
	for _, entry := range entries {
		at := s.now()
		if entry.Timestamp != nil {
			at = *entry.Timestamp
		}
		res, err := s.MarkAt(ctx, entry.Selector, at)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				continue
			}
			return results, err
		}
		results = append(results, *res)
	}
	return results, nil
}

// List returns all attendance records joined with their users, newest first.
func (s *Service) List(ctx context.Context) ([]database.AttendanceWithUser, error) {
	records, err := s.store.ListWithUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing attendance: %w", err)
	}
	return records, nil
}
