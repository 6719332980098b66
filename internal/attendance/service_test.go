package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kozaktomas/face-attend/internal/database"
	"github.com/kozaktomas/face-attend/internal/database/mock"
	"github.com/kozaktomas/face-attend/internal/identity"
)

func newTestService(t *testing.T) (*Service, *mock.UserStore, *mock.AttendanceStore) {
	t.Helper()
	users := mock.NewUserStore()
	records := mock.NewAttendanceStore(users)
	svc := NewService(identity.NewResolver(users), records)
	return svc, users, records
}

func seedUser(users *mock.UserStore, id, nationalID string) database.User {
	user := database.User{
		ID:             id,
		Name:           "Test User",
		NationalID:     nationalID,
		FaceDescriptor: []float32{0.1, 0.2, 0.3},
	}
	users.AddUser(user)
	return user
}

func TestMarkCreatesRecord(t *testing.T) {
	svc, users, records := newTestService(t)
	seedUser(users, "u1", "123456789012")

	at := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	sel := identity.Selector{Kind: identity.ByNationalID, Value: "123456789012"}

	res, err := svc.MarkAt(context.Background(), sel, at)
	if err != nil {
		t.Fatalf("MarkAt failed: %v", err)
	}
	if res.AlreadyMarked {
		t.Error("first mark reported AlreadyMarked")
	}
	if res.Record.UserID != "u1" {
		t.Errorf("record user = %q, want u1", res.Record.UserID)
	}
	if res.Record.Day != "2024-03-15" {
		t.Errorf("record day = %q, want 2024-03-15", res.Record.Day)
	}
	if res.User == nil || res.User.ID != "u1" {
		t.Error("result missing resolved user")
	}
	if records.Count() != 1 {
		t.Errorf("stored records = %d, want 1", records.Count())
	}
}

func TestMarkIsIdempotentWithinDay(t *testing.T) {
	svc, users, records := newTestService(t)
	seedUser(users, "u1", "123456789012")
	sel := identity.Selector{Kind: identity.ByID, Value: "u1"}

	first, err := svc.MarkAt(context.Background(), sel, time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("first mark failed: %v", err)
	}
	second, err := svc.MarkAt(context.Background(), sel, time.Date(2024, 3, 15, 17, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("second mark failed: %v", err)
	}

	if !second.AlreadyMarked {
		t.Error("second mark on same day did not report AlreadyMarked")
	}
	if second.Record.ID != first.Record.ID {
		t.Errorf("second mark returned record %q, want existing %q", second.Record.ID, first.Record.ID)
	}
	if records.Count() != 1 {
		t.Errorf("stored records = %d, want 1", records.Count())
	}
}

func TestMarkDayBoundary(t *testing.T) {
	svc, users, records := newTestService(t)
	seedUser(users, "u1", "123456789012")
	sel := identity.Selector{Kind: identity.ByID, Value: "u1"}

	lateNight := time.Date(2024, 3, 15, 23, 59, 59, 999000000, time.UTC)
	earlyMorning := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)

	first, err := svc.MarkAt(context.Background(), sel, lateNight)
	if err != nil {
		t.Fatalf("late-night mark failed: %v", err)
	}
	second, err := svc.MarkAt(context.Background(), sel, earlyMorning)
	if err != nil {
		t.Fatalf("early-morning mark failed: %v", err)
	}

	if first.AlreadyMarked || second.AlreadyMarked {
		t.Error("marks on adjacent days reported AlreadyMarked")
	}
	if first.Record.ID == second.Record.ID {
		t.Error("adjacent-day marks returned the same record")
	}
	if records.Count() != 2 {
		t.Errorf("stored records = %d, want 2", records.Count())
	}
}

func TestMarkUnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Mark(context.Background(), identity.Selector{Kind: identity.ByID, Value: "missing"})
	if !errors.Is(err, database.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMarkEmptySelector(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Mark(context.Background(), identity.Selector{})
	if !errors.Is(err, database.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMarkRaceLoserGetsWinnersRecord(t *testing.T) {
	svc, users, records := newTestService(t)
	seedUser(users, "u1", "123456789012")
	sel := identity.Selector{Kind: identity.ByID, Value: "u1"}
	at := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	// Simulate a concurrent mark sneaking in between the pre-check and the
	// write: the hook inserts a competing record for the same (user, day)
	// right before ours, so our insert hits the unique constraint.
	winner := database.AttendanceRecord{
		ID:        "winner",
		UserID:    "u1",
		Timestamp: at.Add(-time.Minute),
		Day:       DayKey(at),
	}
	records.BeforeInsert = func() {
		records.BeforeInsert = nil
		if err := records.Insert(context.Background(), &winner); err != nil {
			t.Errorf("competing insert failed: %v", err)
		}
	}

	res, err := svc.MarkAt(context.Background(), sel, at)
	if err != nil {
		t.Fatalf("losing mark surfaced error: %v", err)
	}
	if !res.AlreadyMarked {
		t.Error("losing mark did not report AlreadyMarked")
	}
	if res.Record.ID != "winner" {
		t.Errorf("losing mark returned record %q, want winner's", res.Record.ID)
	}
	if records.Count() != 1 {
		t.Errorf("stored records = %d, want exactly 1", records.Count())
	}
}

func TestMarkBulkSkipsUnresolvable(t *testing.T) {
	svc, users, records := newTestService(t)
	seedUser(users, "u1", "123456789012")

	ts := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	entries := []BulkEntry{
		{Selector: identity.Selector{Kind: identity.ByNationalID, Value: "123456789012"}, Timestamp: &ts},
		{Selector: identity.Selector{Kind: identity.ByNationalID, Value: "999999999999"}, Timestamp: &ts},
	}

	results, err := svc.MarkBulk(context.Background(), entries)
	if err != nil {
		t.Fatalf("MarkBulk failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1 (unresolvable entry skipped)", len(results))
	}
	if results[0].Record.UserID != "u1" {
		t.Errorf("result user = %q, want u1", results[0].Record.UserID)
	}
	if records.Count() != 1 {
		t.Errorf("stored records = %d, want 1", records.Count())
	}
}

func TestMarkBulkDedupesWithinBatch(t *testing.T) {
	svc, users, records := newTestService(t)
	seedUser(users, "u1", "123456789012")

	ts1 := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	ts2 := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)
	sel := identity.Selector{Kind: identity.ByID, Value: "u1"}
	entries := []BulkEntry{
		{Selector: sel, Timestamp: &ts1},
		{Selector: sel, Timestamp: &ts2},
	}

	results, err := svc.MarkBulk(context.Background(), entries)
	if err != nil {
		t.Fatalf("MarkBulk failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].AlreadyMarked || !results[1].AlreadyMarked {
		t.Errorf("dedupe flags = %v/%v, want false/true",
			results[0].AlreadyMarked, results[1].AlreadyMarked)
	}
	if records.Count() != 1 {
		t.Errorf("stored records = %d, want 1", records.Count())
	}
}

func TestListNewestFirst(t *testing.T) {
	svc, users, _ := newTestService(t)
	seedUser(users, "u1", "123456789012")
	seedUser(users, "u2", "123456789013")

	older := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()

	if _, err := svc.MarkAt(ctx, identity.Selector{Kind: identity.ByID, Value: "u1"}, older); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if _, err := svc.MarkAt(ctx, identity.Selector{Kind: identity.ByID, Value: "u2"}, newer); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("list length = %d, want 2", len(list))
	}
	if !list[0].Timestamp.After(list[1].Timestamp) {
		t.Error("list is not ordered newest first")
	}
	if list[0].User.ID != "u2" {
		t.Errorf("newest record joined user = %q, want u2", list[0].User.ID)
	}
}
