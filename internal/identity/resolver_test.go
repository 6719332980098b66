package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/kozaktomas/face-attend/internal/database"
	"github.com/kozaktomas/face-attend/internal/database/mock"
)

func TestNewSelector(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		nationalID string
		wantKind   SelectorKind
		wantOK     bool
	}{
		{"by id", "u1", "", ByID, true},
		{"by national id", "", "123456789012", ByNationalID, true},
		{"id takes precedence", "u1", "123456789012", ByID, true},
		{"neither", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, ok := NewSelector(tt.userID, tt.nationalID)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && sel.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", sel.Kind, tt.wantKind)
			}
		})
	}
}

func TestResolverByID(t *testing.T) {
	users := mock.NewUserStore()
	users.AddUser(database.User{ID: "u1", Name: "A", NationalID: "123456789012"})
	resolver := NewResolver(users)

	user, err := resolver.Resolve(context.Background(), Selector{Kind: ByID, Value: "u1"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("resolved user = %q, want u1", user.ID)
	}
}

func TestResolverByNationalID(t *testing.T) {
	users := mock.NewUserStore()
	users.AddUser(database.User{ID: "u1", Name: "A", NationalID: "123456789012"})
	resolver := NewResolver(users)

	user, err := resolver.Resolve(context.Background(), Selector{Kind: ByNationalID, Value: "123456789012"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("resolved user = %q, want u1", user.ID)
	}
}

func TestResolverPrecedence(t *testing.T) {
	users := mock.NewUserStore()
	users.AddUser(database.User{ID: "u1", Name: "A", NationalID: "111111111111"})
	users.AddUser(database.User{ID: "u2", Name: "B", NationalID: "222222222222"})
	resolver := NewResolver(users)

	// A selector built from both fields resolves by ID, even when the
	// national ID belongs to a different user.
	sel, ok := NewSelector("u1", "222222222222")
	if !ok {
		t.Fatal("NewSelector returned not ok")
	}
	user, err := resolver.Resolve(context.Background(), sel)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("resolved user = %q, want u1 (ID precedence)", user.ID)
	}
}

func TestResolverNotFound(t *testing.T) {
	resolver := NewResolver(mock.NewUserStore())

	for _, sel := range []Selector{
		{Kind: ByID, Value: "missing"},
		{Kind: ByNationalID, Value: "000000000000"},
		{}, // empty selector
	} {
		_, err := resolver.Resolve(context.Background(), sel)
		if !errors.Is(err, database.ErrNotFound) {
			t.Errorf("Resolve(%+v) err = %v, want ErrNotFound", sel, err)
		}
	}
}
