// Package identity maps inbound requests to registered users and handles
// user registration.
package identity

import (
	"context"
	"fmt"

	"github.com/kozaktomas/face-attend/internal/database"
)

// SelectorKind distinguishes how a user is being referenced.
type SelectorKind string

const (
	ByID         SelectorKind = "byId"
	ByNationalID SelectorKind = "byNationalId"
)

// Selector identifies a user either by internal ID or by national ID.
// The zero value is invalid and never resolves.
type Selector struct {
	Kind  SelectorKind
	Value string
}

// NewSelector builds a selector from the two optional request fields.
// A user ID takes precedence over a national ID when both are present.
// Returns false if neither field is set.
func NewSelector(userID, nationalID string) (Selector, bool) {
	if userID != "" {
		return Selector{Kind: ByID, Value: userID}, true
	}
	if nationalID != "" {
		return Selector{Kind: ByNationalID, Value: nationalID}, true
	}
	return Selector{}, false
}

// Resolver looks up users by selector. Pure lookup, no side effects.
type Resolver struct {
	users database.UserStore
}

func NewResolver(users database.UserStore) *Resolver {
	return &Resolver{users: users}
}

// Resolve returns the user the selector refers to, or database.ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, sel Selector) (*database.User, error) {
	switch sel.Kind {
	case ByID:
		return r.users.GetByID(ctx, sel.Value)
	case ByNationalID:
		return r.users.GetByNationalID(ctx, sel.Value)
	default:
		return nil, fmt.Errorf("empty selector: %w", database.ErrNotFound)
	}
}
