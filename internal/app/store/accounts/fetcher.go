// internal/app/store/accounts/fetcher.go
package accounts

import (
	"context"

	"github.com/dalemusser/neuronest/internal/app/system/auth"
	"github.com/dalemusser/neuronest/internal/app/system/timeouts"
	"github.com/google/uuid"
)

// Fetcher implements auth.UserFetcher to load fresh user data on each request.
type Fetcher struct {
	store *Store
}

// NewFetcher creates a UserFetcher backed by store.
func NewFetcher(store *Store) *Fetcher {
	return &Fetcher{store: store}
}

// FetchUser retrieves a user by id and returns nil if the user is not found,
// inactive, or if any error occurs.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	a, err := f.store.GetByID(ctx, id)
	if err != nil || !a.User.IsActive {
		return nil
	}

	su := &auth.SessionUser{
		ID:         a.User.ID.String(),
		Name:       a.DisplayName(),
		LoginID:    a.User.Username,
		Email:      a.User.Email,
		Privileged: a.User.IsPrivileged(),
	}
	// Role stays empty for an orphaned user so the login router can reset it.
	if role, ok := a.Role(); ok {
		su.Role = string(role)
	}
	return su
}
