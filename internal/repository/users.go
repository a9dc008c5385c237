// Package repository defines storage interfaces implemented by the postgres
// and memory backends. Invariant enforcement (unique email, one sub-admin per
// county, the 47 cap) belongs to this layer and the services above it, not to
// the storage substrate.
package repository

import (
	"context"

	"regen-insight/server/internal/model"
)

// UserRepository provides CRUD access to end-user accounts.
type UserRepository interface {
	// Create inserts a new user. Returns errs.ErrDuplicateEmail when the
	// email is already registered.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by id. Returns errs.ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (*model.User, error)
	// GetByEmail loads a user by email. Returns errs.ErrNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// UpdateRegion sets the user's current active county.
	UpdateRegion(ctx context.Context, id string, countyID int) error
	// Delete removes a user. Absence of the target is not an error.
	Delete(ctx context.Context, id string) error
	// List returns all users, newest first.
	List(ctx context.Context) ([]model.User, error)
	// Count returns the total number of users.
	Count(ctx context.Context) (int, error)
	// CountByCounty counts users registered to a county.
	CountByCounty(ctx context.Context, countyID int) (int, error)
}
