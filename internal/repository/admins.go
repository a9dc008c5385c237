package repository

import (
	"context"

	"regen-insight/server/internal/model"
)

// AdminUpdate is a shallow-merge patch for an admin record. Nil fields are
// left unchanged.
type AdminUpdate struct {
	Name         *string
	Email        *string
	ContactPhone *string
	ContactEmail *string
}

// AdminRepository provides CRUD access to administrator accounts.
type AdminRepository interface {
	// Create inserts a new admin. For role=sub it returns
	// errs.ErrCountyAssigned when the county already has a sub-admin and
	// errs.ErrCapacityExceeded when the sub-admin cap is reached.
	Create(ctx context.Context, a *model.Admin) error
	// GetByID loads an admin by id. Returns errs.ErrAdminNotFound when absent.
	GetByID(ctx context.Context, id string) (*model.Admin, error)
	// GetByEmail loads an admin by email. Returns errs.ErrAdminNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
	// Update shallow-merges patch into the record and returns the result.
	// Returns errs.ErrAdminNotFound when absent.
	Update(ctx context.Context, id string, patch AdminUpdate) (*model.Admin, error)
	// Delete removes an admin. Absence of the target is not an error.
	Delete(ctx context.Context, id string) error
	// ListSubAdmins returns all role=sub admins, ordered by county.
	ListSubAdmins(ctx context.Context) ([]model.Admin, error)
	// FindSubAdminByCounty returns the sub-admin for a county, or
	// errs.ErrNotFound when the county has none.
	FindSubAdminByCounty(ctx context.Context, countyID int) (*model.Admin, error)
	// Count returns the total number of admins of any role.
	Count(ctx context.Context) (int, error)
	// CountSubAdmins returns the number of role=sub admins.
	CountSubAdmins(ctx context.Context) (int, error)
}
