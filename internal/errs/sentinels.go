// Package errs contains sentinel errors used across layers for stable error mapping.
//
// The messages are returned verbatim in API results, so they keep their
// user-facing capitalisation rather than the usual lowercase error style.
package errs

import "errors"

var (
	// ErrInvalidCredentials indicates a failed user login.
	ErrInvalidCredentials = errors.New("Invalid credentials")

	// ErrInvalidAdminCredentials indicates a failed admin login.
	ErrInvalidAdminCredentials = errors.New("Invalid admin credentials")

	// ErrDuplicateEmail indicates a signup with an email that is already registered.
	ErrDuplicateEmail = errors.New("User already exists")

	// ErrCountyAssigned indicates a sub-admin already exists for the target county.
	ErrCountyAssigned = errors.New("Sub-admin already exists for this county")

	// ErrCapacityExceeded indicates the sub-admin count has reached the 47-county cap.
	ErrCapacityExceeded = errors.New("Maximum number of sub-admins reached (47)")

	// ErrAdminNotFound indicates the target admin record does not exist.
	ErrAdminNotFound = errors.New("Admin not found")

	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("Not found")

	// ErrInvalidCounty indicates a county id outside the 47-entry reference list.
	ErrInvalidCounty = errors.New("Invalid county")

	// ErrValidation indicates a request that fails input validation.
	ErrValidation = errors.New("Invalid request")

	// ErrSessionExpired indicates no active session exists for the principal.
	ErrSessionExpired = errors.New("Session expired")

	// ErrNetwork indicates a transport failure in the remote API client.
	ErrNetwork = errors.New("Network error")
)
