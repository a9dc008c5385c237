// Package session stores server-side session records keyed by hashed opaque
// tokens. A principal holds at most one active session per kind: logging in
// again replaces the previous session.
package session

import (
	"context"
	"time"
)

// Record is the server-side state behind one opaque session token.
type Record struct {
	Kind        string    `json:"kind"`
	PrincipalID string    `json:"principalId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Store persists session records. Implementations enforce the TTL and the
// one-session-per-principal rule.
type Store interface {
	// Put stores the record under the hashed token, evicting any previous
	// session held by the same (kind, principal).
	Put(ctx context.Context, tokenHash string, rec Record) error
	// Get returns the record for the hashed token. Returns
	// errs.ErrSessionExpired when the token is unknown or past its TTL.
	Get(ctx context.Context, tokenHash string) (*Record, error)
	// Delete removes the session. Absence is not an error.
	Delete(ctx context.Context, tokenHash string) error
	// DeleteByPrincipal removes the principal's active session, if any.
	DeleteByPrincipal(ctx context.Context, kind, principalID string) error
}

func principalKey(kind, principalID string) string {
	return kind + ":" + principalID
}
