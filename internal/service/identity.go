package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"regen-insight/server/internal/county"
	"regen-insight/server/internal/crypto"
	"regen-insight/server/internal/errs"
	"regen-insight/server/internal/model"
	"regen-insight/server/internal/repository"
)

// Bootstrap creates the chief administrator when no admins exist yet. Called
// once at startup; safe to call again.
func (s *Service) Bootstrap(ctx context.Context) error {
	count, err := s.repos.Admins.Count(ctx)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := crypto.HashPassword(s.cfg.ChiefAdminPassword)
	if err != nil {
		return fmt.Errorf("hash chief password: %w", err)
	}
	chief := &model.Admin{
		ID:           ChiefAdminID,
		Name:         "Chief Administrator",
		Email:        s.cfg.ChiefAdminEmail,
		PasswordHash: hash,
		Role:         model.RoleChief,
		CreatedAt:    s.now(),
	}
	if err := s.repos.Admins.Create(ctx, chief); err != nil {
		return fmt.Errorf("create chief admin: %w", err)
	}

	s.log.Info("chief admin bootstrapped", zap.String("email", chief.Email))
	if s.cfg.UsingDefaultChiefPassword() {
		s.log.Warn("chief admin is using the default development password; set CHIEF_ADMIN_PASSWORD")
	}
	return nil
}

// SignupUser registers a new user account.
func (s *Service) SignupUser(ctx context.Context, name, email, password string, countyID int) (*model.UserProfile, error) {
	if !county.Valid(countyID) {
		return nil, errs.ErrInvalidCounty
	}
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		ID:            s.newID(),
		Name:          strings.TrimSpace(name),
		Email:         normalizeEmail(email),
		PasswordHash:  hash,
		CountyID:      countyID,
		CurrentRegion: countyID,
		CreatedAt:     s.now(),
	}
	if err := s.repos.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	profile := u.Profile()
	return &profile, nil
}

// CreateSubAdmin creates a county sub-administrator with a generated secret.
// The plaintext secret is returned exactly once and never stored.
func (s *Service) CreateSubAdmin(ctx context.Context, name, email string, countyID int, contactPhone, contactEmail string) (*model.AdminProfile, string, error) {
	if !county.Valid(countyID) {
		return nil, "", errs.ErrInvalidCounty
	}
	secret, err := crypto.NewSecret()
	if err != nil {
		return nil, "", err
	}
	hash, err := crypto.HashPassword(secret)
	if err != nil {
		return nil, "", err
	}
	a := &model.Admin{
		ID:           s.newID(),
		Name:         strings.TrimSpace(name),
		Email:        normalizeEmail(email),
		PasswordHash: hash,
		Role:         model.RoleSub,
		CountyID:     &countyID,
		ContactPhone: contactPhone,
		ContactEmail: contactEmail,
		CreatedAt:    s.now(),
	}
	if err := s.repos.Admins.Create(ctx, a); err != nil {
		return nil, "", err
	}
	s.log.Info("sub-admin created", zap.String("county", county.Name(countyID)))
	profile := a.Profile()
	return &profile, secret, nil
}

// UpdateAdmin applies a shallow patch to an admin record. When the target has
// an active session its stored profile stays valid because sessions carry only
// the principal id; callers re-read on demand.
func (s *Service) UpdateAdmin(ctx context.Context, id string, patch repository.AdminUpdate) (*model.AdminProfile, error) {
	a, err := s.repos.Admins.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	profile := a.Profile()
	return &profile, nil
}

// DeleteSubAdmin removes a sub-admin and its active session. Idempotent.
func (s *Service) DeleteSubAdmin(ctx context.Context, id string) error {
	if err := s.repos.Admins.Delete(ctx, id); err != nil {
		return err
	}
	return s.sessions.DeleteByPrincipal(ctx, model.KindAdmin, id)
}

// DeleteUser removes a user account and its active session. Idempotent.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.repos.Users.Delete(ctx, id); err != nil {
		return err
	}
	return s.sessions.DeleteByPrincipal(ctx, model.KindUser, id)
}

// ListSubAdmins returns every sub-admin in county order, credential-stripped.
func (s *Service) ListSubAdmins(ctx context.Context) ([]model.AdminProfile, error) {
	subs, err := s.repos.Admins.ListSubAdmins(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.AdminProfile, 0, len(subs))
	for _, a := range subs {
		out = append(out, a.Profile())
	}
	return out, nil
}

// ListUsers returns every user, newest first, credential-stripped.
func (s *Service) ListUsers(ctx context.Context) ([]model.UserProfile, error) {
	users, err := s.repos.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.UserProfile, 0, len(users))
	for _, u := range users {
		out = append(out, u.Profile())
	}
	return out, nil
}

// SubAdminByCounty returns the sub-admin responsible for the county.
func (s *Service) SubAdminByCounty(ctx context.Context, countyID int) (*model.AdminProfile, error) {
	if !county.Valid(countyID) {
		return nil, errs.ErrInvalidCounty
	}
	a, err := s.repos.Admins.FindSubAdminByCounty(ctx, countyID)
	if err != nil {
		return nil, err
	}
	profile := a.Profile()
	return &profile, nil
}

// Overview are the platform-wide counters on the chief dashboard.
type Overview struct {
	TotalUsers     int `json:"totalUsers"`
	TotalSubAdmins int `json:"totalSubAdmins"`
	Capacity       int `json:"capacity"`
}

// PlatformOverview collects the chief dashboard counters. Capacity is the
// county count, so the dashboard can render "n/47 counties covered".
func (s *Service) PlatformOverview(ctx context.Context) (*Overview, error) {
	users, err := s.repos.Users.Count(ctx)
	if err != nil {
		return nil, err
	}
	subs, err := s.repos.Admins.CountSubAdmins(ctx)
	if err != nil {
		return nil, err
	}
	return &Overview{TotalUsers: users, TotalSubAdmins: subs, Capacity: county.Count}, nil
}

// CountyStats are the dashboard counters for one county.
type CountyStats struct {
	CountyID        int    `json:"countyId"`
	CountyName      string `json:"countyName"`
	Users           int    `json:"users"`
	Uploads         int    `json:"uploads"`
	PendingTickets  int    `json:"pendingTickets"`
	OpenTickets     int    `json:"openTickets"`
	ResolvedTickets int    `json:"resolvedTickets"`
}

// Stats collects per-county counters for the admin dashboard.
func (s *Service) Stats(ctx context.Context, countyID int) (*CountyStats, error) {
	if !county.Valid(countyID) {
		return nil, errs.ErrInvalidCounty
	}
	users, err := s.repos.Users.CountByCounty(ctx, countyID)
	if err != nil {
		return nil, err
	}
	uploads, err := s.repos.Uploads.CountByCounty(ctx, countyID)
	if err != nil {
		return nil, err
	}
	pending, err := s.repos.Tickets.CountByCountyAndStatus(ctx, countyID, model.StatusPending)
	if err != nil {
		return nil, err
	}
	open, err := s.repos.Tickets.CountByCountyAndStatus(ctx, countyID, model.StatusInProgress)
	if err != nil {
		return nil, err
	}
	resolved, err := s.repos.Tickets.CountByCountyAndStatus(ctx, countyID, model.StatusResolved)
	if err != nil {
		return nil, err
	}
	return &CountyStats{
		CountyID:        countyID,
		CountyName:      county.Name(countyID),
		Users:           users,
		Uploads:         uploads,
		PendingTickets:  pending,
		OpenTickets:     open,
		ResolvedTickets: resolved,
	}, nil
}
