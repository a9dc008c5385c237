package service

import (
	"context"
	"errors"

	"regen-insight/server/internal/auth"
	"regen-insight/server/internal/county"
	"regen-insight/server/internal/crypto"
	"regen-insight/server/internal/errs"
	"regen-insight/server/internal/model"
	"regen-insight/server/internal/session"
)

// UserLogin is the result of a successful user login or signup.
type UserLogin struct {
	User         model.UserProfile `json:"user"`
	AccessToken  string            `json:"accessToken"`
	SessionToken string            `json:"sessionToken"`
}

// AdminLogin is the result of a successful admin login.
type AdminLogin struct {
	Admin        model.AdminProfile `json:"admin"`
	AccessToken  string             `json:"accessToken"`
	SessionToken string             `json:"sessionToken"`
}

// LoginUser verifies user credentials and opens a session. An earlier session
// for the same user is replaced.
func (s *Service) LoginUser(ctx context.Context, email, password string) (*UserLogin, error) {
	u, err := s.repos.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrInvalidCredentials
		}
		return nil, err
	}
	if crypto.CheckPassword(u.PasswordHash, password) != nil {
		return nil, errs.ErrInvalidCredentials
	}
	return s.openUserSession(ctx, u)
}

// SignupAndLogin registers the user and immediately opens their session.
func (s *Service) SignupAndLogin(ctx context.Context, name, email, password string, countyID int) (*UserLogin, error) {
	profile, err := s.SignupUser(ctx, name, email, password, countyID)
	if err != nil {
		return nil, err
	}
	u, err := s.repos.Users.GetByID(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	return s.openUserSession(ctx, u)
}

func (s *Service) openUserSession(ctx context.Context, u *model.User) (*UserLogin, error) {
	token, hash, err := s.openSession(ctx, model.KindUser, u.ID)
	if err != nil {
		return nil, err
	}
	access, err := auth.NewAccessToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.AccessTokenTTL, auth.Claims{
		PrincipalID: u.ID,
		Kind:        model.KindUser,
		SessionHash: hash,
	})
	if err != nil {
		return nil, err
	}
	return &UserLogin{User: u.Profile(), AccessToken: access, SessionToken: token}, nil
}

// LoginAdmin verifies admin credentials and opens an admin session.
func (s *Service) LoginAdmin(ctx context.Context, email, password string) (*AdminLogin, error) {
	a, err := s.repos.Admins.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, errs.ErrAdminNotFound) {
			return nil, errs.ErrInvalidAdminCredentials
		}
		return nil, err
	}
	if crypto.CheckPassword(a.PasswordHash, password) != nil {
		return nil, errs.ErrInvalidAdminCredentials
	}
	token, hash, err := s.openSession(ctx, model.KindAdmin, a.ID)
	if err != nil {
		return nil, err
	}
	access, err := auth.NewAccessToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.AccessTokenTTL, auth.Claims{
		PrincipalID: a.ID,
		Kind:        model.KindAdmin,
		Role:        a.Role,
		CountyID:    a.CountyID,
		SessionHash: hash,
	})
	if err != nil {
		return nil, err
	}
	return &AdminLogin{Admin: a.Profile(), AccessToken: access, SessionToken: token}, nil
}

func (s *Service) openSession(ctx context.Context, kind, principalID string) (token, hash string, err error) {
	token, err = crypto.NewSessionToken()
	if err != nil {
		return "", "", err
	}
	hash = crypto.HashToken(token)
	rec := session.Record{Kind: kind, PrincipalID: principalID, CreatedAt: s.now()}
	if err := s.sessions.Put(ctx, hash, rec); err != nil {
		return "", "", err
	}
	return token, hash, nil
}

// CheckSession verifies that the session an access token was minted for is
// still alive and still belongs to the same principal. Logout, eviction by a
// newer login, and account deletion all surface as errs.ErrSessionExpired.
func (s *Service) CheckSession(ctx context.Context, kind, principalID, sessionHash string) error {
	rec, err := s.sessions.Get(ctx, sessionHash)
	if err != nil {
		return err
	}
	if rec.Kind != kind || rec.PrincipalID != principalID {
		return errs.ErrSessionExpired
	}
	return nil
}

// Logout destroys the session behind the opaque token. Unknown tokens are a
// no-op so logout is idempotent.
func (s *Service) Logout(ctx context.Context, sessionToken string) error {
	return s.sessions.Delete(ctx, crypto.HashToken(sessionToken))
}

// SwitchRegion changes the county the user is currently browsing.
func (s *Service) SwitchRegion(ctx context.Context, userID string, countyID int) (*model.UserProfile, error) {
	if !county.Valid(countyID) {
		return nil, errs.ErrInvalidCounty
	}
	if err := s.repos.Users.UpdateRegion(ctx, userID, countyID); err != nil {
		return nil, err
	}
	u, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := u.Profile()
	return &profile, nil
}

// CurrentUser returns the credential-stripped profile for a user principal.
func (s *Service) CurrentUser(ctx context.Context, userID string) (*model.UserProfile, error) {
	u, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := u.Profile()
	return &profile, nil
}

// CurrentAdmin returns the credential-stripped profile for an admin principal.
func (s *Service) CurrentAdmin(ctx context.Context, adminID string) (*model.AdminProfile, error) {
	a, err := s.repos.Admins.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	profile := a.Profile()
	return &profile, nil
}
