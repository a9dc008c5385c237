// Package service implements the application operations on top of the
// repositories and the session store.
package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"regen-insight/server/internal/config"
	"regen-insight/server/internal/repository"
	"regen-insight/server/internal/session"
)

// ChiefAdminID is the fixed id of the bootstrap chief administrator.
const ChiefAdminID = "chief-admin"

// Repos bundles the repositories a Service works against.
type Repos struct {
	Users         repository.UserRepository
	Admins        repository.AdminRepository
	Messages      repository.MessageRepository
	Notifications repository.NotificationRepository
	Tickets       repository.TicketRepository
	Uploads       repository.UploadRepository
}

// Service carries all application operations. Safe for concurrent use.
type Service struct {
	cfg      config.Config
	repos    Repos
	sessions session.Store
	log      *zap.Logger

	now   func() time.Time
	newID func() string
}

func New(cfg config.Config, repos Repos, sessions session.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		cfg:      cfg,
		repos:    repos,
		sessions: sessions,
		log:      log,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
