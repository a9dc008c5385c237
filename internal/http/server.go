// Package http exposes the REST API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"regen-insight/server/internal/auth"
	"regen-insight/server/internal/config"
	"regen-insight/server/internal/county"
	"regen-insight/server/internal/errs"
	"regen-insight/server/internal/model"
	"regen-insight/server/internal/service"
)

type Server struct {
	cfg config.Config
	svc *service.Service
	log *zap.Logger
}

func NewServer(cfg config.Config, svc *service.Service, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{cfg: cfg, svc: svc, log: log}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/counties", s.handleListCounties)
	r.Get("/counties/{countyId}/subadmin", s.handleSubAdminByCounty)

	r.Post("/auth/signup", s.handleSignup)
	r.Post("/auth/login", s.handleUserLogin)
	r.Post("/auth/logout", s.handleLogout)
	r.With(s.authMiddleware, s.requireUser).Get("/auth/me", s.handleUserMe)
	r.With(s.authMiddleware, s.requireUser).Post("/auth/region", s.handleSwitchRegion)

	r.Post("/admin/auth/login", s.handleAdminLogin)
	r.Post("/admin/auth/logout", s.handleLogout)
	r.With(s.authMiddleware, s.requireAdmin).Get("/admin/auth/me", s.handleAdminMe)

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.authMiddleware, s.requireAdmin)

		r.With(s.requireChief).Post("/subadmins", s.handleCreateSubAdmin)
		r.With(s.requireChief).Get("/subadmins", s.handleListSubAdmins)
		r.With(s.requireChief).Delete("/subadmins/{adminId}", s.handleDeleteSubAdmin)
		r.With(s.requireChief).Get("/users", s.handleListUsers)
		r.With(s.requireChief).Delete("/users/{userId}", s.handleDeleteUser)
		r.With(s.requireChief).Get("/overview", s.handleOverview)

		r.Patch("/admins/{adminId}", s.handleUpdateAdmin)
		r.Get("/directory", s.handleDirectory)
		r.Post("/messages", s.handleSendMessage)
		r.Get("/messages", s.handleListMessages)
		r.Post("/messages/{messageId}/read", s.handleMarkMessageRead)

		r.Get("/notifications", s.handleListNotifications)
		r.Post("/notifications/read", s.handleMarkAllNotificationsRead)
		r.Post("/notifications/{notificationId}/read", s.handleMarkNotificationRead)
		r.Delete("/notifications/{notificationId}", s.handleDeleteNotification)

		r.Get("/tickets", s.handleAdminListTickets)
		r.Patch("/tickets/{ticketId}", s.handleUpdateTicketStatus)
		r.Post("/tickets/{ticketId}/replies", s.handleReplyToTicket)

		r.Get("/stats/{countyId}", s.handleCountyStats)
	})

	r.With(s.authMiddleware, s.requireUser).Post("/tickets", s.handleSubmitTicket)
	r.With(s.authMiddleware, s.requireUser).Get("/tickets", s.handleUserListTickets)

	r.With(s.authMiddleware, s.requireUser).Post("/uploads", s.handleCreateUpload)
	r.Get("/counties/{countyId}/uploads", s.handleListUploads)
	r.With(s.authMiddleware, s.requireUser).Post("/uploads/{uploadId}/like", s.handleToggleLike)

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", clientIP(r)),
			zap.Duration("took", time.Since(start)),
		)
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Missing token")
			return
		}
		claims, err := auth.ParseToken(s.cfg.JWTSecret, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		// A valid signature is not enough: the session behind the token must
		// still exist, so logout and eviction revoke access immediately.
		if err := s.svc.CheckSession(r.Context(), claims.Kind, claims.PrincipalID, claims.SessionHash); err != nil {
			s.writeServiceError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())
		if claims == nil || claims.Kind != model.KindUser {
			writeError(w, http.StatusForbidden, "User account required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())
		if claims == nil || claims.Kind != model.KindAdmin {
			writeError(w, http.StatusForbidden, "Admin account required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireChief(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())
		if claims == nil || claims.Role != model.RoleChief {
			writeError(w, http.StatusForbidden, "Chief admin only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type claimsKey struct{}

func claimsFromContext(ctx context.Context) *auth.Claims {
	value := ctx.Value(claimsKey{})
	claims, _ := value.(*auth.Claims)
	return claims
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	return r.RemoteAddr
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeSuccess merges the payload fields into the success envelope.
func writeSuccess(w http.ResponseWriter, status int, payload map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, status, body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}

// writeServiceError maps a service error to the envelope with the sentinel's
// user-facing message and a matching status.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	for _, sentinel := range []error{
		errs.ErrInvalidCredentials,
		errs.ErrInvalidAdminCredentials,
		errs.ErrSessionExpired,
		errs.ErrDuplicateEmail,
		errs.ErrCountyAssigned,
		errs.ErrCapacityExceeded,
		errs.ErrAdminNotFound,
		errs.ErrNotFound,
		errs.ErrInvalidCounty,
		errs.ErrValidation,
	} {
		if errors.Is(err, sentinel) {
			writeError(w, errorStatus(sentinel), sentinel.Error())
			return
		}
	}
	s.log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

func errorStatus(sentinel error) int {
	switch sentinel {
	case errs.ErrInvalidCredentials, errs.ErrInvalidAdminCredentials, errs.ErrSessionExpired:
		return http.StatusUnauthorized
	case errs.ErrDuplicateEmail, errs.ErrCountyAssigned, errs.ErrCapacityExceeded:
		return http.StatusConflict
	case errs.ErrAdminNotFound, errs.ErrNotFound:
		return http.StatusNotFound
	case errs.ErrInvalidCounty, errs.ErrValidation:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) handleListCounties(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{"counties": county.All()})
}
