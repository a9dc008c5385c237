package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"regen-insight/server/internal/model"
	"regen-insight/server/internal/repository"
	"regen-insight/server/internal/service"
)

type createSubAdminRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	CountyID     int    `json:"countyId"`
	ContactPhone string `json:"contactPhone"`
	ContactEmail string `json:"contactEmail"`
}

func (s *Server) handleCreateSubAdmin(w http.ResponseWriter, r *http.Request) {
	var req createSubAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.Name == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "Name and email are required")
		return
	}
	profile, secret, err := s.svc.CreateSubAdmin(r.Context(), req.Name, req.Email, req.CountyID, req.ContactPhone, req.ContactEmail)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	// The generated secret appears here and nowhere else.
	writeSuccess(w, http.StatusCreated, map[string]any{"admin": profile, "password": secret})
}

func (s *Server) handleListSubAdmins(w http.ResponseWriter, r *http.Request) {
	subs, err := s.svc.ListSubAdmins(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"subAdmins": subs})
}

func (s *Server) handleDeleteSubAdmin(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteSubAdmin(r.Context(), chi.URLParam(r, "adminId")); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.svc.ListUsers(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"users": users})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteUser(r.Context(), chi.URLParam(r, "userId")); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil)
}

type updateAdminRequest struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	ContactPhone *string `json:"contactPhone"`
	ContactEmail *string `json:"contactEmail"`
}

// handleUpdateAdmin patches an admin record. The chief may patch anyone;
// a sub-admin may only patch its own record.
func (s *Server) handleUpdateAdmin(w http.ResponseWriter, r *http.Request) {
	var req updateAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	claims := claimsFromContext(r.Context())
	targetID := chi.URLParam(r, "adminId")
	if claims.Role != model.RoleChief && targetID != claims.PrincipalID {
		writeError(w, http.StatusForbidden, "Chief admin only")
		return
	}
	profile, err := s.svc.UpdateAdmin(r.Context(), targetID, repository.AdminUpdate{
		Name:         req.Name,
		Email:        req.Email,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"admin": profile})
}

func (s *Server) handleDirectory(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	entries, err := s.svc.BuildDirectory(r.Context(), claims.PrincipalID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"directory": entries})
}

type sendMessageRequest struct {
	RecipientID string            `json:"recipientId"`
	Content     string            `json:"content"`
	Attachment  *model.Attachment `json:"sharedContent"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.RecipientID == "" || req.Content == "" {
		writeError(w, http.StatusBadRequest, "Recipient and content are required")
		return
	}
	claims := claimsFromContext(r.Context())
	m, err := s.svc.SendMessage(r.Context(), service.SendMessageInput{
		SenderID:    claims.PrincipalID,
		RecipientID: req.RecipientID,
		Content:     req.Content,
		Attachment:  req.Attachment,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, map[string]any{"message": m})
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	msgs, err := s.svc.ListMessages(r.Context(), claims.PrincipalID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	writeSuccess(w, http.StatusOK, map[string]any{"messages": msgs})
}

func (s *Server) handleMarkMessageRead(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.MarkMessageRead(r.Context(), chi.URLParam(r, "messageId")); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	inbox, err := s.svc.ListNotifications(r.Context(), claims.PrincipalID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"notifications": inbox.Notifications,
		"unread":        inbox.Unread,
	})
}

func (s *Server) handleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if err := s.svc.MarkAllNotificationsRead(r.Context(), claims.PrincipalID); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil)
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.MarkNotificationRead(r.Context(), chi.URLParam(r, "notificationId")); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil)
}

func (s *Server) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteNotification(r.Context(), chi.URLParam(r, "notificationId")); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil)
}

func (s *Server) handleAdminListTickets(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	tickets, err := s.svc.ListAdminTickets(r.Context(), claims.PrincipalID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if tickets == nil {
		tickets = []model.Ticket{}
	}
	writeSuccess(w, http.StatusOK, map[string]any{"tickets": tickets})
}

type updateTicketStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleUpdateTicketStatus(w http.ResponseWriter, r *http.Request) {
	var req updateTicketStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	ticket, err := s.svc.UpdateTicketStatus(r.Context(), chi.URLParam(r, "ticketId"), req.Status)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"ticket": ticket})
}

type replyRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleReplyToTicket(w http.ResponseWriter, r *http.Request) {
	var req replyRequest
	if err := decodeJSON(r, &req); err != nil || req.Message == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}
	claims := claimsFromContext(r.Context())
	ticket, err := s.svc.ReplyToTicket(r.Context(), chi.URLParam(r, "ticketId"), claims.PrincipalID, req.Message)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, map[string]any{"ticket": ticket})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.svc.PlatformOverview(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"overview": overview})
}

func (s *Server) handleCountyStats(w http.ResponseWriter, r *http.Request) {
	countyID, err := strconv.Atoi(chi.URLParam(r, "countyId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid county")
		return
	}
	stats, err := s.svc.Stats(r.Context(), countyID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"stats": stats})
}
