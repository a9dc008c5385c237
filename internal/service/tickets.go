package service

import (
	"context"
	"fmt"

	"regen-insight/server/internal/county"
	"regen-insight/server/internal/errs"
	"regen-insight/server/internal/model"
)

func validTicketType(t string) bool {
	switch t {
	case model.TicketQuestion, model.TicketIssue, model.TicketFeedback, model.TicketReport:
		return true
	}
	return false
}

func validTicketStatus(st string) bool {
	switch st {
	case model.StatusPending, model.StatusInProgress, model.StatusResolved:
		return true
	}
	return false
}

// SubmitTicket files a support ticket for the user's current region and
// notifies the routed admin (the county sub-admin, or the chief when the
// county has none).
func (s *Service) SubmitTicket(ctx context.Context, userID, subject, message, ticketType string) (*model.Ticket, error) {
	if !validTicketType(ticketType) {
		return nil, fmt.Errorf("%w: unknown ticket type %q", errs.ErrValidation, ticketType)
	}
	u, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	t := &model.Ticket{
		ID:         s.newID(),
		UserID:     u.ID,
		UserName:   u.Name,
		UserEmail:  u.Email,
		CountyID:   u.CurrentRegion,
		CountyName: county.Name(u.CurrentRegion),
		Subject:    subject,
		Message:    message,
		Type:       ticketType,
		Status:     model.StatusPending,
		Timestamp:  s.now(),
		Replies:    []model.TicketReply{},
	}
	if err := s.repos.Tickets.Create(ctx, t); err != nil {
		return nil, err
	}

	adminID, err := s.RouteTicket(ctx, t.CountyID)
	if err != nil {
		return nil, err
	}
	err = s.repos.Notifications.Create(ctx, &model.Notification{
		ID:          s.newID(),
		RecipientID: adminID,
		Type:        model.NotificationTicket,
		Title:       "New Support Ticket",
		Message:     fmt.Sprintf("%s submitted a %s: %s", u.Name, t.Type, t.Subject),
		TicketID:    t.ID,
		Timestamp:   t.Timestamp,
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListUserTickets returns the user's tickets, newest first.
func (s *Service) ListUserTickets(ctx context.Context, userID string) ([]model.Ticket, error) {
	return s.repos.Tickets.ListForUser(ctx, userID)
}

// ListAdminTickets returns tickets visible to the admin: every ticket for the
// chief, the county's tickets for a sub-admin.
func (s *Service) ListAdminTickets(ctx context.Context, adminID string) ([]model.Ticket, error) {
	a, err := s.repos.Admins.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if a.Role == model.RoleChief {
		return s.repos.Tickets.ListAll(ctx)
	}
	if a.CountyID == nil {
		return nil, errs.ErrInvalidCounty
	}
	return s.repos.Tickets.ListByCounty(ctx, *a.CountyID)
}

// UpdateTicketStatus sets a ticket's status. Any valid status may follow any
// other.
func (s *Service) UpdateTicketStatus(ctx context.Context, ticketID, status string) (*model.Ticket, error) {
	if !validTicketStatus(status) {
		return nil, fmt.Errorf("%w: unknown ticket status %q", errs.ErrValidation, status)
	}
	if err := s.repos.Tickets.UpdateStatus(ctx, ticketID, status); err != nil {
		return nil, err
	}
	return s.repos.Tickets.GetByID(ctx, ticketID)
}

// ReplyToTicket appends an admin reply to the ticket.
func (s *Service) ReplyToTicket(ctx context.Context, ticketID, adminID, message string) (*model.Ticket, error) {
	a, err := s.repos.Admins.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	reply := model.TicketReply{
		Message:   message,
		AdminName: a.Name,
		Timestamp: s.now(),
	}
	if err := s.repos.Tickets.AppendReply(ctx, ticketID, reply); err != nil {
		return nil, err
	}
	return s.repos.Tickets.GetByID(ctx, ticketID)
}
