package repository

import (
	"context"

	"regen-insight/server/internal/model"
)

// MessageRepository stores admin-to-admin messages.
type MessageRepository interface {
	// Create appends a message.
	Create(ctx context.Context, m *model.Message) error
	// ListForAdmin returns messages the admin sent, received, or that were
	// broadcast, newest first. Relative order of equal timestamps is
	// implementation-defined.
	ListForAdmin(ctx context.Context, adminID string) ([]model.Message, error)
	// MarkRead flips the read flag. Returns errs.ErrNotFound when absent.
	MarkRead(ctx context.Context, id string) error
}

// NotificationRepository stores per-recipient notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	// ListForRecipient returns the recipient's notifications, newest first.
	ListForRecipient(ctx context.Context, recipientID string) ([]model.Notification, error)
	// MarkRead flips the read flag. Returns errs.ErrNotFound when absent.
	MarkRead(ctx context.Context, id string) error
	// MarkAllRead flips the read flag on every notification for the recipient.
	MarkAllRead(ctx context.Context, recipientID string) error
	// Delete removes a notification. Absence of the target is not an error.
	Delete(ctx context.Context, id string) error
}

// TicketRepository stores support tickets and their replies.
type TicketRepository interface {
	Create(ctx context.Context, t *model.Ticket) error
	// GetByID returns a ticket. Returns errs.ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (*model.Ticket, error)
	// ListForUser returns the user's tickets, newest first.
	ListForUser(ctx context.Context, userID string) ([]model.Ticket, error)
	// ListByCounty returns a county's tickets, newest first.
	ListByCounty(ctx context.Context, countyID int) ([]model.Ticket, error)
	// ListAll returns every ticket, newest first.
	ListAll(ctx context.Context) ([]model.Ticket, error)
	// UpdateStatus sets the ticket status. Returns errs.ErrNotFound when absent.
	UpdateStatus(ctx context.Context, id, status string) error
	// AppendReply appends a reply entry. Returns errs.ErrNotFound when absent.
	AppendReply(ctx context.Context, id string, reply model.TicketReply) error
	// CountByCountyAndStatus counts a county's tickets with the given status.
	CountByCountyAndStatus(ctx context.Context, countyID int, status string) (int, error)
}

// UploadRepository stores image upload records and their likes.
type UploadRepository interface {
	Create(ctx context.Context, u *model.Upload) error
	// GetByID returns an upload. Returns errs.ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (*model.Upload, error)
	// ListByCounty returns a county's uploads, newest first.
	ListByCounty(ctx context.Context, countyID int) ([]model.Upload, error)
	// ListMostLiked returns up to limit uploads for a county ordered by like
	// count, highest first.
	ListMostLiked(ctx context.Context, countyID, limit int) ([]model.Upload, error)
	// ToggleLike records or removes userID's like on the upload and returns
	// whether the upload is now liked by the user together with the new
	// count. Counts never go negative. Returns errs.ErrNotFound when absent.
	ToggleLike(ctx context.Context, uploadID, userID string) (liked bool, likes int, err error)
	// CountByCounty counts a county's uploads.
	CountByCounty(ctx context.Context, countyID int) (int, error)
}
