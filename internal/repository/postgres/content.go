package postgres

import (
	"context"

	"regen-insight/server/internal/errs"
	"regen-insight/server/internal/model"
)

// MessageRepo implements repository.MessageRepository. Attachments are stored
// as a nullable jsonb column.
type MessageRepo struct{ db *DB }

func NewMessageRepo(db *DB) *MessageRepo { return &MessageRepo{db: db} }

func (r *MessageRepo) Create(ctx context.Context, m *model.Message) error {
	const q = `
INSERT INTO messages (id, sender_id, sender_name, sender_county, recipient_id, recipient_name, content, attachment, ts, read)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Pool.Exec(ctx, q, m.ID, m.SenderID, m.SenderName, m.SenderCounty, m.RecipientID, m.RecipientName, m.Content, m.Attachment, m.Timestamp, m.Read)
	return err
}

func (r *MessageRepo) ListForAdmin(ctx context.Context, adminID string) ([]model.Message, error) {
	const q = `
SELECT id, sender_id, sender_name, sender_county, recipient_id, recipient_name, content, attachment, ts, read
FROM messages
WHERE sender_id=$1 OR recipient_id=$1 OR recipient_id=$2
ORDER BY ts DESC`
	rows, err := r.db.Pool.Query(ctx, q, adminID, model.BroadcastRecipient)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.SenderName, &m.SenderCounty, &m.RecipientID, &m.RecipientName, &m.Content, &m.Attachment, &m.Timestamp, &m.Read); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MessageRepo) MarkRead(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE messages SET read=true WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// NotificationRepo implements repository.NotificationRepository.
type NotificationRepo struct{ db *DB }

func NewNotificationRepo(db *DB) *NotificationRepo { return &NotificationRepo{db: db} }

func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	const q = `
INSERT INTO notifications (id, recipient_id, type, title, message, ticket_id, ts, read)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Pool.Exec(ctx, q, n.ID, n.RecipientID, n.Type, n.Title, n.Message, nullIfEmpty(n.TicketID), n.Timestamp, n.Read)
	return err
}

func (r *NotificationRepo) ListForRecipient(ctx context.Context, recipientID string) ([]model.Notification, error) {
	const q = `
SELECT id, recipient_id, type, title, message, COALESCE(ticket_id, ''), ts, read
FROM notifications WHERE recipient_id=$1 ORDER BY ts DESC`
	rows, err := r.db.Pool.Query(ctx, q, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Type, &n.Title, &n.Message, &n.TicketID, &n.Timestamp, &n.Read); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE notifications SET read=true WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipientID string) error {
	_, err := r.db.Pool.Exec(ctx, `UPDATE notifications SET read=true WHERE recipient_id=$1`, recipientID)
	return err
}

func (r *NotificationRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM notifications WHERE id=$1`, id)
	return err
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
