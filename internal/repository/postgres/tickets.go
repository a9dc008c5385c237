package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"regen-insight/server/internal/errs"
	"regen-insight/server/internal/model"
)

// TicketRepo implements repository.TicketRepository. Replies live in a jsonb
// array on the ticket row; appends go through jsonb concatenation so two
// concurrent replies both survive.
type TicketRepo struct{ db *DB }

func NewTicketRepo(db *DB) *TicketRepo { return &TicketRepo{db: db} }

const ticketColumns = `id, user_id, user_name, user_email, county_id, county_name, subject, message, type, status, ts, replies`

func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) error {
	const q = `
INSERT INTO tickets (id, user_id, user_name, user_email, county_id, county_name, subject, message, type, status, ts, replies)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	replies := t.Replies
	if replies == nil {
		replies = []model.TicketReply{}
	}
	_, err := r.db.Pool.Exec(ctx, q, t.ID, t.UserID, t.UserName, t.UserEmail, t.CountyID, t.CountyName, t.Subject, t.Message, t.Type, t.Status, t.Timestamp, replies)
	return err
}

func (r *TicketRepo) GetByID(ctx context.Context, id string) (*model.Ticket, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id)
	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func scanTicket(row pgx.Row) (*model.Ticket, error) {
	var t model.Ticket
	if err := row.Scan(&t.ID, &t.UserID, &t.UserName, &t.UserEmail, &t.CountyID, &t.CountyName, &t.Subject, &t.Message, &t.Type, &t.Status, &t.Timestamp, &t.Replies); err != nil {
		return nil, err
	}
	if t.Replies == nil {
		t.Replies = []model.TicketReply{}
	}
	return &t, nil
}

func (r *TicketRepo) list(ctx context.Context, q string, args ...any) ([]model.Ticket, error) {
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *TicketRepo) ListForUser(ctx context.Context, userID string) ([]model.Ticket, error) {
	return r.list(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE user_id=$1 ORDER BY ts DESC`, userID)
}

func (r *TicketRepo) ListByCounty(ctx context.Context, countyID int) ([]model.Ticket, error) {
	return r.list(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE county_id=$1 ORDER BY ts DESC`, countyID)
}

func (r *TicketRepo) ListAll(ctx context.Context) ([]model.Ticket, error) {
	return r.list(ctx, `SELECT `+ticketColumns+` FROM tickets ORDER BY ts DESC`)
}

func (r *TicketRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE tickets SET status=$2 WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *TicketRepo) AppendReply(ctx context.Context, id string, reply model.TicketReply) error {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE tickets SET replies = replies || $2::jsonb WHERE id=$1`, id, []model.TicketReply{reply})
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *TicketRepo) CountByCountyAndStatus(ctx context.Context, countyID int, status string) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM tickets WHERE county_id=$1 AND status=$2`, countyID, status).Scan(&count)
	return count, err
}
