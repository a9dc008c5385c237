package memory

import (
	"context"
	"sort"
	"sync"

	"regen-insight/server/internal/errs"
	"regen-insight/server/internal/model"
)

type TicketRepo struct {
	mu      sync.RWMutex
	tickets map[string]model.Ticket
}

func NewTicketRepo() *TicketRepo {
	return &TicketRepo{tickets: map[string]model.Ticket{}}
}

func (r *TicketRepo) Create(_ context.Context, t *model.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *t
	stored.Replies = append([]model.TicketReply{}, t.Replies...)
	r.tickets[t.ID] = stored
	return nil
}

func (r *TicketRepo) GetByID(_ context.Context, id string) (*model.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tickets[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	out := t
	out.Replies = append([]model.TicketReply{}, t.Replies...)
	return &out, nil
}

func (r *TicketRepo) ListForUser(_ context.Context, userID string) ([]model.Ticket, error) {
	return r.list(func(t model.Ticket) bool { return t.UserID == userID })
}

func (r *TicketRepo) ListByCounty(_ context.Context, countyID int) ([]model.Ticket, error) {
	return r.list(func(t model.Ticket) bool { return t.CountyID == countyID })
}

func (r *TicketRepo) ListAll(_ context.Context) ([]model.Ticket, error) {
	return r.list(func(model.Ticket) bool { return true })
}

func (r *TicketRepo) list(match func(model.Ticket) bool) ([]model.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	relevant := make([]model.Ticket, 0, len(r.tickets))
	for _, t := range r.tickets {
		if match(t) {
			out := t
			out.Replies = append([]model.TicketReply{}, t.Replies...)
			relevant = append(relevant, out)
		}
	}
	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].Timestamp.After(relevant[j].Timestamp)
	})
	return relevant, nil
}

func (r *TicketRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok {
		return errs.ErrNotFound
	}
	t.Status = status
	r.tickets[id] = t
	return nil
}

func (r *TicketRepo) AppendReply(_ context.Context, id string, reply model.TicketReply) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok {
		return errs.ErrNotFound
	}
	t.Replies = append(t.Replies, reply)
	r.tickets[id] = t
	return nil
}

func (r *TicketRepo) CountByCountyAndStatus(_ context.Context, countyID int, status string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, t := range r.tickets {
		if t.CountyID == countyID && t.Status == status {
			count++
		}
	}
	return count, nil
}
