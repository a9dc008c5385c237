package memory

import (
	"context"
	"sort"
	"sync"

	"regen-insight/server/internal/errs"
	"regen-insight/server/internal/model"
)

type MessageRepo struct {
	mu       sync.RWMutex
	messages map[string]model.Message
}

func NewMessageRepo() *MessageRepo {
	return &MessageRepo{messages: map[string]model.Message{}}
}

func (r *MessageRepo) Create(_ context.Context, m *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[m.ID] = *m
	return nil
}

func (r *MessageRepo) ListForAdmin(_ context.Context, adminID string) ([]model.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	relevant := make([]model.Message, 0, len(r.messages))
	for _, m := range r.messages {
		if m.SenderID == adminID || m.RecipientID == adminID || m.RecipientID == model.BroadcastRecipient {
			relevant = append(relevant, m)
		}
	}
	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].Timestamp.After(relevant[j].Timestamp)
	})
	return relevant, nil
}

func (r *MessageRepo) MarkRead(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok {
		return errs.ErrNotFound
	}
	m.Read = true
	r.messages[id] = m
	return nil
}

type NotificationRepo struct {
	mu            sync.RWMutex
	notifications map[string]model.Notification
}

func NewNotificationRepo() *NotificationRepo {
	return &NotificationRepo{notifications: map[string]model.Notification{}}
}

func (r *NotificationRepo) Create(_ context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications[n.ID] = *n
	return nil
}

func (r *NotificationRepo) ListForRecipient(_ context.Context, recipientID string) ([]model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	relevant := make([]model.Notification, 0, len(r.notifications))
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			relevant = append(relevant, n)
		}
	}
	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].Timestamp.After(relevant[j].Timestamp)
	})
	return relevant, nil
}

func (r *NotificationRepo) MarkRead(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok {
		return errs.ErrNotFound
	}
	n.Read = true
	r.notifications[id] = n
	return nil
}

func (r *NotificationRepo) MarkAllRead(_ context.Context, recipientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, n := range r.notifications {
		if n.RecipientID == recipientID && !n.Read {
			n.Read = true
			r.notifications[id] = n
		}
	}
	return nil
}

func (r *NotificationRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.notifications, id)
	return nil
}
