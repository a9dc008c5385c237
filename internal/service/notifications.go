package service

import (
	"context"

	"regen-insight/server/internal/model"
)

// Inbox is a recipient's notification list with its unread count.
type Inbox struct {
	Notifications []model.Notification `json:"notifications"`
	Unread        int                  `json:"unread"`
}

// ListNotifications returns the recipient's notifications, newest first.
func (s *Service) ListNotifications(ctx context.Context, recipientID string) (*Inbox, error) {
	list, err := s.repos.Notifications.ListForRecipient(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	unread := 0
	for _, n := range list {
		if !n.Read {
			unread++
		}
	}
	if list == nil {
		list = []model.Notification{}
	}
	return &Inbox{Notifications: list, Unread: unread}, nil
}

// MarkNotificationRead flags one notification as read.
func (s *Service) MarkNotificationRead(ctx context.Context, id string) error {
	return s.repos.Notifications.MarkRead(ctx, id)
}

// MarkAllNotificationsRead flags every notification for the recipient.
func (s *Service) MarkAllNotificationsRead(ctx context.Context, recipientID string) error {
	return s.repos.Notifications.MarkAllRead(ctx, recipientID)
}

// DeleteNotification removes one notification. Idempotent.
func (s *Service) DeleteNotification(ctx context.Context, id string) error {
	return s.repos.Notifications.Delete(ctx, id)
}
