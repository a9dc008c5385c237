package service

import (
	"context"
	"errors"

	"regen-insight/server/internal/county"
	"regen-insight/server/internal/errs"
	"regen-insight/server/internal/model"
)

// BroadcastDirectoryName labels the broadcast pseudo-recipient.
const BroadcastDirectoryName = "All Sub-Admins"

// ChiefCountyLabel is the county label shown for the chief admin.
const ChiefCountyLabel = "Chief Admin"

// BuildDirectory returns the valid message recipients for an admin. The chief
// sees the broadcast entry first, then every sub-admin. A sub-admin sees the
// chief first, then every other sub-admin, never itself.
func (s *Service) BuildDirectory(ctx context.Context, adminID string) ([]model.DirectoryEntry, error) {
	a, err := s.repos.Admins.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	subs, err := s.repos.Admins.ListSubAdmins(ctx)
	if err != nil {
		return nil, err
	}

	var out []model.DirectoryEntry
	if a.Role == model.RoleChief {
		out = append(out, model.DirectoryEntry{ID: model.BroadcastRecipient, Name: BroadcastDirectoryName, CountyName: ""})
	} else {
		chief, err := s.chiefAdmin(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, model.DirectoryEntry{ID: chief.ID, Name: chief.Name, CountyName: ChiefCountyLabel})
	}
	for _, sub := range subs {
		if sub.ID == adminID {
			continue
		}
		entry := model.DirectoryEntry{ID: sub.ID, Name: sub.Name}
		if sub.CountyID != nil {
			entry.CountyName = county.Name(*sub.CountyID)
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *Service) chiefAdmin(ctx context.Context) (*model.Admin, error) {
	return s.repos.Admins.GetByID(ctx, ChiefAdminID)
}

// RouteTicket picks the admin responsible for a county: its sub-admin when
// one exists, otherwise the chief.
func (s *Service) RouteTicket(ctx context.Context, countyID int) (string, error) {
	sub, err := s.repos.Admins.FindSubAdminByCounty(ctx, countyID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return ChiefAdminID, nil
		}
		return "", err
	}
	return sub.ID, nil
}

// SendMessageInput carries one outgoing admin message.
type SendMessageInput struct {
	SenderID    string
	RecipientID string
	Content     string
	Attachment  *model.Attachment
}

// SendMessage records a message and a companion notification for the
// recipient. Broadcast messages notify every sub-admin.
func (s *Service) SendMessage(ctx context.Context, in SendMessageInput) (*model.Message, error) {
	sender, err := s.repos.Admins.GetByID(ctx, in.SenderID)
	if err != nil {
		return nil, err
	}

	senderCounty := ChiefCountyLabel
	if sender.Role == model.RoleSub && sender.CountyID != nil {
		senderCounty = county.Name(*sender.CountyID)
	}

	recipientName := BroadcastDirectoryName
	if in.RecipientID != model.BroadcastRecipient {
		recipient, err := s.repos.Admins.GetByID(ctx, in.RecipientID)
		if err != nil {
			return nil, err
		}
		recipientName = recipient.Name
	}

	if in.Attachment != nil {
		switch in.Attachment.Type {
		case model.AttachmentChart:
			if in.Attachment.CountyID != nil {
				in.Attachment.CountyName = county.Name(*in.Attachment.CountyID)
			}
		case model.AttachmentImage:
			up, err := s.repos.Uploads.GetByID(ctx, in.Attachment.UploadID)
			if err != nil {
				return nil, err
			}
			in.Attachment.CountyID = &up.CountyID
			in.Attachment.CountyName = up.CountyName
		}
	}

	m := &model.Message{
		ID:            s.newID(),
		SenderID:      sender.ID,
		SenderName:    sender.Name,
		SenderCounty:  senderCounty,
		RecipientID:   in.RecipientID,
		RecipientName: recipientName,
		Content:       in.Content,
		Attachment:    in.Attachment,
		Timestamp:     s.now(),
	}
	if err := s.repos.Messages.Create(ctx, m); err != nil {
		return nil, err
	}

	notify := func(recipientID string) error {
		return s.repos.Notifications.Create(ctx, &model.Notification{
			ID:          s.newID(),
			RecipientID: recipientID,
			Type:        model.NotificationMessage,
			Title:       "New Message",
			Message:     sender.Name + " sent you a message",
			Timestamp:   m.Timestamp,
		})
	}
	if in.RecipientID == model.BroadcastRecipient {
		subs, err := s.repos.Admins.ListSubAdmins(ctx)
		if err != nil {
			return nil, err
		}
		for _, sub := range subs {
			if sub.ID == sender.ID {
				continue
			}
			if err := notify(sub.ID); err != nil {
				return nil, err
			}
		}
	} else if err := notify(in.RecipientID); err != nil {
		return nil, err
	}
	return m, nil
}

// ListMessages returns the admin's inbox: sent, received, and broadcast
// messages, newest first.
func (s *Service) ListMessages(ctx context.Context, adminID string) ([]model.Message, error) {
	return s.repos.Messages.ListForAdmin(ctx, adminID)
}

// MarkMessageRead flags a message as read.
func (s *Service) MarkMessageRead(ctx context.Context, messageID string) error {
	return s.repos.Messages.MarkRead(ctx, messageID)
}
