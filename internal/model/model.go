// Package model defines the domain entities shared by services and repositories.
package model

import "time"

// Admin roles.
const (
	RoleChief = "chief"
	RoleSub   = "sub"
)

// Principal kinds carried by sessions and access tokens.
const (
	KindUser  = "user"
	KindAdmin = "admin"
)

// User is an end-user account. CountyID is the registered county; CurrentRegion
// is the county the user is currently browsing and may differ.
type User struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	CountyID      int
	CurrentRegion int
	CreatedAt     time.Time
}

// Profile returns the credential-stripped view of the user, the only form
// exposed outside the repository layer.
func (u User) Profile() UserProfile {
	return UserProfile{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		CountyID:      u.CountyID,
		CurrentRegion: u.CurrentRegion,
		CreatedAt:     u.CreatedAt,
	}
}

// UserProfile is a User without the password hash.
type UserProfile struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	CountyID      int       `json:"region"`
	CurrentRegion int       `json:"currentRegion"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Admin is either the single chief administrator (CountyID nil) or a
// county-scoped sub-administrator.
type Admin struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CountyID     *int
	ContactPhone string
	ContactEmail string
	CreatedAt    time.Time
}

// Profile returns the credential-stripped view of the admin.
func (a Admin) Profile() AdminProfile {
	return AdminProfile{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		Role:         a.Role,
		CountyID:     a.CountyID,
		ContactPhone: a.ContactPhone,
		ContactEmail: a.ContactEmail,
		CreatedAt:    a.CreatedAt,
	}
}

// AdminProfile is an Admin without the password hash.
type AdminProfile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	CountyID     *int      `json:"countyId"`
	ContactPhone string    `json:"contactPhone,omitempty"`
	ContactEmail string    `json:"contactEmail,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// BroadcastRecipient is the reserved recipient id meaning every sub-admin.
const BroadcastRecipient = "all"

// Attachment content types.
const (
	AttachmentChart = "chart"
	AttachmentImage = "image"
)

// Attachment is optional content shared alongside a message: either a chart
// reference (county + chart type) or an upload reference.
type Attachment struct {
	Type       string `json:"type"`
	ChartType  string `json:"chartType,omitempty"`
	CountyID   *int   `json:"countyId,omitempty"`
	CountyName string `json:"countyName,omitempty"`
	UploadID   string `json:"uploadId,omitempty"`
}

// Message is a directed communication between admins, or a broadcast to all
// sub-admins when RecipientID is BroadcastRecipient.
type Message struct {
	ID            string      `json:"id"`
	SenderID      string      `json:"senderId"`
	SenderName    string      `json:"senderName"`
	SenderCounty  string      `json:"senderCounty"`
	RecipientID   string      `json:"recipientId"`
	RecipientName string      `json:"recipientName"`
	Content       string      `json:"content"`
	Attachment    *Attachment `json:"sharedContent,omitempty"`
	Timestamp     time.Time   `json:"timestamp"`
	Read          bool        `json:"read"`
}

// Notification types.
const (
	NotificationMessage = "message"
	NotificationImage   = "image"
	NotificationTicket  = "ticket"
	NotificationOther   = "other"
)

// Notification is a derived side effect of a message or ticket, targeted at
// one recipient.
type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipientId"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	TicketID    string    `json:"ticketId,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Read        bool      `json:"read"`
}

// Ticket types.
const (
	TicketQuestion = "question"
	TicketIssue    = "issue"
	TicketFeedback = "feedback"
	TicketReport   = "report"
)

// Ticket statuses. Any status may follow any other; there is no transition graph.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusResolved   = "resolved"
)

// TicketReply is a single admin response on a ticket.
type TicketReply struct {
	Message   string    `json:"message"`
	AdminName string    `json:"adminName"`
	Timestamp time.Time `json:"timestamp"`
}

// Ticket is a support request from a user, routed to the county sub-admin or
// the chief admin.
type Ticket struct {
	ID         string        `json:"id"`
	UserID     string        `json:"userId"`
	UserName   string        `json:"userName"`
	UserEmail  string        `json:"userEmail"`
	CountyID   int           `json:"countyId"`
	CountyName string        `json:"countyName"`
	Subject    string        `json:"subject"`
	Message    string        `json:"message"`
	Type       string        `json:"type"`
	Status     string        `json:"status"`
	Timestamp  time.Time     `json:"timestamp"`
	Replies    []TicketReply `json:"replies"`
}

// Upload is an image upload record with its like counter.
type Upload struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName"`
	CountyID   int       `json:"countyId"`
	CountyName string    `json:"countyName"`
	Location   string    `json:"location"`
	Comment    string    `json:"comment,omitempty"`
	ObjectKey  string    `json:"objectKey,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Likes      int       `json:"likes"`
}

// DirectoryEntry is one valid message recipient for an admin principal.
type DirectoryEntry struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CountyName string `json:"countyName"`
}
