package domain

import (
	"context"
	"errors"
	"time"
)

// Invitation status values. An invitation is created pending and transitions
// once, to accepted; it never reverts.
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
)

// ErrDuplicateInvite is returned when the recipient was already invited to the event.
var ErrDuplicateInvite = errors.New("recipient already invited")

// Invitation represents an email invited to an event.
// swagger:model Invitation
type Invitation struct {
	ID             string    `json:"id"`
	EventID        string    `json:"event_id"`
	RecipientEmail string    `json:"recipient_email"`
	Token          string    `json:"token"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewInvitation returns a pending Invitation. ID is typically set by the repository on create.
func NewInvitation(eventID, recipientEmail, token string, createdAt time.Time) *Invitation {
	return &Invitation{
		EventID:        eventID,
		RecipientEmail: recipientEmail,
		Token:          token,
		Status:         InviteStatusPending,
		CreatedAt:      createdAt,
	}
}

// InvitationRepository defines storage operations for event invitations.
type InvitationRepository interface {
	Create(ctx context.Context, inv *Invitation) error
	GetByToken(ctx context.Context, token string) (*Invitation, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Invitation, error)
	UpdateStatus(ctx context.Context, id, status string) (*Invitation, error)
}

// InvitationService defines the business logic for invitations.
type InvitationService interface {
	Invite(ctx context.Context, eventID, ownerID, recipientEmail string) (*Invitation, error)
	Accept(ctx context.Context, token string) (*Invitation, error)
	ListByEvent(ctx context.Context, eventID, ownerID string) ([]*Invitation, error)
}

// InvitationEmailData holds data for the invitation email template.
type InvitationEmailData struct {
	Email     string
	OwnerName string
	EventName string
	DressCode string
	AcceptURL string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendInvitation(ctx context.Context, data *InvitationEmailData) error
}

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data interface{}) (subject, htmlBody, textBody string, err error)
}
