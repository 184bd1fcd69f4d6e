package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"dresscodeplanner/internal/domain"
)

type invitationService struct {
	invitationRepo domain.InvitationRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	acceptBaseURL  string
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewInvitationService creates an InvitationService. acceptBaseURL is the
// public URL prefix the accept token is appended to in invitation emails.
func NewInvitationService(invitationRepo domain.InvitationRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	acceptBaseURL string,
	logger *slog.Logger,
	timeout time.Duration,
) domain.InvitationService {
	return &invitationService{
		invitationRepo: invitationRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		acceptBaseURL:  acceptBaseURL,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *invitationService) Invite(ctx context.Context, eventID, ownerID, recipientEmail string) (*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	recipientEmail = strings.TrimSpace(strings.ToLower(recipientEmail))
	if _, err := mail.ParseAddress(recipientEmail); err != nil {
		return nil, fmt.Errorf("invalid recipient email: %w", domain.ErrInvalidInput)
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}

	inv := domain.NewInvitation(eventID, recipientEmail, uuid.NewString(), s.now())
	if err := s.invitationRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.sendEmail(ctx, event, inv, ownerID)
	return inv, nil
}

// Accept transitions a pending invitation to accepted. Accepting an already
// accepted invitation is a no-op that returns the current state.
func (s *invitationService) Accept(ctx context.Context, token string) (*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	inv, err := s.invitationRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if inv.Status == domain.InviteStatusAccepted {
		return inv, nil
	}
	return s.invitationRepo.UpdateStatus(ctx, inv.ID, domain.InviteStatusAccepted)
}

func (s *invitationService) ListByEvent(ctx context.Context, eventID, ownerID string) ([]*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return s.invitationRepo.ListByEventID(ctx, eventID)
}

// sendEmail delivers the invitation email. Delivery failures are logged but
// never fail the invite; the invitation row already exists.
func (s *invitationService) sendEmail(ctx context.Context, event *domain.Event, inv *domain.Invitation, ownerID string) {
	ownerName := "The organizer"
	if owner, err := s.userRepo.GetByID(ctx, ownerID); err == nil && owner.Name != "" {
		ownerName = owner.Name
	}

	data := &domain.InvitationEmailData{
		Email:     inv.RecipientEmail,
		OwnerName: ownerName,
		EventName: event.Name,
		DressCode: event.DressCode,
		AcceptURL: fmt.Sprintf("%s/%s/accept", strings.TrimSuffix(s.acceptBaseURL, "/"), inv.Token),
	}
	if err := s.emailService.SendInvitation(ctx, data); err != nil {
		s.logger.Warn("failed to send invitation email", "event_id", event.ID, "recipient", inv.RecipientEmail, "error", err)
	}
}
