package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dresscodeplanner/internal/domain"
)

func newTestInvitationService(eventRepo *fakeEventRepo, userRepo *fakeUserRepo, emails *fakeEmailService) (domain.InvitationService, *fakeInvitationRepo) {
	invRepo := newFakeInvitationRepo()
	svc := NewInvitationService(invRepo, eventRepo, userRepo, emails, "https://app.example.com/invites", testLogger(), 5*time.Second)
	return svc, invRepo
}

func seedEvent(t *testing.T, repo *fakeEventRepo, owner string) *domain.Event {
	t.Helper()
	e := validEvent(owner)
	require.NoError(t, repo.Create(context.Background(), e))
	return e
}

func TestInvite(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending invitation and sends email", func(t *testing.T) {
		eventRepo := newFakeEventRepo()
		userRepo := newFakeUserRepo()
		owner := domain.NewUser("mara@example.com", "Mara", "h", "s", time.Now(), time.Now())
		require.NoError(t, userRepo.Create(ctx, owner))
		emails := &fakeEmailService{}
		event := seedEvent(t, eventRepo, owner.ID)
		svc, _ := newTestInvitationService(eventRepo, userRepo, emails)

		inv, err := svc.Invite(ctx, event.ID, owner.ID, "Guest@Example.com")
		require.NoError(t, err)
		assert.Equal(t, domain.InviteStatusPending, inv.Status)
		assert.Equal(t, "guest@example.com", inv.RecipientEmail)
		assert.NotEmpty(t, inv.Token)

		require.Len(t, emails.sent, 1)
		assert.Equal(t, "Mara", emails.sent[0].OwnerName)
		assert.Equal(t, event.Name, emails.sent[0].EventName)
		assert.Contains(t, emails.sent[0].AcceptURL, inv.Token)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		eventRepo := newFakeEventRepo()
		event := seedEvent(t, eventRepo, "user-1")
		svc, _ := newTestInvitationService(eventRepo, newFakeUserRepo(), &fakeEmailService{})

		_, err := svc.Invite(ctx, event.ID, "user-2", "guest@example.com")
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("duplicate recipient is rejected", func(t *testing.T) {
		eventRepo := newFakeEventRepo()
		event := seedEvent(t, eventRepo, "user-1")
		svc, _ := newTestInvitationService(eventRepo, newFakeUserRepo(), &fakeEmailService{})

		_, err := svc.Invite(ctx, event.ID, "user-1", "guest@example.com")
		require.NoError(t, err)
		_, err = svc.Invite(ctx, event.ID, "user-1", "GUEST@example.com")
		require.ErrorIs(t, err, domain.ErrDuplicateInvite)
	})

	t.Run("invalid email is rejected", func(t *testing.T) {
		eventRepo := newFakeEventRepo()
		event := seedEvent(t, eventRepo, "user-1")
		svc, _ := newTestInvitationService(eventRepo, newFakeUserRepo(), &fakeEmailService{})

		_, err := svc.Invite(ctx, event.ID, "user-1", "not-an-email")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("email failure does not fail the invite", func(t *testing.T) {
		eventRepo := newFakeEventRepo()
		event := seedEvent(t, eventRepo, "user-1")
		emails := &fakeEmailService{err: assert.AnError}
		svc, invRepo := newTestInvitationService(eventRepo, newFakeUserRepo(), emails)

		inv, err := svc.Invite(ctx, event.ID, "user-1", "guest@example.com")
		require.NoError(t, err)
		assert.Len(t, invRepo.byID, 1)
		assert.Equal(t, domain.InviteStatusPending, inv.Status)
	})
}

func TestAccept(t *testing.T) {
	ctx := context.Background()
	eventRepo := newFakeEventRepo()
	event := seedEvent(t, eventRepo, "user-1")
	svc, _ := newTestInvitationService(eventRepo, newFakeUserRepo(), &fakeEmailService{})

	inv, err := svc.Invite(ctx, event.ID, "user-1", "guest@example.com")
	require.NoError(t, err)

	accepted, err := svc.Accept(ctx, inv.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.InviteStatusAccepted, accepted.Status)

	// Accepting again is idempotent.
	again, err := svc.Accept(ctx, inv.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.InviteStatusAccepted, again.Status)

	_, err = svc.Accept(ctx, "no-such-token")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListByEvent(t *testing.T) {
	ctx := context.Background()
	eventRepo := newFakeEventRepo()
	event := seedEvent(t, eventRepo, "user-1")
	svc, _ := newTestInvitationService(eventRepo, newFakeUserRepo(), &fakeEmailService{})

	_, err := svc.Invite(ctx, event.ID, "user-1", "a@example.com")
	require.NoError(t, err)
	_, err = svc.Invite(ctx, event.ID, "user-1", "b@example.com")
	require.NoError(t, err)

	invs, err := svc.ListByEvent(ctx, event.ID, "user-1")
	require.NoError(t, err)
	assert.Len(t, invs, 2)

	_, err = svc.ListByEvent(ctx, event.ID, "user-2")
	require.ErrorIs(t, err, domain.ErrForbidden)
}
