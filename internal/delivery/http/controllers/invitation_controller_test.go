package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dresscodeplanner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInvitationService implements domain.InvitationService for handler tests.
type fakeInvitationService struct {
	inviteErr     error
	lastEventID   string
	lastOwnerID   string
	lastRecipient string
	acceptErr     error
	acceptResult  *domain.Invitation
	listErr       error
	listResult    []*domain.Invitation
}

func (f *fakeInvitationService) Invite(ctx context.Context, eventID, ownerID, recipientEmail string) (*domain.Invitation, error) {
	if f.inviteErr != nil {
		return nil, f.inviteErr
	}
	f.lastEventID = eventID
	f.lastOwnerID = ownerID
	f.lastRecipient = recipientEmail
	return &domain.Invitation{ID: "inv-1", EventID: eventID, RecipientEmail: recipientEmail, Status: domain.InviteStatusPending}, nil
}

func (f *fakeInvitationService) Accept(ctx context.Context, token string) (*domain.Invitation, error) {
	if f.acceptErr != nil {
		return nil, f.acceptErr
	}
	return f.acceptResult, nil
}

func (f *fakeInvitationService) ListByEvent(ctx context.Context, eventID, ownerID string) ([]*domain.Invitation, error) {
	return f.listResult, f.listErr
}

func TestInvitationControllerInvite(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeInvitationService{}
		c := NewInvitationController(testLogger, svc)

		req := authedRequest(http.MethodPost, "/events/ev-1/invitations", strings.NewReader(`{"email":"guest@example.com"}`))
		req.SetPathValue("eventID", "ev-1")
		rec := httptest.NewRecorder()
		c.Invite(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "ev-1", svc.lastEventID)
		assert.Equal(t, "user-1", svc.lastOwnerID)
		assert.Equal(t, "guest@example.com", svc.lastRecipient)
	})

	t.Run("duplicate maps to conflict", func(t *testing.T) {
		svc := &fakeInvitationService{inviteErr: domain.ErrDuplicateInvite}
		c := NewInvitationController(testLogger, svc)

		req := authedRequest(http.MethodPost, "/events/ev-1/invitations", strings.NewReader(`{"email":"guest@example.com"}`))
		req.SetPathValue("eventID", "ev-1")
		rec := httptest.NewRecorder()
		c.Invite(rec, req)
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("bad email rejected before the service", func(t *testing.T) {
		svc := &fakeInvitationService{}
		c := NewInvitationController(testLogger, svc)

		req := authedRequest(http.MethodPost, "/events/ev-1/invitations", strings.NewReader(`{"email":"nope"}`))
		req.SetPathValue("eventID", "ev-1")
		rec := httptest.NewRecorder()
		c.Invite(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, svc.lastEventID)
	})
}

func TestInvitationControllerAccept(t *testing.T) {
	t.Run("accepts by token without auth", func(t *testing.T) {
		svc := &fakeInvitationService{
			acceptResult: &domain.Invitation{ID: "inv-1", Status: domain.InviteStatusAccepted},
		}
		c := NewInvitationController(testLogger, svc)

		req := httptest.NewRequest(http.MethodPost, "/invitations/tok-1/accept", nil)
		req.SetPathValue("token", "tok-1")
		rec := httptest.NewRecorder()
		c.Accept(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), domain.InviteStatusAccepted)
	})

	t.Run("unknown token", func(t *testing.T) {
		svc := &fakeInvitationService{acceptErr: domain.ErrNotFound}
		c := NewInvitationController(testLogger, svc)

		req := httptest.NewRequest(http.MethodPost, "/invitations/tok-x/accept", nil)
		req.SetPathValue("token", "tok-x")
		rec := httptest.NewRecorder()
		c.Accept(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestInvitationControllerListByEvent(t *testing.T) {
	svc := &fakeInvitationService{listErr: domain.ErrForbidden}
	c := NewInvitationController(testLogger, svc)

	req := authedRequest(http.MethodGet, "/events/ev-1/invitations", nil)
	req.SetPathValue("eventID", "ev-1")
	rec := httptest.NewRecorder()
	c.ListByEvent(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}
