package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"dresscodeplanner/internal/domain"
)

type invitationRepository struct {
	DB *sql.DB
}

func NewInvitationRepository(db *sql.DB) domain.InvitationRepository {
	return &invitationRepository{
		DB: db,
	}
}

func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	query := `
		INSERT INTO event_invites (event_id, recipient_email, token, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, inv.EventID, inv.RecipientEmail, inv.Token, inv.Status, inv.CreatedAt).
		Scan(&inv.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrDuplicateInvite
		}
		return err
	}
	return nil
}

func (r *invitationRepository) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	query := `
		SELECT id, event_id, recipient_email, token, status, created_at
		FROM event_invites
		WHERE token = $1
	`
	inv := &domain.Invitation{}
	err := r.DB.QueryRowContext(ctx, query, token).Scan(
		&inv.ID, &inv.EventID, &inv.RecipientEmail, &inv.Token, &inv.Status, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *invitationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Invitation, error) {
	query := `
		SELECT id, event_id, recipient_email, token, status, created_at
		FROM event_invites
		WHERE event_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invs := make([]*domain.Invitation, 0)
	for rows.Next() {
		inv := &domain.Invitation{}
		if err := rows.Scan(&inv.ID, &inv.EventID, &inv.RecipientEmail, &inv.Token, &inv.Status, &inv.CreatedAt); err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}

func (r *invitationRepository) UpdateStatus(ctx context.Context, id, status string) (*domain.Invitation, error) {
	query := `
		UPDATE event_invites SET status = $1
		WHERE id = $2
		RETURNING id, event_id, recipient_email, token, status, created_at
	`
	inv := &domain.Invitation{}
	err := r.DB.QueryRowContext(ctx, query, status, id).Scan(
		&inv.ID, &inv.EventID, &inv.RecipientEmail, &inv.Token, &inv.Status, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}
