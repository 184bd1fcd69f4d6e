package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"dresscodeplanner/internal/domain"
)

const eventColumns = `id, owner_id, name, start_date, end_date, start_time, end_time, dress_code, description, image_url, location, event_type, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (owner_id, name, start_date, end_date, start_time, end_time, dress_code, description, image_url, location, event_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.OwnerID, e.Name, e.StartDate, e.EndDate, e.StartTime, e.EndTime,
		e.DressCode, e.Description, e.ImageURL, e.Location, e.EventType,
		e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListUpcoming(ctx context.Context, date string) ([]*domain.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE end_date >= $1
		ORDER BY start_date ASC, start_time ASC
	`, eventColumns)
	rows, err := r.DB.QueryContext(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, id string, fields domain.EventUpdate) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	add := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}
	if fields.Name != nil {
		add("name", *fields.Name)
	}
	if fields.StartDate != nil {
		add("start_date", *fields.StartDate)
	}
	if fields.EndDate != nil {
		add("end_date", *fields.EndDate)
	}
	if fields.StartTime != nil {
		add("start_time", *fields.StartTime)
	}
	if fields.EndTime != nil {
		add("end_time", *fields.EndTime)
	}
	if fields.DressCode != nil {
		add("dress_code", *fields.DressCode)
	}
	if fields.Description != nil {
		add("description", *fields.Description)
	}
	if fields.ImageURL != nil {
		add("image_url", *fields.ImageURL)
	}
	if fields.Location != nil {
		add("location", *fields.Location)
	}
	if fields.EventType != nil {
		add("event_type", *fields.EventType)
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) DeleteEndedBefore(ctx context.Context, date string) (int64, error) {
	query := `DELETE FROM events WHERE end_date < $1`
	result, err := r.DB.ExecContext(ctx, query, date)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var descNull, imageNull, locNull, typeNull sql.NullString
	err := row.Scan(
		&e.ID, &e.OwnerID, &e.Name, &e.StartDate, &e.EndDate, &e.StartTime, &e.EndTime,
		&e.DressCode, &descNull, &imageNull, &locNull, &typeNull,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Description = descNull.String
	e.ImageURL = imageNull.String
	e.Location = locNull.String
	e.EventType = typeNull.String
	return e, nil
}
