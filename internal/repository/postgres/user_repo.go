package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"dresscodeplanner/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (email, name, password_hash, password_salt, image_url, is_approved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		u.Email, u.Name, u.PasswordHash, u.PasswordSalt, u.ImageURL, u.IsApproved, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, name, password_hash, password_salt, image_url, is_approved, created_at, updated_at
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`
	return r.scanUser(r.DB.QueryRowContext(ctx, query, email))
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, email, name, password_hash, password_salt, image_url, is_approved, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.DB.QueryRowContext(ctx, query, id))
}

func (r *userRepository) SetApproved(ctx context.Context, id string, approved bool) (*domain.User, error) {
	query := `
		UPDATE users SET is_approved = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, email, name, password_hash, password_salt, image_url, is_approved, created_at, updated_at
	`
	return r.scanUser(r.DB.QueryRowContext(ctx, query, approved, id))
}

func (r *userRepository) SetImageURL(ctx context.Context, id, imageURL string) (*domain.User, error) {
	query := `
		UPDATE users SET image_url = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, email, name, password_hash, password_salt, image_url, is_approved, created_at, updated_at
	`
	return r.scanUser(r.DB.QueryRowContext(ctx, query, imageURL, id))
}

func (r *userRepository) ListUnapproved(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT id, email, name, password_hash, password_salt, image_url, is_approved, created_at, updated_at
		FROM users
		WHERE is_approved = FALSE
		ORDER BY created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		u := &domain.User{}
		var imageNull sql.NullString
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.PasswordSalt, &imageNull, &u.IsApproved, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		u.ImageURL = imageNull.String
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) scanUser(row *sql.Row) (*domain.User, error) {
	u := &domain.User{}
	var imageNull sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.PasswordSalt, &imageNull, &u.IsApproved, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	u.ImageURL = imageNull.String
	return u, nil
}
