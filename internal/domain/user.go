package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrAccountNotApproved = errors.New("account awaiting approval")
)

// User represents a registered account. Accounts start unapproved and must be
// approved by an admin before they can log in.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	PasswordSalt string    `json:"-"`
	ImageURL     string    `json:"image_url"`
	IsApproved   bool      `json:"is_approved"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new unapproved User. ID is typically set by the repository on create.
func NewUser(email, name, passwordHash, passwordSalt string, createdAt, updatedAt time.Time) *User {
	return &User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		PasswordSalt: passwordSalt,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	SetApproved(ctx context.Context, id string, approved bool) (*User, error)
	SetImageURL(ctx context.Context, id, imageURL string) (*User, error)
	ListUnapproved(ctx context.Context) ([]*User, error)
}

// UserService defines the business logic for accounts and authentication.
type UserService interface {
	SignUp(ctx context.Context, email, name, password string) (*User, error)
	// Login returns a bearer token for an approved account. Unapproved
	// accounts fail with ErrAccountNotApproved.
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
	GetByID(ctx context.Context, id string) (*User, error)
	Approve(ctx context.Context, userID string) (*User, error)
	ListPending(ctx context.Context) ([]*User, error)
	// IsAdmin reports whether the user's email is on the admin allow-list.
	IsAdmin(ctx context.Context, userID string) (bool, error)
	SetProfileImage(ctx context.Context, userID string, image *ImageUpload) (*User, error)
}
