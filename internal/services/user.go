package services

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"dresscodeplanner/internal/domain"
)

const (
	minPasswordLen = 8
	tokenExpiry    = 24 * time.Hour
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type userService struct {
	userRepo       domain.UserRepository
	hasher         domain.PasswordHasher
	tokens         domain.TokenIssuer
	store          domain.ObjectStore
	bucket         string
	adminEmails    map[string]struct{}
	contextTimeout time.Duration
	now            func() time.Time
}

// NewUserService creates a UserService. adminEmails is the allow-list of
// accounts permitted to approve other accounts.
func NewUserService(userRepo domain.UserRepository,
	hasher domain.PasswordHasher,
	tokens domain.TokenIssuer,
	store domain.ObjectStore,
	bucket string,
	adminEmails []string,
	timeout time.Duration,
) domain.UserService {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		admins[strings.TrimSpace(strings.ToLower(email))] = struct{}{}
	}
	return &userService{
		userRepo:       userRepo,
		hasher:         hasher,
		tokens:         tokens,
		store:          store,
		bucket:         bucket,
		adminEmails:    admins,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *userService) SignUp(ctx context.Context, email, name, password string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("invalid email format: %w", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, domain.ErrInvalidInput)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := domain.NewUser(email, strings.TrimSpace(name), hash, salt, now, now)
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return "", nil, domain.ErrUnauthorized
	}
	if err := s.hasher.Compare(user.PasswordHash, user.PasswordSalt, password); err != nil {
		return "", nil, domain.ErrUnauthorized
	}
	if !user.IsApproved {
		return "", nil, domain.ErrAccountNotApproved
	}

	token, err := s.tokens.Issue(user.ID, user.Email, tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) Approve(ctx context.Context, userID string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.userRepo.SetApproved(ctx, userID, true)
}

func (s *userService) ListPending(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.userRepo.ListUnapproved(ctx)
}

func (s *userService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	_, ok := s.adminEmails[strings.ToLower(user.Email)]
	return ok, nil
}

func (s *userService) SetProfileImage(ctx context.Context, userID string, image *domain.ImageUpload) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if image == nil {
		return nil, fmt.Errorf("profile image is required: %w", domain.ErrInvalidInput)
	}
	ext := strings.ToLower(filepath.Ext(image.FileName))
	if ext == "" {
		ext = ".png"
	}
	name := fmt.Sprintf("%s-%d-%s%s", userID, s.now().Unix(), uuid.NewString()[:8], ext)
	contentType := image.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	url, err := s.store.Save(ctx, s.bucket, name, contentType, image.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to store profile image: %w", err)
	}
	return s.userRepo.SetImageURL(ctx, userID, url)
}
