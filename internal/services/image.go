package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"dresscodeplanner/internal/catalog"
	"dresscodeplanner/internal/domain"
)

const imagePrompt = `Generate a high-quality image of **one man and one woman** wearing stylish outfits that fit the theme %q. The man and woman should be posing together in a fashionable setting, wearing elegant attire or trendy outfits suitable for the theme. Ensure the image features only these two individuals, with a clear focus on their clothing style.`

const (
	imageCount      = 1
	imageSize       = "1024x1024"
	generateTimeout = 45 * time.Second
)

type imageService struct {
	images    domain.ImageClient
	store     domain.ObjectStore
	fetcher   *http.Client
	model     string
	bucket    string
	aiEnabled bool
	logger    *slog.Logger
	now       func() time.Time
}

// NewImageService creates an ImageService that persists generated images into
// bucket. The fetcher client downloads the short-lived URLs the generative
// API returns.
func NewImageService(images domain.ImageClient, store domain.ObjectStore, fetcher *http.Client, model, bucket string, aiEnabled bool, logger *slog.Logger) domain.ImageService {
	return &imageService{
		images:    images,
		store:     store,
		fetcher:   fetcher,
		model:     model,
		bucket:    bucket,
		aiEnabled: aiEnabled,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *imageService) GenerateEventImage(ctx context.Context, theme, category string, hook domain.LoadingHook) (*domain.GeneratedImage, error) {
	theme = cleanTheme(theme)
	if theme == "" {
		return &domain.GeneratedImage{
			ImageURL: catalog.ImageFor(""),
			Source:   domain.SourceFallback,
			Reason:   "no theme provided",
		}, nil
	}

	if url, err := s.store.FindLatest(ctx, s.bucket, objectPrefix(theme, category)); err == nil {
		return &domain.GeneratedImage{ImageURL: url, Source: domain.SourceAI}, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("stored image lookup failed", "theme", theme, "error", err)
	}

	if !s.aiEnabled {
		return &domain.GeneratedImage{
			ImageURL: catalog.ImageFor(theme),
			Source:   domain.SourceFallback,
			Reason:   "generative calls disabled",
		}, nil
	}

	if hook != nil {
		hook(true)
		defer hook(false)
	}

	url, err := s.generateAndPersist(ctx, theme, category)
	if err != nil {
		s.logger.Warn("image generation failed, using catalog image", "theme", theme, "error", err)
		return &domain.GeneratedImage{
			ImageURL: catalog.ImageFor(theme),
			Source:   domain.SourceFallback,
			Reason:   err.Error(),
		}, nil
	}
	return &domain.GeneratedImage{ImageURL: url, Source: domain.SourceAI}, nil
}

func (s *imageService) generateAndPersist(ctx context.Context, theme, category string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	prompt := fmt.Sprintf(imagePrompt, theme)
	if category != "" {
		prompt += fmt.Sprintf(" The occasion is a %s.", category)
	}
	shortURL, err := s.images.CreateImage(ctx, s.model, prompt, imageCount, imageSize)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, shortURL, nil)
	if err != nil {
		return "", fmt.Errorf("build image download request: %w", err)
	}
	resp, err := s.fetcher.Do(req)
	if err != nil {
		return "", fmt.Errorf("download generated image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download generated image: unexpected status %d", resp.StatusCode)
	}

	name := s.objectName(theme, category)
	publicURL, err := s.store.Save(ctx, s.bucket, name, "image/png", resp.Body)
	if err != nil {
		return "", fmt.Errorf("persist generated image: %w", err)
	}
	return publicURL, nil
}

// objectName builds a storage key that sorts newest-last within the
// (theme, category) prefix used by the cache probe.
func (s *imageService) objectName(theme, category string) string {
	return fmt.Sprintf("%s%d-%s.png", objectPrefix(theme, category), s.now().Unix(), uuid.NewString()[:8])
}

func objectPrefix(theme, category string) string {
	if category == "" {
		category = "any"
	}
	return sanitize(theme) + "-" + sanitize(category) + "-"
}

func cleanTheme(theme string) string {
	theme = strings.ReplaceAll(theme, `"`, "")
	theme = strings.ReplaceAll(theme, "'", "")
	return strings.TrimSpace(theme)
}

// sanitize lowercases and collapses anything outside [a-z0-9] into single
// hyphens so the value is safe as an object-name segment.
func sanitize(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
