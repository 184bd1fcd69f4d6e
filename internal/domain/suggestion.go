package domain

import (
	"context"
	"errors"
	"io"
)

// Generative-API failure classes the suggestion pipeline inspects.
var (
	// ErrQuotaExhausted marks a quota or rate-limit failure; the suggestion
	// service advances to the next candidate model on this error.
	ErrQuotaExhausted = errors.New("quota exhausted or rate limited")
	// ErrBillingLimit marks a billing hard-limit failure, surfaced to the
	// user as a distinct reason.
	ErrBillingLimit = errors.New("billing limit reached")
)

// SuggestionSource tags where a suggestion value came from.
type SuggestionSource string

const (
	SourceAI       SuggestionSource = "ai"
	SourceFallback SuggestionSource = "fallback"
)

// Suggestion is an ephemeral generated value; it has no identity beyond the
// moment of generation and is never persisted.
// swagger:model Suggestion
type Suggestion struct {
	Text   string           `json:"text"`
	Source SuggestionSource `json:"source"`
	// Model is the candidate that produced the text when Source is "ai".
	Model string `json:"model,omitempty"`
}

// GeneratedImage is the outcome of an image generation attempt. ImageURL is
// always usable; Reason carries the failure text when the catalog fallback
// was used instead of a fresh generation.
// swagger:model GeneratedImage
type GeneratedImage struct {
	ImageURL string           `json:"image_url"`
	Source   SuggestionSource `json:"source"`
	Reason   string           `json:"reason,omitempty"`
}

// LoadingHook is invoked with true before a long-running generation starts
// and with false when it finishes, regardless of outcome.
type LoadingHook func(loading bool)

// ModelConfig is one candidate configuration for the sequential model
// fallback loop.
type ModelConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// ChatClient is the generative text API port.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, model, prompt string, temperature float64, maxTokens int) (string, error)
}

// ImageClient is the generative image API port. CreateImage returns a
// short-lived URL for the generated image.
type ImageClient interface {
	CreateImage(ctx context.Context, model, prompt string, n int, size string) (string, error)
}

// ObjectStore is the durable object storage port.
type ObjectStore interface {
	Save(ctx context.Context, bucket, name, contentType string, r io.Reader) (publicURL string, err error)
	// FindLatest returns the public URL of the newest object whose name
	// starts with prefix, or ErrNotFound.
	FindLatest(ctx context.Context, bucket, prefix string) (publicURL string, err error)
	Remove(ctx context.Context, bucket, name string) error
	PublicURL(bucket, name string) string
}

// SuggestionService produces theme and outfit-description suggestions.
type SuggestionService interface {
	SuggestTheme(ctx context.Context, category string) (*Suggestion, error)
	SuggestDescription(ctx context.Context, theme string) (*Suggestion, error)
}

// ImageService produces event illustrations, persisting AI output durably.
type ImageService interface {
	GenerateEventImage(ctx context.Context, theme, category string, hook LoadingHook) (*GeneratedImage, error)
}
