package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dresscodeplanner/internal/catalog"
	"dresscodeplanner/internal/domain"
)

const (
	themePrompt       = "Give me a creative dress code for a date, party or dance event. Only return the dress code title without explanation."
	descriptionPrompt = `Give a concise and stylish or creative outfit recommendation suitable for a date or party under the theme: %q. Keep it under 20 words and unisex.`

	themeTemperature       = 1.5
	themeMaxTokens         = 30
	descriptionTemperature = 1.1
	descriptionMaxTokens   = 50
)

type suggestionService struct {
	chat           domain.ChatClient
	models         []domain.ModelConfig
	aiEnabled      bool
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewSuggestionService creates a SuggestionService. models are candidate chat
// configurations tried in order; aiEnabled false short-circuits every call to
// the fallback catalog.
func NewSuggestionService(chat domain.ChatClient, models []domain.ModelConfig, aiEnabled bool, logger *slog.Logger, timeout time.Duration) domain.SuggestionService {
	return &suggestionService{
		chat:           chat,
		models:         models,
		aiEnabled:      aiEnabled,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *suggestionService) SuggestTheme(ctx context.Context, category string) (*domain.Suggestion, error) {
	if !s.aiEnabled {
		return &domain.Suggestion{Text: catalog.RandomTheme(category), Source: domain.SourceFallback}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	text, model, err := s.complete(ctx, themePrompt, themeTemperature, themeMaxTokens)
	if err != nil || text == "" {
		return &domain.Suggestion{Text: catalog.RandomTheme(category), Source: domain.SourceFallback}, nil
	}
	return &domain.Suggestion{Text: text, Source: domain.SourceAI, Model: model}, nil
}

func (s *suggestionService) SuggestDescription(ctx context.Context, theme string) (*domain.Suggestion, error) {
	if theme == "" || !s.aiEnabled {
		return &domain.Suggestion{Text: catalog.DescriptionFor(theme), Source: domain.SourceFallback}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	prompt := fmt.Sprintf(descriptionPrompt, theme)
	text, model, err := s.complete(ctx, prompt, descriptionTemperature, descriptionMaxTokens)
	if err != nil || text == "" {
		return &domain.Suggestion{Text: catalog.DescriptionFor(theme), Source: domain.SourceFallback}, nil
	}
	return &domain.Suggestion{Text: text, Source: domain.SourceAI, Model: model}, nil
}

// complete runs the sequential model fallback loop. Quota and rate-limit
// errors advance to the next candidate; any other error stops the loop.
func (s *suggestionService) complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (text, model string, err error) {
	for i, mc := range s.models {
		temp := temperature
		tokens := maxTokens
		if mc.Temperature != 0 {
			temp = mc.Temperature
		}
		if mc.MaxTokens != 0 {
			tokens = mc.MaxTokens
		}
		raw, callErr := s.chat.CreateChatCompletion(ctx, mc.Model, prompt, temp, tokens)
		if callErr == nil {
			return stripQuotes(raw), mc.Model, nil
		}
		if errors.Is(callErr, domain.ErrQuotaExhausted) && i < len(s.models)-1 {
			s.logger.Warn("chat model quota exhausted, trying next candidate", "model", mc.Model)
			continue
		}
		s.logger.Warn("chat completion failed", "model", mc.Model, "error", callErr)
		return "", "", callErr
	}
	return "", "", fmt.Errorf("no chat models configured")
}

// stripQuotes removes surrounding and embedded quote characters and trims
// whitespace, matching how raw model output is cleaned before display.
func stripQuotes(s string) string {
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.ReplaceAll(s, "'", "")
	return strings.TrimSpace(s)
}
