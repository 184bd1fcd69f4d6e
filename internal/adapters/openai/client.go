// Package openai is a minimal client for the generative text and image APIs.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"dresscodeplanner/internal/domain"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client calls the generative API over HTTP. It implements both
// domain.ChatClient and domain.ImageClient.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New returns a Client authenticated with apiKey. A nil httpClient falls
// back to http.DefaultClient.
func New(apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  httpClient,
	}
}

// NewWithBaseURL is like New but targets a different API endpoint. Used in tests.
func NewWithBaseURL(apiKey, baseURL string, httpClient *http.Client) *Client {
	c := New(apiKey, httpClient)
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type imageGenerationRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type imageGenerationResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// apiError is the structured error body returned by the API.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// CreateChatCompletion sends a single-message chat completion request and
// returns the raw completion text.
func (c *Client) CreateChatCompletion(ctx context.Context, model, prompt string, temperature float64, maxTokens int) (string, error) {
	reqBody := chatCompletionRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	var resp chatCompletionResponse
	if err := c.post(ctx, "/chat/completions", reqBody, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// CreateImage requests an image generation and returns the short-lived URL
// of the first result.
func (c *Client) CreateImage(ctx context.Context, model, prompt string, n int, size string) (string, error) {
	reqBody := imageGenerationRequest{
		Model:  model,
		Prompt: prompt,
		N:      n,
		Size:   size,
	}
	var resp imageGenerationResponse
	if err := c.post(ctx, "/images/generations", reqBody, &resp); err != nil {
		return "", err
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", fmt.Errorf("no image URL returned")
	}
	return resp.Data[0].URL, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("generative api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return classifyError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode generative api response: %w", err)
	}
	return nil
}

// classifyError maps a structured API error to the failure classes the
// suggestion pipeline inspects.
func classifyError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body apiError
	_ = json.Unmarshal(raw, &body)

	code := body.Error.Code
	typ := body.Error.Type
	msg := body.Error.Message
	if msg == "" {
		msg = resp.Status
	}

	switch {
	case code == "billing_hard_limit_reached":
		return fmt.Errorf("%w: %s", domain.ErrBillingLimit, msg)
	case resp.StatusCode == http.StatusTooManyRequests,
		code == "insufficient_quota" || typ == "insufficient_quota",
		code == "rate_limit_exceeded":
		return fmt.Errorf("%w: %s", domain.ErrQuotaExhausted, msg)
	default:
		return fmt.Errorf("generative api returned status %d: %s", resp.StatusCode, msg)
	}
}
