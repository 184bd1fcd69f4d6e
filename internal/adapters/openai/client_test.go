package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"dresscodeplanner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateChatCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"\"Neon Safari\""}}]}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL("test-key", srv.URL, srv.Client())
	got, err := c.CreateChatCompletion(context.Background(), "gpt-4o-mini", "prompt", 1.5, 30)
	require.NoError(t, err)
	assert.Equal(t, `"Neon Safari"`, got)
}

func TestCreateImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/generations", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"url":"https://img.example/short-lived.png"}]}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL("test-key", srv.URL, srv.Client())
	got, err := c.CreateImage(context.Background(), "dall-e-3", "prompt", 1, "1024x1024")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/short-lived.png", got)
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "insufficient quota",
			status:  http.StatusForbidden,
			body:    `{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}}`,
			wantErr: domain.ErrQuotaExhausted,
		},
		{
			name:    "rate limited by status",
			status:  http.StatusTooManyRequests,
			body:    `{"error":{"message":"Rate limit reached"}}`,
			wantErr: domain.ErrQuotaExhausted,
		},
		{
			name:    "billing hard limit",
			status:  http.StatusBadRequest,
			body:    `{"error":{"message":"Billing hard limit has been reached","code":"billing_hard_limit_reached"}}`,
			wantErr: domain.ErrBillingLimit,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewWithBaseURL("test-key", srv.URL, srv.Client())
			_, err := c.CreateChatCompletion(context.Background(), "gpt-4o-mini", "prompt", 1.0, 30)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOtherErrorIsNotRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"server had an error"}}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL("test-key", srv.URL, srv.Client())
	_, err := c.CreateChatCompletion(context.Background(), "gpt-4o-mini", "prompt", 1.0, 30)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrQuotaExhausted)
	assert.NotErrorIs(t, err, domain.ErrBillingLimit)
}
