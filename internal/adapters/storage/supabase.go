// Package storage implements the object storage port against the hosted
// storage service's HTTP API.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"dresscodeplanner/internal/domain"
)

// Config holds connection settings for the storage service.
type Config struct {
	BaseURL        string
	AnonKey        string
	ServiceRoleKey string
}

type supabaseStore struct {
	cfg    Config
	client *http.Client
}

// New returns an ObjectStore backed by the storage service at cfg.BaseURL.
// A nil httpClient falls back to http.DefaultClient.
func New(cfg Config, httpClient *http.Client) domain.ObjectStore {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	return &supabaseStore{cfg: cfg, client: httpClient}
}

func (s *supabaseStore) Save(ctx context.Context, bucket, name, contentType string, r io.Reader) (string, error) {
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.cfg.BaseURL, bucket, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, r)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.AnonKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("storage upload returned status %d: %s", resp.StatusCode, string(body))
	}
	return s.PublicURL(bucket, name), nil
}

type objectInfo struct {
	Name string `json:"name"`
}

func (s *supabaseStore) FindLatest(ctx context.Context, bucket, prefix string) (string, error) {
	listURL := fmt.Sprintf("%s/storage/v1/object/list/%s", s.cfg.BaseURL, bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create list request: %w", err)
	}
	// Listing needs the privileged key.
	req.Header.Set("Authorization", "Bearer "+s.cfg.ServiceRoleKey)
	req.Header.Set("apikey", s.cfg.ServiceRoleKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage list failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("storage list returned status %d", resp.StatusCode)
	}

	var objects []objectInfo
	if err := json.NewDecoder(resp.Body).Decode(&objects); err != nil {
		return "", fmt.Errorf("failed to decode storage list: %w", err)
	}

	// Object names embed the upload timestamp after the prefix, so the
	// lexicographically greatest match is the newest.
	var latest string
	for _, obj := range objects {
		if strings.HasPrefix(obj.Name, prefix) && obj.Name > latest {
			latest = obj.Name
		}
	}
	if latest == "" {
		return "", domain.ErrNotFound
	}
	return s.PublicURL(bucket, latest), nil
}

func (s *supabaseStore) Remove(ctx context.Context, bucket, name string) error {
	deleteURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.cfg.BaseURL, bucket, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, deleteURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.AnonKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("storage delete failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("storage delete returned status %d", resp.StatusCode)
	}
	return nil
}

func (s *supabaseStore) PublicURL(bucket, name string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.cfg.BaseURL, bucket, name)
}
