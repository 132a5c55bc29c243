package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/roboco-io/manustruct/internal/ir"
)

// DefaultTimeout allows for large manuscripts on slow parse backends.
const DefaultTimeout = 180 * time.Second

// RemoteConfig holds the configuration for the remote parse service client.
type RemoteConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// RemoteClient fetches block streams from a remote document parse service.
// The service accepts a manuscript upload and returns the JSON envelope that
// ReadJSON understands.
type RemoteClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewRemoteClient creates a remote parse client.
func NewRemoteClient(cfg RemoteConfig) (*RemoteClient, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("remote parse endpoint not configured")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &RemoteClient{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// Parse uploads the manuscript at the given path and returns the parsed
// block stream as a document.
func (c *RemoteClient) Parse(ctx context.Context, filePath string) (*ir.Document, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("document", filepath.Base(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to copy file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("parse request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("parse service error (status %d): %s", resp.StatusCode, string(body))
	}

	var env jsonEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode parse response: %w", err)
	}
	if len(env.Blocks) == 0 {
		return nil, fmt.Errorf("parse service returned no blocks")
	}

	doc, err := toDocument(env.Blocks)
	if err != nil {
		return nil, err
	}
	doc.Metadata = env.Metadata
	if doc.Metadata.Title == "" {
		doc.Metadata.Title = filepath.Base(filePath)
	}
	return doc, nil
}
