// Package prompt integrates an external prompt management service (Langfuse
// compatible HTTP API). Prompt resolution in Vocero must never fail a turn:
// callers combine the Service with a built-in default per conversation node
// and fall back on any error.
package prompt

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Service fetches a compiled prompt by name. Implementations may fail; the
// caller is responsible for falling back to a default.
type Service interface {
	GetPrompt(ctx context.Context, name string) (string, error)
}

// Options configure the prompt management client.
type Options struct {
	// Timeout bounds a single prompt fetch.
	Timeout time.Duration
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Client talks to a Langfuse compatible prompt API using basic auth with the
// project's public/secret key pair.
type Client struct {
	baseURL   string
	publicKey string
	secretKey string
	client    *http.Client
	timeout   time.Duration
}

// NewClient creates a prompt management client.
func NewClient(baseURL, publicKey, secretKey string, optFns ...func(o *Options)) *Client {
	opts := Options{Timeout: 2 * time.Second}
	for _, fn := range optFns {
		fn(&opts)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:   baseURL,
		publicKey: publicKey,
		secretKey: secretKey,
		client:    httpClient,
		timeout:   opts.Timeout,
	}
}

// promptResponse is the subset of the prompt API payload Vocero consumes.
// Text prompts carry the compiled prompt as a plain string.
type promptResponse struct {
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
}

// GetPrompt fetches the latest production version of a named text prompt.
func (c *Client) GetPrompt(ctx context.Context, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/api/public/v2/prompts/%s", c.baseURL, url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build prompt request: %w", err)
	}
	req.SetBasicAuth(c.publicKey, c.secretKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("prompt service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("prompt service returned status %d for %q", resp.StatusCode, name)
	}

	var pr promptResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return "", fmt.Errorf("failed to decode prompt response: %w", err)
	}
	if pr.Prompt == "" {
		return "", fmt.Errorf("prompt %q has no content", name)
	}
	return pr.Prompt, nil
}

// Static is a map-backed Service for tests and offline development.
type Static map[string]string

// GetPrompt returns the stored prompt or an error when absent.
func (s Static) GetPrompt(_ context.Context, name string) (string, error) {
	if p, ok := s[name]; ok {
		return p, nil
	}
	return "", fmt.Errorf("prompt %q not found", name)
}

// Unavailable is a Service that always fails, simulating a down prompt
// management backend.
type Unavailable struct{}

// GetPrompt always returns an error.
func (Unavailable) GetPrompt(context.Context, string) (string, error) {
	return "", fmt.Errorf("prompt service unavailable")
}
