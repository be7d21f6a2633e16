package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Client calls the external generation service that proposes edit plans. The
// service owns the model call; this client only ships the section lines and
// keywords out and brings untrusted edit-plan JSON back. Everything it
// returns goes through schema validation and the constraint validator before
// any line is touched.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient() *Client {
	base := os.Getenv("AI_SERVICE_URL")
	if base == "" {
		base = "http://ai-service:8000"
	}
	return &Client{BaseURL: base, HTTP: &http.Client{Timeout: 60 * time.Second}}
}

// ProposeEdits asks the service for minimal keyword insertions over the
// given lines and returns the raw edit-plan JSON.
func (c *Client) ProposeEdits(ctx context.Context, section string, lines []string, keywords []string) ([]byte, error) {
	payload := map[string]interface{}{
		"section":  section,
		"lines":    lines,
		"keywords": keywords,
		"instructions": "Propose TRULY MINIMAL keyword insertions. Do not reorder, add, or delete lines. " +
			"Each edit names a verbatim anchor substring of its target line. " +
			"Max 25 characters and 2 words per insertion. Skip keywords that do not fit naturally. " +
			"Respond with ONLY a single JSON object: {\"edits\": [...], \"skipped_keywords\": [...]}.",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	resp, err := c.doPostWithRetry(ctx, "/v1/edit-plan", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ai service returned %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	// The service wraps its output as {"agent": ..., "output": "<json>"}.
	var envelope struct {
		Output string `json:"output"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Output != "" {
		return []byte(stripFences(envelope.Output)), nil
	}
	return raw, nil
}

// doPostWithRetry performs an HTTP POST to the given path with retry/backoff.
func (c *Client) doPostWithRetry(ctx context.Context, path string, body []byte) (*http.Response, error) {
	attempts := 3
	var lastErr error
	for i := 0; i < attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.HTTP.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		// exponential backoff before retrying
		if i < attempts-1 {
			backoff := time.Duration(1<<i) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

// stripFences removes markdown code fences some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
