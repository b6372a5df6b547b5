// Package translation renders non-English article content into English.
// A dedicated translation model is tried first; an OpenAI-compatible chat
// model serves as fallback; on double failure the original text passes
// through untranslated.
package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// PrimaryClient talks to the dedicated translation model service.
type PrimaryClient struct {
	endpoint string
	client   *http.Client
}

// NewPrimaryClient creates a client for the primary translation endpoint.
func NewPrimaryClient(endpoint string, timeout time.Duration) *PrimaryClient {
	return &PrimaryClient{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		client:   &http.Client{Timeout: timeout},
	}
}

// Translate posts text for translation into the target language.
func (c *PrimaryClient) Translate(ctx context.Context, text, sourceCode, targetCode string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"text":            text,
		"source_language": sourceCode,
		"target_language": targetCode,
	})
	if err != nil {
		return "", fmt.Errorf("marshal translation payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		c.endpoint+"/translate",
		bytes.NewReader(body),
	)
	if err != nil {
		return "", fmt.Errorf("build translation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("translation returned %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed struct {
		Translation string `json:"translation"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode translation response: %w", err)
	}

	translation := strings.TrimSpace(parsed.Translation)
	if translation == "" {
		return "", fmt.Errorf("translation response was empty")
	}

	return translation, nil
}
