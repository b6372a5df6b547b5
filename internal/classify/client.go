// Package classify scores article text for sentiment and responsible
// department through external classification services.
package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Client calls a single classification endpoint and decodes its labels
// against a configured vocabulary.
type Client struct {
	endpoint string
	labels   []string
	client   *http.Client
}

// NewClient creates a classification client. The labels slice is the
// vocabulary in index order used to decode LABEL_<n> responses.
func NewClient(endpoint string, labels []string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		labels:   labels,
		client:   &http.Client{Timeout: timeout},
	}
}

// Classify posts text and returns the decoded label with its score.
func (c *Client) Classify(ctx context.Context, text string) (string, float64, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", 0, fmt.Errorf("marshal classify payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("build classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("classify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", 0, fmt.Errorf("classifier returned %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", 0, fmt.Errorf("decode classify response: %w", err)
	}

	label, err := c.decodeLabel(parsed.Label)
	if err != nil {
		return "", 0, err
	}

	return label, parsed.Score, nil
}

// decodeLabel resolves LABEL_<n> index responses against the vocabulary.
// Plain labels are normalized to lowercase and returned as-is.
func (c *Client) decodeLabel(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("classifier returned empty label")
	}

	idx, ok := strings.CutPrefix(raw, "LABEL_")
	if !ok {
		return strings.ToLower(raw), nil
	}

	n, err := strconv.Atoi(idx)
	if err != nil || n < 0 || n >= len(c.labels) {
		return "", fmt.Errorf("label %q outside vocabulary of %d entries", raw, len(c.labels))
	}

	return c.labels[n], nil
}
