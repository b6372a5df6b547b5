package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/sentinel-news/sentinel/internal/config"
)

// OCRClient extracts text from PDF and image uploads through the OCR service.
type OCRClient struct {
	endpoint        string
	defaultLanguage string
	client          *http.Client
}

// NewOCRClient creates an OCR client from the OCR configuration.
func NewOCRClient(cfg *config.OCRConfig) *OCRClient {
	return &OCRClient{
		endpoint:        strings.TrimSuffix(cfg.Endpoint, "/"),
		defaultLanguage: cfg.DefaultLanguage,
		client:          &http.Client{Timeout: cfg.TimeoutDuration()},
	}
}

// Extract posts the file to the OCR service and returns the recognized text.
// A language hint is combined with the default language so recognition never
// runs without a known-good script.
func (c *OCRClient) Extract(ctx context.Context, data []byte, filename, languageHint string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("build ocr form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write ocr payload: %w", err)
	}

	if err := writer.WriteField("languages", c.languages(languageHint)); err != nil {
		return "", fmt.Errorf("write ocr language field: %w", err)
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalize ocr form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/extract", &body)
	if err != nil {
		return "", fmt.Errorf("build ocr request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("ocr returned %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode ocr response: %w", err)
	}

	return parsed.Text, nil
}

func (c *OCRClient) languages(hint string) string {
	hint = strings.TrimSpace(hint)
	if hint == "" || hint == c.defaultLanguage {
		return c.defaultLanguage
	}
	return hint + "+" + c.defaultLanguage
}
