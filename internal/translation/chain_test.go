package translation_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sentinel-news/sentinel/internal/config"
	"github.com/sentinel-news/sentinel/internal/translation"
)

type stubChat struct {
	response string
	err      error
	lastUser string
}

func (s *stubChat) Complete(_ context.Context, _, user string) (string, error) {
	s.lastUser = user
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testChainConfig() *config.TranslationConfig {
	return &config.TranslationConfig{
		PrimaryCap:  1000,
		FallbackCap: 1500,
		Timeout:     "5s",
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTranslateSkipsTargetLanguage(t *testing.T) {
	primary := translation.NewPrimaryClient("http://localhost:1", 5*time.Second)
	chain := translation.NewChain(primary, nil, testChainConfig(), "en", discardLogger())

	outcome := chain.Translate(context.Background(), "already in English", "en")

	if outcome.Source != translation.SourceSkipped {
		t.Errorf("Source = %q, want %q", outcome.Source, translation.SourceSkipped)
	}
	if outcome.Translated != nil {
		t.Errorf("Translated = %q, want nil", *outcome.Translated)
	}
	if outcome.Degraded != nil {
		t.Errorf("Degraded = %v, want nil", outcome.Degraded)
	}
}

func TestTranslatePrimarySuccess(t *testing.T) {
	var received struct {
		Text           string `json:"text"`
		SourceLanguage string `json:"source_language"`
		TargetLanguage string `json:"target_language"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"translation": "The council approved the budget."})
	}))
	defer server.Close()

	primary := translation.NewPrimaryClient(server.URL, 5*time.Second)
	chain := translation.NewChain(primary, nil, testChainConfig(), "en", discardLogger())

	outcome := chain.Translate(context.Background(), "परिषद ने बजट को मंजूरी दी।", "hi")

	if outcome.Source != translation.SourcePrimary {
		t.Fatalf("Source = %q, want %q", outcome.Source, translation.SourcePrimary)
	}
	if outcome.Translated == nil || *outcome.Translated != "The council approved the budget." {
		t.Errorf("Translated = %v, want council budget sentence", outcome.Translated)
	}
	if received.SourceLanguage != "hi" || received.TargetLanguage != "en" {
		t.Errorf("language pair = %s->%s, want hi->en", received.SourceLanguage, received.TargetLanguage)
	}
}

func TestTranslatePrimaryCapsInput(t *testing.T) {
	var receivedLen int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Text string `json:"text"`
		}
		json.NewDecoder(r.Body).Decode(&payload)
		receivedLen = len([]rune(payload.Text))
		json.NewEncoder(w).Encode(map[string]string{"translation": "translated"})
	}))
	defer server.Close()

	cfg := testChainConfig()
	cfg.PrimaryCap = 100

	primary := translation.NewPrimaryClient(server.URL, 5*time.Second)
	chain := translation.NewChain(primary, nil, cfg, "en", discardLogger())

	chain.Translate(context.Background(), strings.Repeat("क", 500), "hi")

	if receivedLen != 100 {
		t.Errorf("primary received %d runes, want 100", receivedLen)
	}
}

func TestTranslateFallbackOnPrimaryFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	fallback := &stubChat{response: "Floods displaced hundreds of families."}

	primary := translation.NewPrimaryClient(server.URL, 5*time.Second)
	chain := translation.NewChain(primary, fallback, testChainConfig(), "en", discardLogger())

	outcome := chain.Translate(context.Background(), "बाढ़ ने सैकड़ों परिवारों को विस्थापित किया।", "hi")

	if outcome.Source != translation.SourceFallback {
		t.Fatalf("Source = %q, want %q", outcome.Source, translation.SourceFallback)
	}
	if outcome.Translated == nil || *outcome.Translated != fallback.response {
		t.Errorf("Translated = %v, want fallback response", outcome.Translated)
	}
	if fallback.lastUser == "" {
		t.Error("fallback never received the text")
	}
}

func TestTranslatePassthroughWhenAllTiersFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	fallback := &stubChat{err: errors.New("rate limited")}

	primary := translation.NewPrimaryClient(server.URL, 5*time.Second)
	chain := translation.NewChain(primary, fallback, testChainConfig(), "en", discardLogger())

	outcome := chain.Translate(context.Background(), "अनुवाद विफल", "hi")

	if outcome.Source != translation.SourcePassthrough {
		t.Fatalf("Source = %q, want %q", outcome.Source, translation.SourcePassthrough)
	}
	if outcome.Translated != nil {
		t.Errorf("Translated = %q, want nil on passthrough", *outcome.Translated)
	}
	if outcome.Degraded == nil {
		t.Error("Degraded is nil, want recorded failure")
	}
}

func TestTranslatePassthroughWithoutFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	primary := translation.NewPrimaryClient(server.URL, 5*time.Second)
	chain := translation.NewChain(primary, nil, testChainConfig(), "en", discardLogger())

	outcome := chain.Translate(context.Background(), "कोई विकल्प नहीं", "hi")

	if outcome.Source != translation.SourcePassthrough {
		t.Fatalf("Source = %q, want %q", outcome.Source, translation.SourcePassthrough)
	}
	if outcome.Degraded == nil {
		t.Error("Degraded is nil, want recorded failure")
	}
}
