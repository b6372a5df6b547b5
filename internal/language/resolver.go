// Package language resolves the language of extracted article text.
// Detection runs against a restricted candidate set over a leading window
// of the content, with a script-based override for Indic text that the
// statistical detector misreads as English.
package language

import (
	"strings"

	"github.com/pemistahl/lingua-go"

	"github.com/sentinel-news/sentinel/internal/config"
)

// Indic script blocks span Devanagari through Malayalam contiguously.
const (
	indicRangeStart = 'ऀ'
	indicRangeEnd   = 'ൿ'
)

// Resolver detects the language of article content.
type Resolver struct {
	detector lingua.LanguageDetector
	cfg      *config.LanguageConfig
}

// NewResolver builds a Resolver restricted to the languages the pipeline
// can translate.
func NewResolver(cfg *config.LanguageConfig) *Resolver {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English,
			lingua.Hindi,
			lingua.Bengali,
			lingua.Punjabi,
			lingua.Gujarati,
			lingua.Tamil,
			lingua.Telugu,
			lingua.Kannada,
			lingua.Marathi,
			lingua.Urdu,
		).
		Build()

	return &Resolver{
		detector: detector,
		cfg:      cfg,
	}
}

// Resolve returns the ISO 639-1 code for the given text. Content shorter
// than the configured minimum resolves to the default code. When detection
// reports the default code but the window contains Indic script characters,
// the override code wins.
func (r *Resolver) Resolve(text string) string {
	trimmed := strings.TrimSpace(text)
	runes := []rune(trimmed)

	if len(runes) < r.cfg.MinLength {
		return r.cfg.DefaultCode
	}

	window := trimmed
	if len(runes) > r.cfg.DetectWindow {
		window = string(runes[:r.cfg.DetectWindow])
	}

	code := r.cfg.DefaultCode
	if lang, ok := r.detector.DetectLanguageOf(window); ok {
		code = strings.ToLower(lang.IsoCode639_1().String())
	}

	if code == r.cfg.DefaultCode && containsIndic(window) {
		code = r.cfg.OverrideCode
	}

	return code
}

func containsIndic(s string) bool {
	for _, r := range s {
		if r >= indicRangeStart && r <= indicRangeEnd {
			return true
		}
	}
	return false
}
