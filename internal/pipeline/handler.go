package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"

	"github.com/sentinel-news/sentinel/internal/config"
	"github.com/sentinel-news/sentinel/internal/extraction"
	"github.com/sentinel-news/sentinel/internal/feeds"
	"github.com/sentinel-news/sentinel/pkg/handlers"
	"github.com/sentinel-news/sentinel/pkg/routes"
	"github.com/sentinel-news/sentinel/pkg/storage"
)

// Handler provides HTTP endpoints for content submission.
type Handler struct {
	sys           System
	store         storage.System
	fetcher       *feeds.Fetcher
	feedsCfg      config.FeedsConfig
	maxUploadSize int64
	logger        *slog.Logger
}

// URLRequest is the body for URL and feed submissions.
type URLRequest struct {
	URL string `json:"url"`
}

// FeedRequest is the body for feed submissions. Limit is optional and
// capped by the configured maximum.
type FeedRequest struct {
	URL   string `json:"url"`
	Limit int    `json:"limit"`
}

// TextRequest is the body for direct text submissions.
type TextRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// NewHandler creates a submission Handler.
func NewHandler(
	sys System,
	store storage.System,
	fetcher *feeds.Fetcher,
	feedsCfg config.FeedsConfig,
	maxUploadSize int64,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		sys:           sys,
		store:         store,
		fetcher:       fetcher,
		feedsCfg:      feedsCfg,
		maxUploadSize: maxUploadSize,
		logger:        logger.With("handler", "submit"),
	}
}

// Routes returns the route group definition for submission endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/submit",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/url", Handler: h.SubmitURL},
			{Method: "POST", Pattern: "/text", Handler: h.SubmitText},
			{Method: "POST", Pattern: "/pdf", Handler: h.SubmitPDF},
			{Method: "POST", Pattern: "/image", Handler: h.SubmitImage},
			{Method: "POST", Pattern: "/feed", Handler: h.SubmitFeed},
		},
	}
}

// SubmitURL ingests a single web page.
func (h *Handler) SubmitURL(w http.ResponseWriter, r *http.Request) {
	var req URLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidSubmission)
		return
	}

	if err := validateURL(req.URL); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	outcome, err := h.sys.Process(r.Context(), Submission{
		Kind: extraction.KindURL,
		URL:  req.URL,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, outcome)
}

// SubmitText ingests raw article text.
func (h *Handler) SubmitText(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidSubmission)
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			fmt.Errorf("%w: text must not be empty", ErrInvalidSubmission))
		return
	}

	outcome, err := h.sys.Process(r.Context(), Submission{
		Kind:  extraction.KindText,
		Title: req.Title,
		Text:  req.Text,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, outcome)
}

// SubmitPDF ingests an uploaded PDF document.
func (h *Handler) SubmitPDF(w http.ResponseWriter, r *http.Request) {
	h.submitFile(w, r, extraction.KindPDF)
}

// SubmitImage ingests an uploaded image for OCR.
func (h *Handler) SubmitImage(w http.ResponseWriter, r *http.Request) {
	h.submitFile(w, r, extraction.KindImage)
}

func (h *Handler) submitFile(w http.ResponseWriter, r *http.Request, kind extraction.Kind) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			fmt.Errorf("%w: file field required", ErrInvalidSubmission))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			fmt.Errorf("%w: unreadable file", ErrInvalidSubmission))
		return
	}

	sub := Submission{
		Kind:         kind,
		Data:         data,
		Filename:     header.Filename,
		ContentType:  detectContentType(header.Header.Get("Content-Type"), data),
		LanguageHint: r.FormValue("language"),
	}

	if kind == extraction.KindPDF {
		sub.PageCount = extractPDFPageCount(h.logger, data, sub.ContentType)
	}

	sub.SourceStorageKey = h.archive(r, sub)

	outcome, err := h.sys.Process(r.Context(), sub)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, outcome)
}

// SubmitFeed ingests entries from an RSS/Atom feed with bounded concurrency.
func (h *Handler) SubmitFeed(w http.ResponseWriter, r *http.Request) {
	var req FeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidSubmission)
		return
	}

	if err := validateURL(req.URL); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	limit := h.feedsCfg.MaxEntries
	if req.Limit > 0 && req.Limit < limit {
		limit = req.Limit
	}

	entries, err := h.fetcher.Fetch(r.Context(), req.URL, limit)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusUnprocessableEntity,
			fmt.Errorf("%w: %w", ErrExtraction, err))
		return
	}

	result := FeedResult{
		FeedURL: req.URL,
		Total:   len(entries),
		Items:   make([]FeedItemResult, len(entries)),
	}

	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(h.feedsCfg.Concurrency)

	for i, entry := range entries {
		g.Go(func() error {
			outcome, err := h.sys.Process(ctx, Submission{
				Kind:          extraction.KindURL,
				URL:           entry.URL,
				PublishedDate: entry.Published,
			})
			if err != nil {
				result.Items[i] = FeedItemResult{URL: entry.URL, Error: err.Error()}
				return nil
			}
			result.Items[i] = FeedItemResult{URL: entry.URL, Outcome: outcome}
			return nil
		})
	}

	// per-entry failures are captured in the result, never returned
	_ = g.Wait()

	for _, item := range result.Items {
		if item.Error == "" {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// archive uploads the raw submission to blob storage. Archival is best
// effort: on failure the submission proceeds without a storage key.
func (h *Handler) archive(r *http.Request, sub Submission) *string {
	key := fmt.Sprintf("sources/%s/%s", uuid.New(), sanitizeFilename(sub.Filename))

	if err := h.store.Upload(r.Context(), key, bytes.NewReader(sub.Data), sub.ContentType); err != nil {
		h.logger.Warn("source archival degraded", "filename", sub.Filename, "error", err)
		return nil
	}

	return &key
}

func validateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("%w: invalid url %q", ErrInvalidSubmission, raw)
	}
	return nil
}

func detectContentType(header string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}

func extractPDFPageCount(logger *slog.Logger, data []byte, contentType string) *int {
	if contentType != "application/pdf" {
		return nil
	}

	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		logger.Warn("failed to extract PDF page count", "error", err)
		return nil
	}

	return &count
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "source"
	}
	return url.PathEscape(name)
}
