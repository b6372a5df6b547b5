package articles

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sentinel-news/sentinel/pkg/lifecycle"
	"github.com/sentinel-news/sentinel/pkg/storage"
)

// stubStorage holds blobs in a map keyed by storage key.
type stubStorage struct {
	blobs     map[string]string
	existsErr error
}

func (s *stubStorage) Start(*lifecycle.Coordinator) error { return nil }

func (s *stubStorage) Upload(_ context.Context, key string, reader io.Reader, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.blobs[key] = string(data)
	return nil
}

func (s *stubStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(strings.NewReader(data)), nil
}

func (s *stubStorage) Delete(_ context.Context, key string) error {
	delete(s.blobs, key)
	return nil
}

func (s *stubStorage) Exists(_ context.Context, key string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	_, ok := s.blobs[key]
	return ok, nil
}

func TestFetchSource(t *testing.T) {
	store := &stubStorage{blobs: map[string]string{
		"sources/abc/report.pdf": "archived bytes",
	}}

	reader, filename, err := fetchSource(context.Background(), store, "sources/abc/report.pdf", "report.pdf")
	if err != nil {
		t.Fatalf("fetchSource() error: %v", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("reading source: %v", err)
	}
	if string(data) != "archived bytes" {
		t.Errorf("data = %q", data)
	}
	if filename != "report.pdf" {
		t.Errorf("filename = %q", filename)
	}
}

func TestFetchSourceMissingBlob(t *testing.T) {
	store := &stubStorage{blobs: map[string]string{}}

	_, _, err := fetchSource(context.Background(), store, "sources/abc/report.pdf", "report.pdf")
	if !errors.Is(err, ErrNoSource) {
		t.Errorf("error = %v, want ErrNoSource for a removed blob", err)
	}
}

func TestFetchSourceExistsCheckError(t *testing.T) {
	store := &stubStorage{
		blobs:     map[string]string{},
		existsErr: errors.New("storage unavailable"),
	}

	_, _, err := fetchSource(context.Background(), store, "sources/abc/report.pdf", "report.pdf")
	if err == nil {
		t.Fatal("expected error when the existence check fails")
	}
	if errors.Is(err, ErrNoSource) {
		t.Error("a storage failure must not masquerade as a missing source")
	}
}
