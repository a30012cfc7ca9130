package corpus

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/anurag-chatbot/au-fulfillment/internal/rag"
)

// Uploader stores an object in remote storage.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// WriteFile writes entries to path, zstd-compressed when path ends in .zst.
// The file is replaced atomically so a running server never reads a
// partial corpus.
func WriteFile(path string, entries []rag.KnowledgeEntry) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create corpus directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".corpus-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := rag.EncodeEntries(tmp, entries, rag.IsCompressed(path)); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace corpus file: %w", err)
	}
	return nil
}

// UploadFile uploads the corpus file at path under key and returns the ETag.
func UploadFile(ctx context.Context, up Uploader, key, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open corpus file: %w", err)
	}
	defer f.Close()

	contentType := "application/json"
	if rag.IsCompressed(path) {
		contentType = "application/zstd"
	}
	etag, err := up.Upload(ctx, key, f, contentType)
	if err != nil {
		return "", fmt.Errorf("upload corpus: %w", err)
	}
	return etag, nil
}
