package rag

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/anurag-chatbot/au-fulfillment/internal/r2client"
)

// zstdExt marks a zstd-compressed corpus file or object key.
const zstdExt = ".zst"

// Source produces the raw corpus entries.
type Source interface {
	Load(ctx context.Context) ([]KnowledgeEntry, error)
	Name() string
}

// FileSource reads a JSON corpus from disk. Paths ending in .zst are
// decompressed transparently.
type FileSource struct {
	Path string
}

// Name implements Source.
func (s FileSource) Name() string { return "file:" + s.Path }

// Load implements Source.
func (s FileSource) Load(_ context.Context) ([]KnowledgeEntry, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open corpus %s: %w", s.Path, err)
	}
	defer f.Close()

	entries, err := DecodeEntries(bufio.NewReader(f), IsCompressed(s.Path))
	if err != nil {
		return nil, fmt.Errorf("corpus %s: %w", filepath.Base(s.Path), err)
	}
	return entries, nil
}

// Downloader is the subset of the R2 client used to fetch the corpus.
type Downloader interface {
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// R2Source downloads the corpus object from R2.
type R2Source struct {
	Client Downloader
	Key    string
}

// Name implements Source.
func (s R2Source) Name() string { return "r2:" + s.Key }

// Load implements Source.
func (s R2Source) Load(ctx context.Context) ([]KnowledgeEntry, error) {
	body, _, err := s.Client.Download(ctx, s.Key)
	if err != nil {
		if errors.Is(err, r2client.ErrNotFound) {
			return nil, fmt.Errorf("corpus object %s: %w", s.Key, err)
		}
		return nil, fmt.Errorf("download corpus: %w", err)
	}
	defer body.Close()

	return DecodeEntries(body, IsCompressed(s.Key))
}

// StaticSource serves a fixed set of entries. Used by tests and by callers
// that already hold the entries in memory.
type StaticSource []KnowledgeEntry

// Name implements Source.
func (StaticSource) Name() string { return "static" }

// Load implements Source.
func (s StaticSource) Load(_ context.Context) ([]KnowledgeEntry, error) {
	return s, nil
}

// IsCompressed reports whether a path or key names a zstd corpus.
func IsCompressed(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), zstdExt)
}

// DecodeEntries parses a JSON array of entries, optionally zstd-compressed.
func DecodeEntries(r io.Reader, compressed bool) ([]KnowledgeEntry, error) {
	if compressed {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	var entries []KnowledgeEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}
	return entries, nil
}

// EncodeEntries writes entries as an indented JSON array, optionally
// zstd-compressed.
func EncodeEntries(w io.Writer, entries []KnowledgeEntry, compressed bool) error {
	if !compressed {
		return encodeJSON(w, entries)
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}
	if err := encodeJSON(enc, entries); err != nil {
		_ = enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("zstd close: %w", err)
	}
	return nil
}

func encodeJSON(w io.Writer, entries []KnowledgeEntry) error {
	if entries == nil {
		entries = []KnowledgeEntry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode corpus: %w", err)
	}
	return nil
}
