package rag

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anurag-chatbot/au-fulfillment/internal/r2client"
)

var testEntries = []KnowledgeEntry{
	{Category: "Admissions", URL: "https://anurag.edu.in/admissions/", Content: "Apply online <now> & pay"},
	{Category: "Facilities", URL: "https://anurag.edu.in/library/", Content: "Central library"},
}

func writeCorpus(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, EncodeEntries(f, testEntries, IsCompressed(name)))
	require.NoError(t, f.Close())
	return path
}

func TestFileSource(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"anurag_data.json", "anurag_data.json.zst"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			entries, err := FileSource{Path: writeCorpus(t, name)}.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, testEntries, entries)
		})
	}
}

func TestFileSource_Errors(t *testing.T) {
	t.Parallel()

	_, err := FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}.Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o600))
	_, err = FileSource{Path: bad}.Load(context.Background())
	assert.Error(t, err)
}

func TestEncodeEntries_KeepsHTML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, EncodeEntries(&buf, testEntries, false))
	assert.Contains(t, buf.String(), "<now> & pay")
}

type fakeDownloader struct {
	data []byte
	err  error
}

func (f fakeDownloader) Download(_ context.Context, _ string) (io.ReadCloser, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return io.NopCloser(bytes.NewReader(f.data)), "etag", nil
}

func TestR2Source(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, EncodeEntries(&buf, testEntries, true))

	entries, err := R2Source{Client: fakeDownloader{data: buf.Bytes()}, Key: "corpus/anurag_data.json.zst"}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testEntries, entries)

	_, err = R2Source{Client: fakeDownloader{err: r2client.ErrNotFound}, Key: "k"}.Load(context.Background())
	assert.ErrorIs(t, err, r2client.ErrNotFound)

	_, err = R2Source{Client: fakeDownloader{err: errors.New("network")}, Key: "k"}.Load(context.Background())
	assert.Error(t, err)
}

func TestIsCompressed(t *testing.T) {
	t.Parallel()

	assert.True(t, IsCompressed("a.json.zst"))
	assert.True(t, IsCompressed("A.JSON.ZST"))
	assert.False(t, IsCompressed("a.json"))
}
