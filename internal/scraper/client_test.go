package scraper

import (
	"compress/gzip"
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anurag-chatbot/au-fulfillment/internal/errors"
)

func newTestClient(maxRetries int) *Client {
	return NewClient(5*time.Second, maxRetries, time.Millisecond)
}

func TestClient_GetDocument(t *testing.T) {
	t.Parallel()

	var ua atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua.Store(r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("<html><body><main><h1>Hostels</h1></main></body></html>"))
	}))
	defer srv.Close()

	doc, err := newTestClient(0).GetDocument(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetDocument() error = %v", err)
	}
	if got := doc.Find("h1").Text(); got != "Hostels" {
		t.Errorf("h1 = %q, want Hostels", got)
	}
	if s, _ := ua.Load().(string); s == "" {
		t.Error("expected a User-Agent header")
	}
}

func TestClient_GetDocumentGzip(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte("<html><body><p>compressed</p></body></html>"))
		_ = gz.Close()
	}))
	defer srv.Close()

	doc, err := newTestClient(0).GetDocument(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetDocument() error = %v", err)
	}
	if got := doc.Find("p").Text(); got != "compressed" {
		t.Errorf("p = %q, want compressed", got)
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	if _, err := newTestClient(3).GetDocument(context.Background(), srv.URL); err != nil {
		t.Fatalf("GetDocument() error = %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestClient_DoesNotRetryNotFound(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(3).Get(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error")
	}
	var scrapeErr *errors.ScraperError
	if !stderrors.As(err, &scrapeErr) || scrapeErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected ScraperError with 404, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}
