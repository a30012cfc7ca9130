package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/anurag-chatbot/au-fulfillment/internal/ctxutil"
)

func newMiddlewareRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/echo", func(c *gin.Context) {
		id, _ := ctxutil.GetRequestID(c.Request.Context())
		c.String(http.StatusOK, id)
	})
	r.POST("/chat", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequestIDMiddleware(t *testing.T) {
	t.Parallel()
	r := newMiddlewareRouter(requestIDMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	req.Header.Set(requestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get(requestIDHeader); got != "req-123" {
		t.Errorf("response header = %q, want req-123", got)
	}
	if w.Body.String() != "req-123" {
		t.Errorf("context request ID = %q, want req-123", w.Body.String())
	}
}

func TestRequestIDMiddleware_Generates(t *testing.T) {
	t.Parallel()
	r := newMiddlewareRouter(requestIDMiddleware())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/echo", nil))

	id := w.Header().Get(requestIDHeader)
	if len(id) != 36 {
		t.Errorf("generated request ID = %q, want a UUID", id)
	}
	if w.Body.String() != id {
		t.Errorf("context request ID = %q, want %q", w.Body.String(), id)
	}
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	t.Parallel()
	r := newMiddlewareRouter(securityHeadersMiddleware())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/echo", nil))

	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	} {
		if got := w.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
}

func TestCORSMiddleware(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		origins    []string
		origin     string
		method     string
		wantStatus int
		wantAllow  string
	}{
		{"wildcard preflight", []string{"*"}, "https://anurag.edu.in", http.MethodOptions, http.StatusNoContent, "*"},
		{"listed origin", []string{"https://anurag.edu.in"}, "https://anurag.edu.in", http.MethodPost, http.StatusOK, "https://anurag.edu.in"},
		{"unlisted origin", []string{"https://anurag.edu.in"}, "https://evil.example", http.MethodPost, http.StatusOK, ""},
		{"no origin", []string{"*"}, "", http.MethodPost, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := newMiddlewareRouter(corsMiddleware(tt.origins))

			req := httptest.NewRequest(tt.method, "/chat", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantAllow)
			}
		})
	}
}

func TestMetricsAuthMiddleware(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		user     string
		pass     string
		setAuth  bool
		want     int
	}{
		{"open when no password", "", "", "", false, http.StatusOK},
		{"missing credentials", "secret", "", "", false, http.StatusUnauthorized},
		{"wrong password", "secret", "prometheus", "nope", true, http.StatusUnauthorized},
		{"wrong user", "secret", "admin", "secret", true, http.StatusUnauthorized},
		{"valid", "secret", "prometheus", "secret", true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := newMiddlewareRouter(metricsAuthMiddleware("prometheus", tt.password))

			req := httptest.NewRequest(http.MethodGet, "/echo", nil)
			if tt.setAuth {
				req.SetBasicAuth(tt.user, tt.pass)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
