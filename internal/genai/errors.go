package genai

import (
	"context"
	"errors"
	"net/http"

	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

// Call status labels used in logs and metrics.
const (
	StatusOK          = "ok"
	StatusTimeout     = "timeout"
	StatusCanceled    = "canceled"
	StatusRateLimited = "rate_limited"
	StatusAuth        = "auth"
	StatusServer      = "server_error"
	StatusError       = "error"
)

// StatusCode extracts the HTTP status code from a provider SDK error.
// Returns 0 when the error carries none.
func StatusCode(err error) int {
	var oaiErr *openai.Error
	if errors.As(err, &oaiErr) {
		return oaiErr.StatusCode
	}
	var gErr genai.APIError
	if errors.As(err, &gErr) {
		return gErr.Code
	}
	var gErrPtr *genai.APIError
	if errors.As(err, &gErrPtr) && gErrPtr != nil {
		return gErrPtr.Code
	}
	return 0
}

// ClassifyError maps a detection error onto a status label.
func ClassifyError(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, context.Canceled):
		return StatusCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	}

	code := StatusCode(err)
	switch {
	case code == http.StatusTooManyRequests:
		return StatusRateLimited
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return StatusAuth
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return StatusTimeout
	case code >= 500 && code < 600:
		return StatusServer
	default:
		return StatusError
	}
}

// ShouldFallback reports whether another provider is worth trying. Any
// provider-side failure qualifies; a caller that gave up does not.
func ShouldFallback(err error) bool {
	return err != nil && !errors.Is(err, context.Canceled)
}
