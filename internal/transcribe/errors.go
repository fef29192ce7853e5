package transcribe

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// ErrQuota marks authentication, quota, or rate-limit rejections. These are
// never retried; the run aborts immediately.
var ErrQuota = errors.New("transcription quota or auth rejection")

// ErrTransient marks network failures, timeouts, and server-side errors that
// are worth a bounded retry.
var ErrTransient = errors.New("transient transcription failure")

// Classify wraps an API call error with the taxonomy sentinel it belongs to.
// Context cancellation passes through untouched so a user abort is never
// retried or misreported.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if isQuotaStatus(apiErr.HTTPStatusCode) {
			return fmt.Errorf("%w: %v", ErrQuota, err)
		}
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if isQuotaStatus(reqErr.HTTPStatusCode) {
			return fmt.Errorf("%w: %v", ErrQuota, err)
		}
	}
	// Timeouts, connection resets, 5xx request errors.
	return fmt.Errorf("%w: %v", ErrTransient, err)
}

// ClassifyStatus wraps err with the taxonomy sentinel matching an HTTP
// status code, for backends that surface raw responses instead of typed
// client errors.
func ClassifyStatus(code int, err error) error {
	if isQuotaStatus(code) {
		return fmt.Errorf("%w: %v", ErrQuota, err)
	}
	return fmt.Errorf("%w: %v", ErrTransient, err)
}

func isQuotaStatus(code int) bool {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
		return true
	}
	return false
}
