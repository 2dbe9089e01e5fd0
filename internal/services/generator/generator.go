// Package generator talks to the generative image provider that turns an
// uploaded portrait into a studio ID photo.
package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phambaophuc/id-photo-studio/internal/models"
	"github.com/sashabaranov/go-openai"
)

// Generator produces a processed image from a source image and settings.
// Failures are reported as *ProviderError.
type Generator interface {
	Generate(ctx context.Context, image []byte, settings models.PhotoSettings, credential string) ([]byte, error)
}

type ErrorKind string

const (
	KindRateLimited                 ErrorKind = "rate_limited"
	KindPermissionDenied            ErrorKind = "permission_denied"
	KindNotFoundOrInvalidCredential ErrorKind = "not_found_or_invalid_credential"
	KindUnknown                     ErrorKind = "unknown"
)

type ProviderError struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider error (%s, status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider error (%s): %s", e.Kind, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Classify maps any error coming out of a provider call to a ProviderError.
// Status codes win over message matching; message matching covers errors that
// lost their status on the way (proxies, wrapped transport errors).
func Classify(err error) *ProviderError {
	if err == nil {
		return nil
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &ProviderError{Kind: KindUnknown, Message: "generation timed out", Err: err}
	}

	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	return &ProviderError{
		Kind:       kindFor(status, err.Error()),
		Message:    err.Error(),
		StatusCode: status,
		Err:        err,
	}
}

func kindFor(status int, message string) ErrorKind {
	switch status {
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusForbidden:
		return KindPermissionDenied
	case http.StatusUnauthorized, http.StatusNotFound:
		return KindNotFoundOrInvalidCredential
	}

	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "429"), strings.Contains(msg, "too many requests"),
		strings.Contains(msg, "resource_exhausted"), strings.Contains(msg, "rate limit"):
		return KindRateLimited
	case strings.Contains(msg, "403"), strings.Contains(msg, "permission_denied"):
		return KindPermissionDenied
	case strings.Contains(msg, "404"), strings.Contains(msg, "not found"),
		strings.Contains(msg, "401"), strings.Contains(msg, "invalid api key"),
		strings.Contains(msg, "incorrect api key"):
		return KindNotFoundOrInvalidCredential
	}
	return KindUnknown
}
