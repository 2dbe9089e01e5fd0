package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
)

func TestClassifyStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   ErrorKind
		status int
	}{
		{"api 429", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "slow down"}, KindRateLimited, 429},
		{"api 403", &openai.APIError{HTTPStatusCode: http.StatusForbidden, Message: "no access"}, KindPermissionDenied, 403},
		{"api 404", &openai.APIError{HTTPStatusCode: http.StatusNotFound, Message: "model missing"}, KindNotFoundOrInvalidCredential, 404},
		{"api 401", &openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "bad key"}, KindNotFoundOrInvalidCredential, 401},
		{"api 500", &openai.APIError{HTTPStatusCode: http.StatusInternalServerError, Message: "boom"}, KindUnknown, 500},
		{"request 429", &openai.RequestError{HTTPStatusCode: http.StatusTooManyRequests, Err: errors.New("busy")}, KindRateLimited, 429},
		{"wrapped api 403", fmt.Errorf("call failed: %w", &openai.APIError{HTTPStatusCode: 403}), KindPermissionDenied, 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.status, got.StatusCode)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassifyMessages(t *testing.T) {
	tests := []struct {
		msg  string
		kind ErrorKind
	}{
		{"got 429 Too Many Requests", KindRateLimited},
		{"RESOURCE_EXHAUSTED: quota", KindRateLimited},
		{"PERMISSION_DENIED for project", KindPermissionDenied},
		{"models/foo is not found", KindNotFoundOrInvalidCredential},
		{"Incorrect API key provided", KindNotFoundOrInvalidCredential},
		{"connection reset by peer", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			got := Classify(errors.New(tt.msg))
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.msg, got.Message)
		})
	}
}

func TestClassifyKeepsProviderError(t *testing.T) {
	original := &ProviderError{Kind: KindPermissionDenied, Message: "nope"}
	assert.Same(t, original, Classify(fmt.Errorf("wrapped: %w", original)))
	assert.Nil(t, Classify(nil))
}

func TestClassifyTimeout(t *testing.T) {
	got := Classify(fmt.Errorf("edit: %w", context.DeadlineExceeded))
	assert.Equal(t, KindUnknown, got.Kind)
	assert.Equal(t, "generation timed out", got.Message)
}

func TestProviderErrorMessage(t *testing.T) {
	err := &ProviderError{Kind: KindRateLimited, Message: "slow down", StatusCode: 429}
	assert.Equal(t, "provider error (rate_limited, status 429): slow down", err.Error())

	err = &ProviderError{Kind: KindUnknown, Message: "empty"}
	assert.Equal(t, "provider error (unknown): empty", err.Error())
}
