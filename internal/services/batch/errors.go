package batch

import (
	"errors"
	"fmt"

	"github.com/phambaophuc/id-photo-studio/internal/services/generator"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrItemNotPending  = errors.New("item is not pending")
	ErrItemProcessing  = errors.New("item is being processed")
	ErrBatchInProgress = errors.New("a batch is already running for this session")
)

type SubmissionKind string

const (
	KindNoCredential    SubmissionKind = "no_credential"
	KindRateLimited     SubmissionKind = "rate_limited"
	KindProviderFailure SubmissionKind = "provider_failure"
)

// SubmissionError is what a caller sees when a submission does not produce
// a result. RateLimited rejections never reached the provider.
type SubmissionError struct {
	Kind        SubmissionKind
	WaitSeconds int
	Provider    generator.ErrorKind
	Message     string
}

func (e *SubmissionError) Error() string {
	switch e.Kind {
	case KindNoCredential:
		return "no API credential configured; add one before submitting photos"
	case KindRateLimited:
		return fmt.Sprintf("request limit reached, try again in %d seconds", e.WaitSeconds)
	}

	switch e.Provider {
	case generator.KindRateLimited:
		return "the provider is throttling this credential; wait about a minute before retrying"
	case generator.KindPermissionDenied:
		return "the provider denied access for this credential; check its permissions"
	case generator.KindNotFoundOrInvalidCredential:
		return "the provider rejected the credential or model; reconfigure the API key"
	}
	return "generation failed: " + e.Message
}

// NeedsCredential reports whether the fix is to (re)configure the API key.
func (e *SubmissionError) NeedsCredential() bool {
	if e.Kind == KindNoCredential {
		return true
	}
	return e.Kind == KindProviderFailure &&
		(e.Provider == generator.KindPermissionDenied || e.Provider == generator.KindNotFoundOrInvalidCredential)
}

// QuotaError aborts a batch before any call when the window cannot fit every
// pending item.
type QuotaError struct {
	Available int
	Waiting   int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("only %d of %d pending photos can be processed now; %d must wait for the next window",
		e.Available, e.Available+e.Waiting, e.Waiting)
}
