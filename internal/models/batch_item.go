package models

import (
	"errors"
	"fmt"
	"time"
)

type ItemStatus string

const (
	StatusPending    ItemStatus = "pending"
	StatusProcessing ItemStatus = "processing"
	StatusCompleted  ItemStatus = "completed"
	StatusError      ItemStatus = "error"
)

var ErrInvalidTransition = errors.New("invalid item status transition")

// IsTerminal reports whether no further transition is allowed from s.
func (s ItemStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusError
}

// BatchItem is one uploaded portrait and its generation outcome. Image bytes
// are kept off the wire; clients fetch them through the result endpoint.
type BatchItem struct {
	ID          string     `json:"id"`
	SourceImage []byte     `json:"-"`
	SourceType  string     `json:"source_type"`
	ResultImage []byte     `json:"-"`
	HasResult   bool       `json:"has_result"`
	ResultURL   string     `json:"result_url,omitempty"`
	Status      ItemStatus `json:"status"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func NewBatchItem(id string, source []byte, contentType string, now time.Time) *BatchItem {
	return &BatchItem{
		ID:          id,
		SourceImage: source,
		SourceType:  contentType,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Transition moves the item along pending -> processing -> completed|error.
func (i *BatchItem) Transition(to ItemStatus, now time.Time) error {
	allowed := false
	switch i.Status {
	case StatusPending:
		allowed = to == StatusProcessing
	case StatusProcessing:
		allowed = to == StatusCompleted || to == StatusError
	}
	if !allowed {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, i.Status, to)
	}

	i.Status = to
	i.UpdatedAt = now
	return nil
}

// Complete stores the result exactly once and marks the item completed.
func (i *BatchItem) Complete(result []byte, now time.Time) error {
	if err := i.Transition(StatusCompleted, now); err != nil {
		return err
	}
	i.ResultImage = result
	i.HasResult = len(result) > 0
	return nil
}

func (i *BatchItem) Fail(cause string, now time.Time) error {
	if err := i.Transition(StatusError, now); err != nil {
		return err
	}
	i.Error = cause
	return nil
}

// Clone returns a copy safe to hand out while the original keeps mutating.
// Byte slices are shared since they are never written after being set.
func (i *BatchItem) Clone() BatchItem {
	return *i
}
