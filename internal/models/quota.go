package models

import "time"

type QuotaStatus struct {
	Limit       int           `json:"limit"`
	Remaining   int           `json:"remaining"`
	WaitTime    time.Duration `json:"-"`
	WaitSeconds int           `json:"wait_seconds"`
	ResetAt     *time.Time    `json:"reset_at,omitempty"`
}
