package models

import "time"

type BatchRun struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Total      int       `json:"total"`
	Completed  int       `json:"completed"`
	Failed     int       `json:"failed"`
	Skipped    int       `json:"skipped"`
	Cancelled  bool      `json:"cancelled,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

// BatchJob is the queue message asking a worker to process every pending
// item of a session.
type BatchJob struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ItemEvent struct {
	SessionID string     `json:"session_id"`
	ItemID    string     `json:"item_id"`
	Status    ItemStatus `json:"status"`
	Error     string     `json:"error,omitempty"`
	ResultURL string     `json:"result_url,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

type BatchResponse struct {
	Run     *BatchRun `json:"run,omitempty"`
	JobID   string    `json:"job_id,omitempty"`
	Status  string    `json:"status"`
	Pending int       `json:"pending"`
}
