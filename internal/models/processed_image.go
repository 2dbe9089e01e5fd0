package models

import "time"

// ArchivedResult points at a generated photo uploaded to object storage.
type ArchivedResult struct {
	ItemID     string    `json:"item_id"`
	URL        string    `json:"url"`
	FileSize   int64     `json:"file_size"`
	ArchivedAt time.Time `json:"archived_at"`
}

type UploadFile struct {
	Key         string
	Filename    string
	ContentType string
	Data        []byte
}
