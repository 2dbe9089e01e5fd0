package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/phambaophuc/id-photo-studio/internal/models"
	"github.com/phambaophuc/id-photo-studio/pkg/utils"
	storage_go "github.com/supabase-community/storage-go"
	"go.uber.org/zap"
)

var ErrArchiveDisabled = errors.New("result archiving is not configured")

// Upload stores data under key and returns its public URL.
func (s *StorageService) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if !s.ArchiveEnabled() {
		return "", ErrArchiveDisabled
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	upsert := true
	_, err := s.uploadClient().UploadFile(s.bucket, key, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to supabase: %w", err)
	}

	publicURL := s.sbClient.GetPublicUrl(s.bucket, key)
	return publicURL.SignedURL, nil
}

// ArchiveResult uploads the generated photo of a completed item.
func (s *StorageService) ArchiveResult(ctx context.Context, sessionID string, item models.BatchItem) (*models.ArchivedResult, error) {
	if item.Status != models.StatusCompleted || len(item.ResultImage) == 0 {
		return nil, fmt.Errorf("item %s has no result to archive", item.ID)
	}

	contentType := http.DetectContentType(item.ResultImage)
	key := utils.GenerateStorageKey(sessionID, item.ID, contentType)

	url, err := s.Upload(ctx, key, item.ResultImage, contentType)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Result archived",
		zap.String("session_id", sessionID),
		zap.String("item_id", item.ID),
		zap.String("key", key))

	return &models.ArchivedResult{
		ItemID:     item.ID,
		URL:        url,
		FileSize:   int64(len(item.ResultImage)),
		ArchivedAt: time.Now(),
	}, nil
}

// Delete removes file from Supabase Storage
func (s *StorageService) Delete(ctx context.Context, key string) error {
	if !s.ArchiveEnabled() {
		return ErrArchiveDisabled
	}
	_, err := s.sbClient.RemoveFile(s.bucket, []string{key})
	return err
}
