package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/phambaophuc/id-photo-studio/internal/models"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentUploads = 5

// UploadMultiple uploads files with bounded concurrency. URLs are returned in
// input order; failed uploads leave an empty string and are reported in the
// returned error.
func (s *StorageService) UploadMultiple(ctx context.Context, files []models.UploadFile) ([]string, error) {
	if len(files) == 0 {
		return []string{}, nil
	}

	urls := make([]string, len(files))

	var (
		mu     sync.Mutex
		failed []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentUploads)

	for i, file := range files {
		i, file := i, file // per-iteration copies (go directive is 1.21)
		g.Go(func() error {
			url, err := s.Upload(gctx, file.Key, file.Data, file.ContentType)
			if err != nil {
				mu.Lock()
				failed = append(failed, fmt.Sprintf("%s: %v", file.Filename, err))
				mu.Unlock()
				return nil
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return urls, err
	}

	if len(failed) > 0 {
		return urls, fmt.Errorf("failed to upload %d files: %s", len(failed), strings.Join(failed, "; "))
	}

	return urls, nil
}
