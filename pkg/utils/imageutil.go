package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

var downloadClient = &http.Client{
	Timeout: 30 * time.Second,
}

// DownloadImage fetches an image URL returned by the provider.
func DownloadImage(ctx context.Context, imageURL string, maxSize int64) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := downloadClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(io.LimitReader(resp.Body, maxSize))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}

	if len(imageData) == 0 {
		return nil, "", fmt.Errorf("empty image data")
	}

	contentType := http.DetectContentType(imageData)
	if !IsValidImageType(contentType) {
		return nil, "", fmt.Errorf("invalid content type: %s", contentType)
	}

	return imageData, contentType, nil
}

// IsValidImageType checks if content type is a valid image type
func IsValidImageType(contentType string) bool {
	validTypes := []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/webp",
	}

	ct := strings.ToLower(contentType)
	for _, validType := range validTypes {
		if strings.Contains(ct, validType) {
			return true
		}
	}
	return false
}

// ExtensionFor maps a detected content type to a file extension.
func ExtensionFor(contentType string) string {
	switch {
	case strings.Contains(contentType, "png"):
		return ".png"
	case strings.Contains(contentType, "webp"):
		return ".webp"
	default:
		return ".jpg"
	}
}

// GenerateStorageKey builds the object path for an archived result:
// results/<session>/<item>_<unix>_<rand><ext>
func GenerateStorageKey(sessionID, itemID, contentType string) string {
	timestamp := time.Now().Unix()
	suffix := uuid.New().String()[:8]

	return path.Join("results", sessionID,
		fmt.Sprintf("%s_%d_%s%s", itemID, timestamp, suffix, ExtensionFor(contentType)))
}

// GenerateFilename names a downloaded result.
func GenerateFilename(itemID, size, contentType string) string {
	if size == "" {
		return fmt.Sprintf("id-photo-%s%s", itemID, ExtensionFor(contentType))
	}
	return fmt.Sprintf("id-photo-%s-%s%s", itemID, size, ExtensionFor(contentType))
}
