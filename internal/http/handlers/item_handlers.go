package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/id-photo-studio/internal/models"
	"github.com/phambaophuc/id-photo-studio/internal/services/batch"
	"github.com/phambaophuc/id-photo-studio/pkg/utils"
	"go.uber.org/zap"
)

type rejectedUpload struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

type uploadResponse struct {
	Items    []models.BatchItem `json:"items"`
	Rejected []rejectedUpload   `json:"rejected,omitempty"`
}

// UploadItems adds every valid image of the "images" field as a pending item.
func (h *StudioHandler) UploadItems(c *gin.Context) {
	session, ok := h.getSession(c)
	if !ok {
		return
	}

	files, err := h.parseMultipartFiles(c)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var (
		uploads  []batch.Upload
		rejected []rejectedUpload
	)
	for _, fh := range files {
		data, err := h.readFile(fh)
		if err == nil {
			var contentType string
			data, contentType, err = h.images.PrepareUpload(data)
			if err == nil {
				uploads = append(uploads, batch.Upload{Data: data, ContentType: contentType})
				continue
			}
		}
		rejected = append(rejected, rejectedUpload{Filename: fh.Filename, Error: err.Error()})
	}

	if len(uploads) == 0 {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Success: false,
			Error:   "no valid images provided",
			Data:    uploadResponse{Rejected: rejected},
		})
		return
	}

	items := session.AddItems(uploads, time.Now())
	h.logger.Info("Images uploaded",
		zap.String("session_id", session.ID),
		zap.Int("accepted", len(items)),
		zap.Int("rejected", len(rejected)))

	c.JSON(http.StatusCreated, models.APIResponse{
		Success: true,
		Data:    uploadResponse{Items: items, Rejected: rejected},
	})
}

func (h *StudioHandler) ListItems(c *gin.Context) {
	session, ok := h.getSession(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    session.Items(),
	})
}

func (h *StudioHandler) DeleteItem(c *gin.Context) {
	session, ok := h.getSession(c)
	if !ok {
		return
	}

	if err := session.RemoveItem(c.Param("itemID")); err != nil {
		h.respondServiceError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, models.APIResponse{Success: true})
}

// ProcessItem submits one pending item and waits for the provider.
func (h *StudioHandler) ProcessItem(c *gin.Context) {
	session, ok := h.getSession(c)
	if !ok {
		return
	}

	item, err := h.processor.SubmitOne(c.Request.Context(), session, c.Param("itemID"))
	if err != nil {
		var data interface{}
		if item.ID != "" {
			data = item
		}
		h.respondServiceError(c, err, data)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    item,
	})
}

// GetResult streams a completed photo cropped to the requested size, or the
// session's configured size when none is given.
func (h *StudioHandler) GetResult(c *gin.Context) {
	session, ok := h.getSession(c)
	if !ok {
		return
	}

	item, err := session.Item(c.Param("itemID"))
	if err != nil {
		h.respondServiceError(c, err, nil)
		return
	}
	if item.Status != models.StatusCompleted || !item.HasResult {
		h.respondError(c, http.StatusConflict, fmt.Sprintf("item is %s, no result available", item.Status))
		return
	}

	size := session.Settings().Size
	if raw := c.Query("size"); raw != "" {
		if size, err = models.ParsePhotoSize(raw); err != nil {
			h.respondError(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	data, contentType, err := h.images.ExportResult(item.ResultImage, size)
	if err != nil {
		h.logger.Error("Failed to export result",
			zap.String("item_id", item.ID),
			zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to export result")
		return
	}

	filename := utils.GenerateFilename(item.ID, string(size), contentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Cache-Control", fmt.Sprintf("private, max-age=%d", maxCacheAge))
	c.Data(http.StatusOK, contentType, data)
}
