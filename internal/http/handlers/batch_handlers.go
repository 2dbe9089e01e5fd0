package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/phambaophuc/id-photo-studio/internal/models"
	"github.com/phambaophuc/id-photo-studio/pkg/utils"
	"go.uber.org/zap"
)

// ProcessAll starts a "process all" run. The quota pre-flight runs here so
// the caller learns immediately when the window cannot fit the batch. With
// ?sync=true the run happens inside the request.
func (h *StudioHandler) ProcessAll(c *gin.Context) {
	session, ok := h.getSession(c)
	if !ok {
		return
	}

	pending, err := h.processor.Preflight(session)
	if err != nil {
		h.respondServiceError(c, err, nil)
		return
	}

	if pending == 0 {
		c.JSON(http.StatusOK, models.APIResponse{
			Success: true,
			Data:    models.BatchResponse{Status: "nothing_pending"},
		})
		return
	}

	if c.Query("sync") == "true" {
		run, err := h.processor.SubmitAll(c.Request.Context(), session)
		if err != nil {
			h.respondServiceError(c, err, nil)
			return
		}
		c.JSON(http.StatusOK, models.APIResponse{
			Success: true,
			Data:    models.BatchResponse{Run: run, Status: "finished", Pending: pending},
		})
		return
	}

	job := models.BatchJob{
		ID:        uuid.New().String(),
		SessionID: session.ID,
		CreatedAt: time.Now(),
	}

	status := "queued"
	if h.queue == nil || h.queue.PublishBatchJob(c.Request.Context(), job) != nil {
		status = "started"
		h.startInBackground(job)
	}

	c.JSON(http.StatusAccepted, models.APIResponse{
		Success: true,
		Data:    models.BatchResponse{JobID: job.ID, Status: status, Pending: pending},
	})
}

func (h *StudioHandler) startInBackground(job models.BatchJob) {
	h.logger.Info("Running batch without queue",
		zap.String("job_id", job.ID),
		zap.String("session_id", job.SessionID))

	go func() {
		if err := h.runner.Run(h.background, job); err != nil {
			h.logger.Warn("Background batch failed",
				zap.String("job_id", job.ID),
				zap.Error(err))
		}
	}()
}

type exportResponse struct {
	Results []models.ArchivedResult `json:"results"`
	Failed  int                     `json:"failed"`
}

// ExportResults uploads every completed photo, cropped to the session's
// photo size, and returns the public URLs.
func (h *StudioHandler) ExportResults(c *gin.Context) {
	session, ok := h.getSession(c)
	if !ok {
		return
	}

	if h.storage == nil || !h.storage.ArchiveEnabled() {
		h.respondError(c, http.StatusServiceUnavailable, "result archiving is not configured")
		return
	}

	size := session.Settings().Size
	var (
		files []models.UploadFile
		items []models.BatchItem
	)
	for _, item := range session.Items() {
		if item.Status != models.StatusCompleted || !item.HasResult {
			continue
		}
		data, contentType, err := h.images.ExportResult(item.ResultImage, size)
		if err != nil {
			h.logger.Warn("Skipping result that failed to export",
				zap.String("item_id", item.ID),
				zap.Error(err))
			continue
		}
		files = append(files, models.UploadFile{
			Key:         utils.GenerateStorageKey(session.ID, item.ID, contentType),
			Filename:    utils.GenerateFilename(item.ID, string(size), contentType),
			ContentType: contentType,
			Data:        data,
		})
		items = append(items, item)
	}

	if len(files) == 0 {
		h.respondError(c, http.StatusConflict, "no completed photos to export")
		return
	}

	urls, err := h.storage.UploadMultiple(c.Request.Context(), files)
	if err != nil {
		h.logger.Warn("Export finished with errors",
			zap.String("session_id", session.ID),
			zap.Error(err))
	}

	response := exportResponse{}
	now := time.Now()
	for i, url := range urls {
		if url == "" {
			response.Failed++
			continue
		}
		response.Results = append(response.Results, models.ArchivedResult{
			ItemID:     items[i].ID,
			URL:        url,
			FileSize:   int64(len(files[i].Data)),
			ArchivedAt: now,
		})
	}

	if len(response.Results) == 0 {
		h.respondError(c, http.StatusBadGateway, "failed to upload results")
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    response,
	})
}

