package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/id-photo-studio/internal/models"
	"github.com/phambaophuc/id-photo-studio/internal/services/batch"
	"github.com/phambaophuc/id-photo-studio/internal/services/generator"
	"github.com/phambaophuc/id-photo-studio/internal/services/processor"
	"go.uber.org/zap"
)

// === REQUEST PARSING ===

func (h *StudioHandler) getSession(c *gin.Context) (*batch.Session, bool) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err, nil)
		return nil, false
	}
	return session, true
}

func (h *StudioHandler) parseMultipartFiles(c *gin.Context) ([]*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("failed to parse form data: %v", err)
	}

	files := form.File[imagesParamKey]
	if len(files) == 0 {
		return nil, fmt.Errorf("no images provided")
	}

	return files, nil
}

// === FILE OPERATIONS ===

func (h *StudioHandler) readFile(fh *multipart.FileHeader) ([]byte, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	limit := h.config.Storage.MaxFileSize
	if limit <= 0 {
		return io.ReadAll(file)
	}

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: exceeds %d bytes", processor.ErrFileTooLarge, limit)
	}
	return data, nil
}

// === RESPONSE HANDLING ===

func (h *StudioHandler) respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

// respondServiceError maps domain errors to status codes. data, when set, is
// returned alongside the error (e.g. the item that failed).
func (h *StudioHandler) respondServiceError(c *gin.Context, err error, data interface{}) {
	var (
		subErr   *batch.SubmissionError
		quotaErr *batch.QuotaError
	)

	switch {
	case errors.Is(err, batch.ErrSessionNotFound), errors.Is(err, batch.ErrItemNotFound):
		h.respondError(c, http.StatusNotFound, err.Error())

	case errors.Is(err, batch.ErrItemNotPending),
		errors.Is(err, batch.ErrItemProcessing),
		errors.Is(err, batch.ErrBatchInProgress):
		c.JSON(http.StatusConflict, models.APIResponse{Success: false, Error: err.Error(), Data: data})

	case errors.As(err, &quotaErr):
		c.JSON(http.StatusTooManyRequests, models.APIResponse{
			Success: false,
			Error:   quotaErr.Error(),
			Data: gin.H{
				"available": quotaErr.Available,
				"waiting":   quotaErr.Waiting,
			},
		})

	case errors.As(err, &subErr):
		h.respondSubmissionError(c, subErr, data)

	default:
		h.logger.Error("Unhandled service error", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *StudioHandler) respondSubmissionError(c *gin.Context, err *batch.SubmissionError, data interface{}) {
	response := models.APIResponse{Success: false, Error: err.Error(), Data: data}
	if err.NeedsCredential() {
		response.Action = models.ActionConfigureCredential
	}

	status := http.StatusBadGateway
	switch err.Kind {
	case batch.KindNoCredential:
		status = http.StatusPreconditionRequired
	case batch.KindRateLimited:
		status = http.StatusTooManyRequests
		c.Header("Retry-After", strconv.Itoa(err.WaitSeconds))
		response.Data = gin.H{"wait_seconds": err.WaitSeconds, "item": data}
	case batch.KindProviderFailure:
		if err.Provider == generator.KindRateLimited {
			c.Header("Retry-After", strconv.Itoa(int(h.config.RateLimit.Window.Seconds())))
		}
	}

	c.JSON(status, response)
}

// === UTILITY METHODS ===

func (h *StudioHandler) calculateOverallHealth(services map[string]string) string {
	for _, status := range services {
		if status != "healthy" && status != "disabled" {
			return "unhealthy"
		}
	}
	return "healthy"
}

func (h *StudioHandler) sessionInfo(session *batch.Session) models.SessionInfo {
	return models.SessionInfo{
		ID:            session.ID,
		HasCredential: h.processor.HasCredential(session),
		Settings:      session.Settings(),
		Items:         len(session.Items()),
		Quota:         h.processor.Quota(session),
		BatchRunning:  session.BatchRunning(),
	}
}
