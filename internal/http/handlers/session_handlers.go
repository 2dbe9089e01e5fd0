package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/id-photo-studio/internal/models"
)

type createSessionRequest struct {
	APIKey   string                `json:"api_key"`
	Settings *models.PhotoSettings `json:"settings"`
}

type credentialRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

func (h *StudioHandler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}

	if req.Settings != nil {
		if err := req.Settings.Validate(); err != nil {
			h.respondError(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	session := h.sessions.Create(req.APIKey)
	if req.Settings != nil {
		_ = session.UpdateSettings(*req.Settings)
	}

	c.JSON(http.StatusCreated, models.APIResponse{
		Success: true,
		Data:    h.sessionInfo(session),
	})
}

func (h *StudioHandler) GetSession(c *gin.Context) {
	session, ok := h.getSession(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    h.sessionInfo(session),
	})
}

func (h *StudioHandler) DeleteSession(c *gin.Context) {
	if err := h.sessions.Delete(c.Param("id")); err != nil {
		h.respondServiceError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, models.APIResponse{Success: true})
}

func (h *StudioHandler) SetCredential(c *gin.Context) {
	session, ok := h.getSession(c)
	if !ok {
		return
	}

	var req credentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Success: false,
			Error:   "api_key is required",
			Action:  models.ActionConfigureCredential,
		})
		return
	}

	session.SetCredential(req.APIKey)
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    h.sessionInfo(session),
	})
}

// UpdateSettings applies a partial settings document over the current one.
func (h *StudioHandler) UpdateSettings(c *gin.Context) {
	session, ok := h.getSession(c)
	if !ok {
		return
	}

	settings := session.Settings()
	if err := c.ShouldBindJSON(&settings); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid settings: "+err.Error())
		return
	}

	if err := session.UpdateSettings(settings); err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    session.Settings(),
	})
}

// GetQuota is polled by the editor to render remaining capacity.
func (h *StudioHandler) GetQuota(c *gin.Context) {
	session, ok := h.getSession(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    h.processor.Quota(session),
	})
}
