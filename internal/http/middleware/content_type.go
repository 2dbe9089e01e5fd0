package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/id-photo-studio/internal/models"
)

// RequireMultipart rejects upload requests that are not multipart forms and
// caps the request body at maxBytes.
func RequireMultipart(maxBytes int64) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		contentType := ctx.GetHeader("Content-Type")
		if !strings.HasPrefix(contentType, "multipart/form-data") {
			ctx.AbortWithStatusJSON(http.StatusUnsupportedMediaType, models.APIResponse{
				Success: false,
				Error:   "uploads must be sent as multipart/form-data",
			})
			return
		}

		if maxBytes > 0 {
			ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxBytes)
		}
		ctx.Next()
	}
}
