package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/id-photo-studio/internal/config"
	"github.com/phambaophuc/id-photo-studio/internal/http/handlers"
	"github.com/phambaophuc/id-photo-studio/internal/http/middleware"
	"go.uber.org/zap"
)

type Router struct {
	studioHandler *handlers.StudioHandler
	config        *config.Config
	logger        *zap.Logger
}

func NewRouter(
	studioHandler *handlers.StudioHandler,
	config *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		studioHandler: studioHandler,
		config:        config,
		logger:        logger,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.ErrorHandler(r.logger))
	router.Use(middleware.CORS(r.config.Server.AllowOrigins))
	router.Use(middleware.SecurityHeaders())

	// Room for a full batch of uploads plus form overhead.
	maxUpload := r.config.Storage.MaxFileSize*int64(r.config.RateLimit.Quota) + 1<<20

	// API version 1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", r.studioHandler.HealthCheck)
		v1.GET("/stats", r.studioHandler.GetStats)

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", r.studioHandler.CreateSession)
			sessions.GET("/:id", r.studioHandler.GetSession)
			sessions.DELETE("/:id", r.studioHandler.DeleteSession)
			sessions.PUT("/:id/credential", r.studioHandler.SetCredential)
			sessions.PUT("/:id/settings", r.studioHandler.UpdateSettings)
			sessions.GET("/:id/quota", r.studioHandler.GetQuota)

			sessions.POST("/:id/items", middleware.RequireMultipart(maxUpload), r.studioHandler.UploadItems)
			sessions.GET("/:id/items", r.studioHandler.ListItems)
			sessions.DELETE("/:id/items/:itemID", r.studioHandler.DeleteItem)
			sessions.POST("/:id/items/:itemID/process", r.studioHandler.ProcessItem)
			sessions.GET("/:id/items/:itemID/result", r.studioHandler.GetResult)

			sessions.POST("/:id/process-all", r.studioHandler.ProcessAll)
			sessions.POST("/:id/export", r.studioHandler.ExportResults)
		}
	}

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "ID photo studio is running",
		})
	})

	return router
}
