package handlers

import (
	"context"

	"github.com/phambaophuc/id-photo-studio/internal/config"
	"github.com/phambaophuc/id-photo-studio/internal/models"
	"github.com/phambaophuc/id-photo-studio/internal/services/batch"
	"github.com/phambaophuc/id-photo-studio/internal/services/processor"
	"go.uber.org/zap"
)

const (
	maxCacheAge    = 3600
	imagesParamKey = "images"
)

// BatchQueue hands "process all" jobs to background workers.
type BatchQueue interface {
	PublishBatchJob(ctx context.Context, job models.BatchJob) error
	HealthCheck() string
}

// ResultStore archives exported photos and reports backing service health.
type ResultStore interface {
	ArchiveEnabled() bool
	UploadMultiple(ctx context.Context, files []models.UploadFile) ([]string, error)
	HealthCheck(ctx context.Context) map[string]string
}

type StudioHandler struct {
	sessions  *batch.SessionStore
	processor *batch.Processor
	runner    *batch.JobRunner
	images    *processor.ImageProcessor
	storage   ResultStore
	queue     BatchQueue
	logger    *zap.Logger
	config    *config.Config

	// background bounds batches started without the queue; cancelled on
	// shutdown.
	background context.Context
}

type Dependencies struct {
	Sessions   *batch.SessionStore
	Processor  *batch.Processor
	Runner     *batch.JobRunner
	Images     *processor.ImageProcessor
	Storage    ResultStore
	Queue      BatchQueue
	Logger     *zap.Logger
	Config     *config.Config
	Background context.Context
}

func NewStudioHandler(deps Dependencies) *StudioHandler {
	background := deps.Background
	if background == nil {
		background = context.Background()
	}
	return &StudioHandler{
		sessions:   deps.Sessions,
		processor:  deps.Processor,
		runner:     deps.Runner,
		images:     deps.Images,
		storage:    deps.Storage,
		queue:      deps.Queue,
		logger:     deps.Logger,
		config:     deps.Config,
		background: background,
	}
}
