package batch

import (
	"context"
	"fmt"

	"github.com/phambaophuc/id-photo-studio/internal/models"
	"go.uber.org/zap"
)

// JobRunner executes queued "process all" jobs.
type JobRunner struct {
	store     *SessionStore
	processor *Processor
	logger    *zap.Logger
}

func NewJobRunner(store *SessionStore, processor *Processor, logger *zap.Logger) *JobRunner {
	return &JobRunner{store: store, processor: processor, logger: logger}
}

func (r *JobRunner) Run(ctx context.Context, job models.BatchJob) error {
	session, err := r.store.Get(job.SessionID)
	if err != nil {
		return fmt.Errorf("job %s: %w", job.ID, err)
	}

	run, err := r.processor.SubmitAll(ctx, session)
	if err != nil {
		return fmt.Errorf("job %s: %w", job.ID, err)
	}

	r.logger.Info("Batch job finished",
		zap.String("job_id", job.ID),
		zap.String("run_id", run.ID),
		zap.Int("completed", run.Completed),
		zap.Int("failed", run.Failed))
	return nil
}
