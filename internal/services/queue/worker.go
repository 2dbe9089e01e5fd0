package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/phambaophuc/id-photo-studio/internal/models"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// JobHandler runs one batch job. Returned errors are logged; the message is
// acknowledged either way since a batch is never retried as a whole.
type JobHandler func(ctx context.Context, job models.BatchJob) error

func (q *QueueService) StartWorker(ctx context.Context, workerID int, handle JobHandler) error {
	msgs, err := q.channel.Consume(
		q.queueName,                        // queue
		fmt.Sprintf("worker-%d", workerID), // consumer
		false,                              // auto-ack
		false,                              // exclusive
		false,                              // no-local
		false,                              // no-wait
		nil,                                // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	q.logger.Info("Worker started", zap.Int("worker_id", workerID))

	go func() {
		for {
			select {
			case <-ctx.Done():
				q.logger.Info("Worker stopping", zap.Int("worker_id", workerID))
				return
			case msg, ok := <-msgs:
				if !ok {
					q.logger.Warn("Message channel closed", zap.Int("worker_id", workerID))
					return
				}

				q.processMessage(ctx, msg, workerID, handle)
			}
		}
	}()

	return nil
}

func (q *QueueService) processMessage(ctx context.Context, msg amqp.Delivery, workerID int, handle JobHandler) {
	job, err := decodeJob(msg.Body)
	if err != nil {
		q.logger.Error("Failed to unmarshal job",
			zap.Error(err),
			zap.Int("worker_id", workerID))
		msg.Nack(false, false) // Don't requeue malformed messages
		return
	}

	q.logger.Info("Processing batch job",
		zap.String("job_id", job.ID),
		zap.String("session_id", job.SessionID),
		zap.Int("worker_id", workerID))

	if err := handle(ctx, job); err != nil {
		q.logger.Error("Batch job failed",
			zap.String("job_id", job.ID),
			zap.String("session_id", job.SessionID),
			zap.Error(err))
	} else {
		q.logger.Info("Batch job completed", zap.String("job_id", job.ID))
	}

	if err := msg.Ack(false); err != nil {
		q.logger.Error("Failed to ack message",
			zap.String("job_id", job.ID),
			zap.Error(err))
	}
}

func decodeJob(body []byte) (models.BatchJob, error) {
	var job models.BatchJob
	if err := json.Unmarshal(body, &job); err != nil {
		return job, err
	}
	if job.SessionID == "" {
		return job, fmt.Errorf("job %q has no session id", job.ID)
	}
	return job, nil
}
