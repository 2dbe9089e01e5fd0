package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/phambaophuc/id-photo-studio/internal/models"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

func (q *QueueService) PublishBatchJob(ctx context.Context, job models.BatchJob) error {
	jobBytes, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	err = q.publish(ctx, "", q.queueName, amqp.Publishing{
		ContentType:  "application/json",
		Body:         jobBytes,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		MessageId:    job.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to publish job: %w", err)
	}

	q.logger.Info("Batch job published to queue",
		zap.String("job_id", job.ID),
		zap.String("session_id", job.SessionID))
	return nil
}

// PublishItemEvent broadcasts an item status change. Events are transient.
func (q *QueueService) PublishItemEvent(ctx context.Context, event models.ItemEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = q.publish(ctx, q.exchange, "", amqp.Publishing{
		ContentType:  "application/json",
		Body:         eventBytes,
		DeliveryMode: amqp.Transient,
		Timestamp:    event.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (q *QueueService) publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	q.publishMu.Lock()
	defer q.publishMu.Unlock()

	return q.channel.Publish(
		exchange, // exchange
		key,      // routing key
		false,    // mandatory
		false,    // immediate
		msg,
	)
}
