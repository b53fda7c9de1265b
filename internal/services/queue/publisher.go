package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/blackarched/Prompt-Kraft/internal/models"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

func (q *QueueService) PublishJobCompleted(ctx context.Context, record *models.JobRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(newJobEvent(record))
	if err != nil {
		return fmt.Errorf("failed to marshal job event: %w", err)
	}

	q.publishMu.Lock()
	err = q.channel.Publish(
		"",            // exchange
		q.eventsQueue, // routing key
		false,         // mandatory
		false,         // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			MessageId:    record.JobID,
		},
	)
	q.publishMu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish job event: %w", err)
	}

	q.logger.Info("Job event published", zap.String("job_id", record.JobID))
	return nil
}
