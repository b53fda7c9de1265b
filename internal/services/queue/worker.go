package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/blackarched/Prompt-Kraft/internal/services/batch"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Acknowledger is the part of an amqp.Delivery the worker needs.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

var _ Acknowledger = amqp.Delivery{}

func (q *QueueService) StartWorker(ctx context.Context, workerID int) error {
	if q.submitter == nil {
		return errors.New("no job submitter configured")
	}

	msgs, err := q.channel.Consume(
		q.jobsQueue,                        // queue
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

				q.processMessage(msg.Body, msg, workerID)
			}
		}
	}()

	return nil
}

func (q *QueueService) processMessage(body []byte, ack Acknowledger, workerID int) {
	items, opts, err := decodeSubmission(body)
	if err != nil {
		q.logger.Error("Rejecting job submission",
			zap.Error(err),
			zap.Int("worker_id", workerID))
		q.nack(ack, false, workerID) // Don't requeue malformed messages
		return
	}

	jobID, err := q.submitter.SubmitJob(items, opts)
	if err != nil {
		// The engine is shutting down; leave the message for the next consumer.
		requeue := errors.Is(err, batch.ErrServiceClosed)
		q.logger.Error("Failed to submit job from queue",
			zap.Error(err),
			zap.Bool("requeue", requeue),
			zap.Int("worker_id", workerID))
		q.nack(ack, requeue, workerID)
		return
	}

	if err := ack.Ack(false); err != nil {
		q.logger.Error("Failed to ack message",
			zap.String("job_id", jobID),
			zap.Error(err))
	}

	q.logger.Info("Job submitted from queue",
		zap.String("job_id", jobID),
		zap.Int("items", len(items)),
		zap.Int("worker_id", workerID))
}

func (q *QueueService) nack(ack Acknowledger, requeue bool, workerID int) {
	if err := ack.Nack(false, requeue); err != nil {
		q.logger.Error("Failed to nack message",
			zap.Bool("requeue", requeue),
			zap.Int("worker_id", workerID),
			zap.Error(err))
	}
}
