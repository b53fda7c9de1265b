package queue

import (
	"fmt"
	"sync"

	"github.com/blackarched/Prompt-Kraft/internal/config"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// QueueService connects the batch engine to RabbitMQ. It publishes job
// completion events and consumes job submissions.
type QueueService struct {
	conn        *amqp.Connection
	channel     *amqp.Channel
	logger      *zap.Logger
	eventsQueue string
	jobsQueue   string
	submitter   JobSubmitter

	// publishMu serializes publishes on the shared channel.
	publishMu sync.Mutex
}

func NewQueueService(cfg config.RabbitMQConfig, submitter JobSubmitter, logger *zap.Logger) (*QueueService, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	for _, name := range []string{cfg.QueueName, cfg.JobsQueue} {
		_, err = channel.QueueDeclare(
			name,  // name
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to declare queue %s: %w", name, err)
		}
	}

	return &QueueService{
		conn:        conn,
		channel:     channel,
		logger:      logger,
		eventsQueue: cfg.QueueName,
		jobsQueue:   cfg.JobsQueue,
		submitter:   submitter,
	}, nil
}

// SetSubmitter attaches the engine that consumed submissions are handed to.
func (q *QueueService) SetSubmitter(submitter JobSubmitter) {
	q.submitter = submitter
}

// Close closes the queue connection
func (q *QueueService) Close() error {
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}
