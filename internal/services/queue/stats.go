package queue

import "fmt"

func (q *QueueService) GetQueueStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	for _, name := range []string{q.eventsQueue, q.jobsQueue} {
		queueInfo, err := q.channel.QueueInspect(name)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect queue %s: %w", name, err)
		}

		stats[name] = map[string]interface{}{
			"messages":  queueInfo.Messages,
			"consumers": queueInfo.Consumers,
		}
	}

	return stats, nil
}

// HealthCheck checks if RabbitMQ is available
func (q *QueueService) HealthCheck() string {
	if q.conn == nil || q.conn.IsClosed() {
		return "unhealthy: connection closed"
	}

	if q.channel == nil {
		return "unhealthy: channel not available"
	}

	return "healthy"
}
