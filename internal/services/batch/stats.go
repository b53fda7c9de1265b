package batch

import "github.com/blackarched/Prompt-Kraft/internal/models"

func (s *Service) GetStats() models.EngineStats {
	active, completed, queued := s.registry.Counts()

	return models.EngineStats{
		ActiveJobs:           active,
		CompletedJobs:        completed,
		QueueSize:            queued,
		MaxWorkers:           s.pool.Size(),
		MaxConcurrentBatches: s.cfg.MaxConcurrentBatches,
	}
}
