package batch

import (
	"container/list"
	"sync"

	"github.com/blackarched/Prompt-Kraft/internal/models"
)

// JobQueue is a FIFO of pending jobs with lookup by id.
type JobQueue struct {
	mu    sync.Mutex
	jobs  *list.List
	index map[string]*list.Element
}

func NewJobQueue() *JobQueue {
	return &JobQueue{
		jobs:  list.New(),
		index: make(map[string]*list.Element),
	}
}

func (q *JobQueue) Push(job *models.BatchJob) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.index[job.JobID] = q.jobs.PushBack(job)
}

func (q *JobQueue) Pop() (*models.BatchJob, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	front := q.jobs.Front()
	if front == nil {
		return nil, false
	}

	job := q.jobs.Remove(front).(*models.BatchJob)
	delete(q.index, job.JobID)
	return job, true
}

func (q *JobQueue) Get(jobID string) (*models.BatchJob, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	el, ok := q.index[jobID]
	if !ok {
		return nil, false
	}
	return el.Value.(*models.BatchJob), true
}

// Position returns the zero-based place of jobID in the queue.
func (q *JobQueue) Position(jobID string) (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.index[jobID]; !ok {
		return 0, false
	}

	pos := 0
	for el := q.jobs.Front(); el != nil; el = el.Next() {
		if el.Value.(*models.BatchJob).JobID == jobID {
			return pos, true
		}
		pos++
	}
	return 0, false
}

func (q *JobQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.jobs.Len()
}
