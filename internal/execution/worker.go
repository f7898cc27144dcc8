package execution

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tmsync/internal/config"
)

// WorkerPool runs tasks on a fixed number of workers
type WorkerPool struct {
	config   *config.Config
	progress Progress
}

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(cfg *config.Config) *WorkerPool {
	return &WorkerPool{config: cfg}
}

// SetProgress sets the progress reporter for the next run
func (wp *WorkerPool) SetProgress(progress Progress) {
	wp.progress = progress
}

// Execute runs all tasks and stops dispatching after the first failure.
// Tasks already running when a failure is seen still complete; their results are kept.
// The returned error is the first task failure.
func (wp *WorkerPool) Execute(ctx context.Context, tasks []Task) ([]Result, time.Duration, error) {
	return wp.ExecuteWithOptions(ctx, tasks, true)
}

// ExecuteWithOptions runs tasks with optional fail-fast. Without fail-fast every task
// runs and the first failure is still returned.
func (wp *WorkerPool) ExecuteWithOptions(parent context.Context, tasks []Task, failFast bool) ([]Result, time.Duration, error) {
	if len(tasks) == 0 {
		return nil, 0, nil
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	taskQueue := make(chan Task)
	results := make(chan Result, len(tasks))

	go func() {
		defer close(taskQueue)
		for _, task := range tasks {
			select {
			case <-ctx.Done():
				return
			case taskQueue <- task:
			}
		}
	}()

	var mu sync.Mutex
	var completed, succeeded, failed int
	var firstErr error
	startTime := time.Now()

	workerCount := wp.config.Processors
	if workerCount <= 0 {
		workerCount = 1
	}
	if workerCount > len(tasks) {
		workerCount = len(tasks)
	}

	var wg sync.WaitGroup
	for i := 1; i <= workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskQueue {
				// The dispatcher may still hand out a task after cancellation
				if ctx.Err() != nil {
					continue
				}
				// Running tasks get the caller's context: a failure elsewhere
				// stops dispatching, not requests already sent
				start := time.Now()
				err := task.Run(parent)
				result := Result{Name: task.Name, Err: err, Duration: time.Since(start)}
				results <- result

				mu.Lock()
				completed++
				if result.Success() {
					succeeded++
				} else {
					failed++
					if firstErr == nil {
						firstErr = fmt.Errorf("%s: %w", task.Name, err)
						if failFast {
							cancel()
						}
					}
				}
				if wp.progress != nil {
					wp.progress.Update(completed, succeeded, failed)
				}
				mu.Unlock()
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var allResults []Result
	for result := range results {
		allResults = append(allResults, result)
	}
	if wp.progress != nil {
		wp.progress.Finish()
	}
	if firstErr == nil && parent.Err() != nil {
		firstErr = parent.Err()
	}
	return allResults, time.Since(startTime), firstErr
}
