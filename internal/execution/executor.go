package execution

import (
	"context"
	"time"
)

// Task is one independent unit of work: one exported file or one uploaded test
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Result is the outcome of a task
type Result struct {
	Name     string
	Err      error
	Duration time.Duration
}

// Success reports whether the task completed without error
func (r Result) Success() bool {
	return r.Err == nil
}

// Progress receives the running totals after every completed task
type Progress interface {
	Update(completed, succeeded, failed int)
	Finish()
}

// Executor executes tasks and returns their results
type Executor interface {
	Execute(ctx context.Context, tasks []Task) ([]Result, time.Duration, error)
	SetProgress(progress Progress)
}

var _ Executor = (*WorkerPool)(nil)
