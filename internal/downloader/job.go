package downloader

import (
	"context"
	"errors"
	"sync"

	"github.com/lepinkainen/shelfcovers/internal/book"
)

// State is the lifecycle state of a Job
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateAborted   State = "aborted"
)

// ErrJobRunning is returned by Start while a batch is still in progress
var ErrJobRunning = errors.New("download job is already running")

// Job runs one download batch at a time on a background goroutine.
// A finished job (completed or aborted) can be started again.
type Job struct {
	downloader *Downloader

	mu     sync.Mutex
	state  State
	done   chan struct{}
	result Result
	err    error
}

// NewJob creates an idle job around d
func NewJob(d *Downloader) *Job {
	return &Job{downloader: d, state: StateIdle}
}

// State returns the current state
func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Start launches a batch over records and returns a channel carrying one Event per
// processed record. The channel is closed when the batch ends. The records must not
// be read or modified by the caller until the channel is closed.
func (j *Job) Start(ctx context.Context, records []*book.Record, dir string) (<-chan Event, error) {
	j.mu.Lock()
	if j.state == StateRunning {
		j.mu.Unlock()
		return nil, ErrJobRunning
	}
	j.state = StateRunning
	j.result = Result{}
	j.err = nil
	done := make(chan struct{})
	j.done = done
	j.mu.Unlock()

	// buffered so the worker never waits on a slow consumer
	events := make(chan Event, len(records))

	worker := *j.downloader
	forward := j.downloader.OnEvent
	worker.OnEvent = func(e Event) {
		if forward != nil {
			forward(e)
		}
		events <- e
	}

	go func() {
		result, err := worker.DownloadAll(ctx, records, dir)

		j.mu.Lock()
		j.result = result
		j.err = err
		if err != nil {
			j.state = StateAborted
		} else {
			j.state = StateCompleted
		}
		j.mu.Unlock()

		close(events)
		close(done)
	}()

	return events, nil
}

// Wait blocks until the current batch ends and returns its result.
// It returns immediately for a job that was never started.
func (j *Job) Wait() (Result, error) {
	j.mu.Lock()
	done := j.done
	j.mu.Unlock()

	if done != nil {
		<-done
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result, j.err
}
