// Package debounce runs a function once a quiet period has passed since
// the last trigger.
package debounce

import (
	"sync"
	"time"
)

// Task is a cancellable scheduled call. Each Trigger restarts the quiet
// period; only the trailing trigger runs fn. A Task is safe for concurrent
// use. fn runs on its own goroutine and never overlaps with itself.
type Task struct {
	delay time.Duration
	fn    func()

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	running bool
	stopped bool
}

// New returns a Task that calls fn after delay of silence.
func New(delay time.Duration, fn func()) *Task {
	return &Task{delay: delay, fn: fn}
}

// Trigger schedules fn, cancelling any run that has not started yet.
// It reports false once the task has been stopped.
func (t *Task) Trigger() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return false
	}
	t.pending = true
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, t.fire)
		return true
	}
	t.timer.Reset(t.delay)
	return true
}

// Pending reports whether a run is scheduled and has not started.
func (t *Task) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Cancel drops a scheduled run. A run already in progress completes.
func (t *Task) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = false
	if t.timer != nil {
		t.timer.Stop()
	}
}

// Flush runs a scheduled call immediately on the calling goroutine.
// It reports whether anything ran.
func (t *Task) Flush() bool {
	t.mu.Lock()
	if !t.pending || t.running {
		t.mu.Unlock()
		return false
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	t.pending = false
	t.running = true
	t.mu.Unlock()

	t.run()
	return true
}

// Stop cancels any scheduled run and makes later triggers no-ops.
func (t *Task) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
	t.Cancel()
}

func (t *Task) fire() {
	t.mu.Lock()
	if t.running {
		// A run is in flight; try again after another quiet period.
		if t.pending && t.timer != nil {
			t.timer.Reset(t.delay)
		}
		t.mu.Unlock()
		return
	}
	if !t.pending || t.stopped {
		t.mu.Unlock()
		return
	}
	t.pending = false
	t.running = true
	t.mu.Unlock()

	t.run()
}

func (t *Task) run() {
	defer func() {
		t.mu.Lock()
		t.running = false
		if t.pending && !t.stopped && t.timer != nil {
			t.timer.Reset(t.delay)
		}
		t.mu.Unlock()
	}()
	t.fn()
}
