package debounce_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/Tiliavir/tsb/internal/debounce"
)

const delay = 30 * time.Millisecond

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestOnlyTrailingTriggerRuns(t *testing.T) {
	var calls atomic.Int32
	task := debounce.New(delay, func() { calls.Add(1) })

	for i := 0; i < 5; i++ {
		task.Trigger()
		time.Sleep(delay / 5)
	}
	waitFor(t, func() bool { return calls.Load() == 1 })

	time.Sleep(3 * delay)
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestSeparateBurstsRunSeparately(t *testing.T) {
	var calls atomic.Int32
	task := debounce.New(delay, func() { calls.Add(1) })

	task.Trigger()
	waitFor(t, func() bool { return calls.Load() == 1 })
	task.Trigger()
	waitFor(t, func() bool { return calls.Load() == 2 })
}

func TestCancel(t *testing.T) {
	var calls atomic.Int32
	task := debounce.New(delay, func() { calls.Add(1) })

	task.Trigger()
	if !task.Pending() {
		t.Fatal("Pending() = false after Trigger")
	}
	task.Cancel()
	time.Sleep(3 * delay)
	if got := calls.Load(); got != 0 {
		t.Errorf("calls = %d after Cancel, want 0", got)
	}
}

func TestFlush(t *testing.T) {
	var calls atomic.Int32
	task := debounce.New(time.Hour, func() { calls.Add(1) })

	if task.Flush() {
		t.Error("Flush() = true with nothing scheduled")
	}
	task.Trigger()
	if !task.Flush() {
		t.Fatal("Flush() = false with a scheduled run")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
	if task.Pending() {
		t.Error("Pending() = true after Flush")
	}
}

func TestStop(t *testing.T) {
	var calls atomic.Int32
	task := debounce.New(delay, func() { calls.Add(1) })

	task.Trigger()
	task.Stop()
	if task.Trigger() {
		t.Error("Trigger() = true after Stop")
	}
	time.Sleep(3 * delay)
	if got := calls.Load(); got != 0 {
		t.Errorf("calls = %d after Stop, want 0", got)
	}
}
