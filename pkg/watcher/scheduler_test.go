package watcher

import (
	"context"
	"testing"
	"time"
)

type countingTask struct {
	name string
	runs chan struct{}
}

func newCountingTask(name string) *countingTask {
	return &countingTask{name: name, runs: make(chan struct{}, 16)}
}

func (t *countingTask) Name() string { return t.name }

func (t *countingTask) RunOnce(ctx context.Context) error {
	select {
	case t.runs <- struct{}{}:
	default:
	}
	return nil
}

func waitForRun(t *testing.T, task *countingTask) {
	t.Helper()
	select {
	case <-task.runs:
	case <-time.After(2 * time.Second):
		t.Fatalf("task %s did not run in time", task.name)
	}
}

func TestSchedulerRunsTaskImmediately(t *testing.T) {
	task := newCountingTask("prober")

	s := NewScheduler()
	s.Add(task, time.Hour)
	s.Start(context.Background())
	defer s.Stop()

	waitForRun(t, task)
}

func TestSchedulerTicks(t *testing.T) {
	task := newCountingTask("ticker")

	s := NewScheduler()
	s.Add(task, 10*time.Millisecond)
	s.Start(context.Background())
	defer s.Stop()

	// One immediate run plus at least one tick.
	waitForRun(t, task)
	waitForRun(t, task)
}

func TestSchedulerTrigger(t *testing.T) {
	task := newCountingTask("triggered")

	s := NewScheduler()
	s.Add(task, time.Hour)
	s.Start(context.Background())
	defer s.Stop()

	waitForRun(t, task)

	s.Trigger("triggered")
	waitForRun(t, task)

	// Unknown names are ignored.
	s.Trigger("nobody")
}

func TestSchedulerDisabledTask(t *testing.T) {
	task := newCountingTask("disabled")

	s := NewScheduler()
	s.Add(task, 0)
	s.Start(context.Background())
	defer s.Stop()

	select {
	case <-task.runs:
		t.Error("disabled task must never run")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSchedulerStopWaits(t *testing.T) {
	task := newCountingTask("stopper")

	s := NewScheduler()
	s.Add(task, 10*time.Millisecond)
	s.Start(context.Background())

	waitForRun(t, task)
	s.Stop()

	// Drain anything in flight at stop time, then verify no further
	// runs arrive.
	for {
		select {
		case <-task.runs:
			continue
		case <-time.After(50 * time.Millisecond):
		}
		break
	}

	select {
	case <-task.runs:
		t.Error("task ran after Stop returned")
	case <-time.After(50 * time.Millisecond):
	}
}
