package watcher

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type entry struct {
	task     Task
	interval time.Duration
	trigger  chan struct{}
}

// Scheduler fires each registered task on its own interval, one
// goroutine per task. There is no persistent worker state: every firing
// is an independent RunOnce invocation, and a failing task is logged
// and left alone until its next tick.
type Scheduler struct {
	mu      sync.Mutex
	entries []*entry
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Add registers a task. An interval of zero or less disables the task
// entirely, mirroring the per-detector configuration contract.
func (s *Scheduler) Add(task Task, interval time.Duration) {
	if interval <= 0 {
		log.WithField("task", task.Name()).Info("Task disabled by configuration")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, &entry{
		task:     task,
		interval: interval,
		trigger:  make(chan struct{}, 1),
	})
}

// Trigger requests an immediate out-of-band run of the named task, the
// equivalent of a platform change notification. It never blocks; a
// trigger arriving while one is already pending is coalesced.
func (s *Scheduler) Trigger(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.task.Name() != name {
			continue
		}
		select {
		case e.trigger <- struct{}{}:
		default:
		}
	}
}

// Start launches the task loops. Each task runs once immediately and
// then on every tick or trigger until Stop is called or ctx ends.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.cancel = cancel
	entries := make([]*entry, len(s.entries))
	copy(entries, s.entries)
	s.mu.Unlock()

	for _, e := range entries {
		s.wg.Add(1)
		go s.loop(ctx, e)
	}
}

// Stop cancels all task loops and waits for running invocations to
// return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, e *entry) {
	defer s.wg.Done()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	s.runOnce(ctx, e.task)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx, e.task)
		case <-e.trigger:
			s.runOnce(ctx, e.task)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, task Task) {
	if ctx.Err() != nil {
		return
	}
	if err := task.RunOnce(ctx); err != nil {
		log.WithFields(log.Fields{"task": task.Name()}).WithError(err).Error("Task run failed")
	}
}
