// Package watcher contains the triggerable units of work the agent
// schedules: the detectors that turn platform activity into stored
// events, and the glue that runs them.
//
// Detectors are short-lived invocations, not loops. Each one re-scans
// its platform source from a bounded point, records what it has not seen
// before, and returns. Failures are isolated: a detector error never
// stops another detector or the transfer pipeline.
package watcher

import "context"

// Task is a re-entrant unit of work invoked by the Scheduler. RunOnce
// must tolerate being called again for the next interval regardless of
// how the previous call ended.
type Task interface {
	Name() string
	RunOnce(ctx context.Context) error
}
