// Package audittask schedules the audit subprocess as a background task
// the Event Controller can trigger without blocking its own event loop,
// grounded on appraiser.rs's AuditController::spawn/send pair: a dedicated
// task owns the subprocess invocation, reporting results back as an event
// rather than being awaited inline.
package audittask

import (
	"context"
	"time"

	"github.com/orizon-lang/manifest-lsp/internal/audit"
)

// Result is what one audit run reports back to the caller.
type Result struct {
	ByPackage map[string][]*audit.Issue
	Err       error
}

// Task runs audit.Runner.RunAudit/audit.Parse in the background, debounced
// so a burst of LockChanged/Resolved triggers collapses into one run.
type Task struct {
	runner       audit.Runner
	lockfilePath string
	members      []string
	delay        time.Duration

	triggers chan struct{}
	results  chan<- Result
}

// New constructs a Task that debounces triggers by delay before invoking
// runner, reporting each run's parsed issues (keyed by package name, per
// audit.Parse) on results. delay mirrors the audit debounce window; a
// fixed 2s default is used when delay <= 0, short enough that a
// LockChanged -> Resolved pair in quick succession still collapses to one
// run without making the user wait for diagnostics.
func New(runner audit.Runner, lockfilePath string, members []string, delay time.Duration, results chan<- Result) *Task {
	if delay <= 0 {
		delay = 2 * time.Second
	}
	return &Task{
		runner:       runner,
		lockfilePath: lockfilePath,
		members:      members,
		delay:        delay,
		triggers:     make(chan struct{}, 1),
		results:      results,
	}
}

// SetMembers updates the workspace member list used to attribute issues to
// direct dependencies, called whenever the resolver reports new members.
func (t *Task) SetMembers(members []string) {
	t.members = members
}

// Trigger requests a run, coalescing with any already-pending trigger.
func (t *Task) Trigger() {
	select {
	case t.triggers <- struct{}{}:
	default:
	}
}

// Run drains triggers until ctx is canceled, debouncing each one by delay
// before invoking the audit subprocess exactly once per burst.
func (t *Task) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.triggers:
			if !pending {
				pending = true
				timer.Reset(t.delay)
			}
		case <-timer.C:
			pending = false
			t.runOnce(ctx)
		}
	}
}

func (t *Task) runOnce(ctx context.Context) {
	stdout, _, err := t.runner.RunAudit(ctx, t.lockfilePath)
	if err != nil {
		select {
		case t.results <- Result{Err: err}:
		case <-ctx.Done():
		}
		return
	}
	issues := audit.Parse(stdout, t.members)
	select {
	case t.results <- Result{ByPackage: issues}:
	case <-ctx.Done():
	}
}
