package audittask

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type fakeRunner struct {
	calls atomic.Int32
	out   string
}

func (r *fakeRunner) RunAudit(ctx context.Context, lockfilePath string) (string, int, error) {
	r.calls.Add(1)
	return r.out, 0, nil
}

func TestTaskCoalescesBurstIntoOneRun(t *testing.T) {
	runner := &fakeRunner{out: "Crate:    serde\nVersion:  1.0.0\nTitle:    x\nID:       RUSTSEC-0000-0000\nDate:     2024-01-01\n\n"}
	results := make(chan Result, 4)
	task := New(runner, "/ws/package-lock.oriz", nil, 20*time.Millisecond, results)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go task.Run(ctx)

	task.Trigger()
	task.Trigger()
	task.Trigger()

	select {
	case res := <-results:
		if res.Err != nil {
			t.Fatalf("unexpected error: %v", res.Err)
		}
		if len(res.ByPackage) != 1 {
			t.Errorf("expected one parsed package, got %+v", res.ByPackage)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audit result")
	}

	if runner.calls.Load() != 1 {
		t.Errorf("expected exactly one underlying run for a coalesced burst, got %d", runner.calls.Load())
	}
}
