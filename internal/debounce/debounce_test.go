package debounce

import (
	"testing"
	"time"
)

func TestBackoffTable(t *testing.T) {
	base := 1000 * time.Millisecond
	cases := []struct {
		pokes int
		wantMs int
	}{
		{0, 1000}, {5, 1000},
		{6, 2000}, {10, 2000},
		{11, 3000}, {15, 3000},
		{16, 4000}, {20, 4000},
		{21, 5000}, {100, 5000},
	}
	for _, c := range cases {
		got := backoffDelay(base, c.pokes)
		want := time.Duration(c.wantMs) * time.Millisecond
		if got != want {
			t.Errorf("pokes=%d: want %v, got %v", c.pokes, want, got)
		}
	}
}

func TestBackoffCappedAt15000(t *testing.T) {
	got := backoffDelay(5000*time.Millisecond, 100) // 5000*5=25000ms, capped
	if got != 15000*time.Millisecond {
		t.Errorf("expected cap at 15000ms, got %v", got)
	}
}

func TestInteractivePokeResetsBackoff(t *testing.T) {
	ch := make(chan Ready, 10)
	d := New(ch, 10*time.Millisecond, 5*time.Millisecond)

	d.Background("file:///a", 1)
	d.Background("file:///a", 2)
	d.Interactive("file:///a", 3)

	if got := d.counts["file:///a"]; got != 0 {
		t.Errorf("expected backoff reset to 0 after interactive poke, got %d", got)
	}
}

func TestOnlyMostRecentFires(t *testing.T) {
	ch := make(chan Ready, 10)
	d := New(ch, 5*time.Millisecond, 5*time.Millisecond)

	d.Interactive("file:///a", 1)
	d.Interactive("file:///a", 2) // supersedes rev 1
	d.Interactive("file:///a", 3) // supersedes rev 2

	select {
	case r := <-ch:
		if r.Revision != 3 {
			t.Errorf("expected only the most recent revision 3 to fire, got %d", r.Revision)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timed out waiting for Ready")
	}

	select {
	case r := <-ch:
		t.Fatalf("expected superseded timers not to fire, got extra Ready %+v", r)
	case <-time.After(50 * time.Millisecond):
	}
}
