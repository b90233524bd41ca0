// Package debounce implements the trailing-edge Debouncer of SPEC_FULL.md
// §4.7, grounded on
// original_source/src/controller/debouncer.rs.
package debounce

import (
	"sync"
	"time"
)

// Ready is emitted when a debounce timer for (URI, Revision) elapses.
type Ready struct {
	URI      string
	Revision int
}

// Debouncer rate-limits resolver runs per document across two lanes:
// interactive pokes reset the backoff; background pokes escalate it
// through a fixed table. Only the most recent (uri, revision) pair per URI
// is kept — earlier pending timers are replaced, which is how cancellation
// is modeled (no explicit cancel needed).
type Debouncer struct {
	interactiveDelay time.Duration
	backgroundBase   time.Duration
	ready            chan<- Ready

	mu      sync.Mutex
	timers  map[string]*time.Timer
	counts  map[string]int // consecutive background pokes since last interactive poke
}

// New constructs a Debouncer that sends Ready events to ch. interactiveDelay
// and backgroundBase mirror debouncer.rs's Debouncer::new(tx, 1000, 5000)
// call (milliseconds); SPEC_FULL.md keeps the 1000ms interactive delay but
// the background base and backoff table come from §4.7 directly.
func New(ch chan<- Ready, interactiveDelay, backgroundBase time.Duration) *Debouncer {
	return &Debouncer{
		interactiveDelay: interactiveDelay,
		backgroundBase:   backgroundBase,
		ready:            ch,
		timers:           make(map[string]*time.Timer),
		counts:           make(map[string]int),
	}
}

// Interactive schedules (or reschedules) a resolve for uri at revision rev
// after the interactive delay, resetting the background backoff to zero.
func (d *Debouncer) Interactive(uri string, rev int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.counts[uri] = 0
	d.reset(uri, rev, d.interactiveDelay)
}

// Background schedules (or reschedules) a resolve for uri at revision rev
// after an adaptive backoff delay, escalating with each consecutive
// background poke since the last interactive poke.
func (d *Debouncer) Background(uri string, rev int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	count := d.counts[uri]
	delay := backoffDelay(d.backgroundBase, count)
	d.counts[uri] = count + 1
	d.reset(uri, rev, delay)
}

// reset replaces any pending timer for uri with a new one; must be called
// with d.mu held.
func (d *Debouncer) reset(uri string, rev int, delay time.Duration) {
	if t, ok := d.timers[uri]; ok {
		t.Stop()
	}
	d.timers[uri] = time.AfterFunc(delay, func() {
		d.ready <- Ready{URI: uri, Revision: rev}
	})
}

const backoffCap = 15000 * time.Millisecond

// backoffDelay implements the table from §4.7: {0-5:1, 6-10:2, 11-15:3,
// 16-20:4, else:5} base x factor capped at 15000ms.
func backoffDelay(base time.Duration, consecutiveBackgroundPokes int) time.Duration {
	var factor time.Duration
	switch {
	case consecutiveBackgroundPokes <= 5:
		factor = 1
	case consecutiveBackgroundPokes <= 10:
		factor = 2
	case consecutiveBackgroundPokes <= 15:
		factor = 3
	case consecutiveBackgroundPokes <= 20:
		factor = 4
	default:
		factor = 5
	}
	d := base * factor
	if d > backoffCap {
		return backoffCap
	}
	return d
}
