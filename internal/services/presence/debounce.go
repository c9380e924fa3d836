// Package presence implements the transient room indicators: the peer typing
// line and the join/leave banner.
//
// Both are a Debouncer: a pulse shows the indicator and (re)arms a single
// timer; when the timer expires without a newer pulse the indicator hides.
package presence

import "time"

const (
	// TypingWindow is how long the typing line stays up after the last pulse.
	TypingWindow = 800 * time.Millisecond
	// BannerWindow is how long a join/leave banner stays up.
	BannerWindow = 1200 * time.Millisecond
)

// Debouncer is a show/hide indicator with at most one armed timer.
//
// Pulse, Stop and Visible must be called from one goroutine (the owner). Timer
// expiry is handed to post so the hide runs on that same goroutine; expiries
// from superseded timers are ignored.
type Debouncer struct {
	clock  Clock
	delay  time.Duration
	post   func(func())
	onHide func()

	visible bool
	timer   Timer
	gen     uint64
}

// NewDebouncer builds a Debouncer. post runs a closure on the owner goroutine;
// pass nil to run expiries directly on the timer goroutine.
func NewDebouncer(clock Clock, delay time.Duration, post func(func()), onHide func()) *Debouncer {
	if clock == nil {
		clock = SystemClock{}
	}
	if post == nil {
		post = func(f func()) { f() }
	}
	if onHide == nil {
		onHide = func() {}
	}
	return &Debouncer{clock: clock, delay: delay, post: post, onHide: onHide}
}

// Pulse shows the indicator and restarts the window. It reports whether the
// indicator was hidden before, i.e. whether the caller should render it.
func (d *Debouncer) Pulse() bool {
	shown := !d.visible
	d.visible = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.post(func() { d.expire(gen) })
	})
	return shown
}

func (d *Debouncer) expire(gen uint64) {
	if gen != d.gen || !d.visible {
		return
	}
	d.visible = false
	d.timer = nil
	d.onHide()
}

// Visible reports whether the indicator is showing.
func (d *Debouncer) Visible() bool { return d.visible }

// Stop disarms the timer without calling onHide.
func (d *Debouncer) Stop() {
	d.gen++
	d.visible = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
