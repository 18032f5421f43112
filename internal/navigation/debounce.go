package navigation

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Debouncer runs only the last function triggered within a quiet interval.
type Debouncer struct {
	clock    clockwork.Clock
	interval time.Duration

	mu    sync.Mutex
	timer clockwork.Timer
	seq   uint64
}

func NewDebouncer(clock clockwork.Clock, interval time.Duration) *Debouncer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Debouncer{clock: clock, interval: interval}
}

// Trigger (re)starts the quiet interval. fn runs on its own goroutine if no other Trigger follows in time.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.interval, func() {
		d.mu.Lock()
		current := seq == d.seq
		d.mu.Unlock()
		if current {
			fn()
		}
	})
}

// Stop drops any pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// ScrollTrigger turns thumbnail-list scroll signals into at most one load-more per burst.
type ScrollTrigger struct {
	debouncer *Debouncer
	threshold int
}

func NewScrollTrigger(clock clockwork.Clock, interval time.Duration, threshold int) *ScrollTrigger {
	return &ScrollTrigger{
		debouncer: NewDebouncer(clock, interval),
		threshold: threshold,
	}
}

// Signal reports the distance left to the end of the list. Once the burst settles,
// fire runs if the last reported distance is under the threshold.
func (s *ScrollTrigger) Signal(distance int, fire func()) {
	s.debouncer.Trigger(func() {
		if distance < s.threshold {
			fire()
		}
	})
}

func (s *ScrollTrigger) Stop() {
	s.debouncer.Stop()
}
