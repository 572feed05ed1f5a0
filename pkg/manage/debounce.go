package manage

import (
	"sync"
	"time"
)

// Debouncer delays reacting to a rapidly changing value until it has been
// stable for the configured delay. Only the most recent value survives; a
// pending update is discarded when a newer one arrives (last-write-wins, not
// queued).
type Debouncer[T any] struct {
	mu       sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	gen      uint64
	value    T
	onSettle func(T)
}

// NewDebouncer builds a Debouncer. onSettle runs once per settled value and
// may be nil. A delay of zero settles synchronously inside Set.
func NewDebouncer[T any](delay time.Duration, onSettle func(T)) *Debouncer[T] {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer[T]{delay: delay, onSettle: onSettle}
}

// Set feeds a new raw value, cancelling any pending settle.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.delay == 0 {
		d.value = v
		cb := d.onSettle
		d.mu.Unlock()
		if cb != nil {
			cb(v)
		}
		return
	}
	d.timer = time.AfterFunc(d.delay, func() { d.settle(gen, v) })
	d.mu.Unlock()
}

func (d *Debouncer[T]) settle(gen uint64, v T) {
	d.mu.Lock()
	if gen != d.gen {
		// a newer Set or Stop superseded this timer before it ran
		d.mu.Unlock()
		return
	}
	d.value = v
	d.timer = nil
	cb := d.onSettle
	d.mu.Unlock()
	if cb != nil {
		cb(v)
	}
}

// Value returns the last settled value.
func (d *Debouncer[T]) Value() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

// Stop discards any pending update. Used on teardown so a timer never fires
// into a dead consumer.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
