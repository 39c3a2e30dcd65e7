package sched

import (
	"sync"
	"time"
)

// Host delivers frame callbacks. RequestFrame schedules fn to run once and
// returns a function that cancels it if it has not run yet.
type Host interface {
	RequestFrame(fn func()) (cancel func())
}

// ManualHost queues frames until Advance is called. The CLI uses it for
// headless layouts and tests use it to step a scheduler deterministically.
type ManualHost struct {
	mu      sync.Mutex
	nextID  int
	pending []frame
}

type frame struct {
	id int
	fn func()
}

func NewManualHost() *ManualHost {
	return &ManualHost{}
}

func (h *ManualHost) RequestFrame(fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.pending = append(h.pending, frame{id: id, fn: fn})
	return func() { h.cancel(id) }
}

func (h *ManualHost) cancel(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, f := range h.pending {
		if f.id == id {
			h.pending = append(h.pending[:i], h.pending[i+1:]...)
			return
		}
	}
}

// Pending returns the number of frames waiting to run.
func (h *ManualHost) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pending)
}

// Advance runs the frames that were pending when it was called and returns
// how many ran. Frames requested by those callbacks wait for the next call.
func (h *ManualHost) Advance() int {
	h.mu.Lock()
	batch := h.pending
	h.pending = nil
	h.mu.Unlock()

	for _, f := range batch {
		f.fn()
	}
	return len(batch)
}

// TimerHost fires each frame after a fixed interval on its own goroutine.
type TimerHost struct {
	Interval time.Duration
}

// NewTimerHost returns a host running at fps frames per second.
func NewTimerHost(fps int) *TimerHost {
	if fps <= 0 {
		fps = 60
	}
	return &TimerHost{Interval: time.Second / time.Duration(fps)}
}

func (h *TimerHost) RequestFrame(fn func()) func() {
	t := time.AfterFunc(h.Interval, fn)
	return func() { t.Stop() }
}
