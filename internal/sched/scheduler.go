// Package sched drives a layout one frame at a time.
//
// A [Scheduler] never runs two ticks at once: each frame is requested from
// a [Host] only after the previous one finished. Work from other goroutines
// enters through [Scheduler.Enqueue] and is applied at the start of the
// next tick.
package sched

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/san-kum/kgforce/internal/dynamo"
)

// Stepper is the simulation a scheduler advances.
type Stepper interface {
	Step()
	Settled() bool
	Snapshot() dynamo.Snapshot
	Resize(vp dynamo.Viewport)
}

// Renderer draws one post-tick snapshot.
type Renderer interface {
	Render(snap dynamo.Snapshot) error
}

type RenderFunc func(dynamo.Snapshot) error

func (f RenderFunc) Render(s dynamo.Snapshot) error { return f(s) }

// Mutation is applied between ticks, before the step.
type Mutation func()

type Option func(*Scheduler)

func WithObserver(o ...dynamo.Observer) Option {
	return func(s *Scheduler) { s.observers = append(s.observers, o...) }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// WithIdleStop controls whether the loop stops requesting frames once the
// stepper settles. Enabled by default.
func WithIdleStop(on bool) Option {
	return func(s *Scheduler) { s.idleStop = on }
}

type Scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc

	host      Host
	stepper   Stepper
	renderer  Renderer
	observers []dynamo.Observer
	logger    *log.Logger
	idleStop  bool

	mu       sync.Mutex
	queue    []Mutation
	running  bool
	detached bool
	gen      uint64
	pending  func()
	ticks    int
}

// New creates a stopped scheduler. Cancelling ctx ends the loop on its
// next frame.
func New(ctx context.Context, host Host, stepper Stepper, renderer Renderer, opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(ctx)
	s := &Scheduler{
		ctx:      ctx,
		cancel:   cancel,
		host:     host,
		stepper:  stepper,
		renderer: renderer,
		logger:   log.New(io.Discard),
		idleStop: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins requesting frames. It is a no-op once detached.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached || s.ctx.Err() != nil {
		return
	}
	s.running = true
	s.schedule()
}

// Stop pauses the loop. Queued mutations are kept for the next Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.invalidate()
}

// Detach tears the scheduler down for good. Safe to call repeatedly.
func (s *Scheduler) Detach() {
	s.mu.Lock()
	if s.detached {
		s.mu.Unlock()
		return
	}
	s.detached = true
	s.running = false
	s.queue = nil
	s.invalidate()
	s.mu.Unlock()

	s.cancel()
	s.logger.Debug("scheduler detached", "ticks", s.Ticks())
}

// invalidate drops the pending frame and bumps the generation so any
// callback already handed to the host returns without work.
func (s *Scheduler) invalidate() {
	s.gen++
	if s.pending != nil {
		s.pending()
		s.pending = nil
	}
}

// Running reports whether a frame is requested or about to be.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running && s.pending != nil
}

func (s *Scheduler) Detached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detached
}

func (s *Scheduler) Ticks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// Enqueue queues m for the next tick and wakes an idle loop. It returns
// false when the scheduler is detached.
func (s *Scheduler) Enqueue(m Mutation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return false
	}
	s.queue = append(s.queue, m)
	if s.running {
		s.schedule()
	}
	return true
}

// Resize queues a viewport change.
func (s *Scheduler) Resize(vp dynamo.Viewport) bool {
	return s.Enqueue(func() { s.stepper.Resize(vp) })
}

// schedule requests a frame unless one is already pending. mu must be held.
func (s *Scheduler) schedule() {
	if s.pending != nil {
		return
	}
	gen := s.gen
	s.pending = s.host.RequestFrame(func() { s.frame(gen) })
}

func (s *Scheduler) frame(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.detached || !s.running {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		s.logger.Debug("scheduler context done, detaching")
		s.Detach()
		return
	}
	s.mu.Unlock()

	s.Tick()

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || !s.running {
		return
	}
	if s.idleStop && s.stepper.Settled() && len(s.queue) == 0 {
		s.logger.Debug("layout settled", "ticks", s.ticks)
		return
	}
	s.schedule()
}

// Tick runs one frame synchronously: queued mutations, one step, render,
// then observers.
func (s *Scheduler) Tick() {
	s.mu.Lock()
	if s.detached {
		s.mu.Unlock()
		return
	}
	queue := s.queue
	s.queue = nil
	s.mu.Unlock()

	for _, m := range queue {
		m()
	}

	s.stepper.Step()
	snap := s.stepper.Snapshot()

	if s.renderer != nil {
		if err := s.renderer.Render(snap); err != nil {
			s.logger.Warn("render failed", "tick", snap.Tick, "err", err)
		}
	}
	for _, o := range s.observers {
		o.OnTick(snap)
	}

	s.mu.Lock()
	s.ticks++
	s.mu.Unlock()
}

// Run ticks synchronously until the stepper settles with nothing queued,
// ctx is done, or maxTicks frames ran (maxTicks <= 0 means no limit). It
// returns the number of ticks run.
func (s *Scheduler) Run(ctx context.Context, maxTicks int) (int, error) {
	n := 0
	for maxTicks <= 0 || n < maxTicks {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if err := s.ctx.Err(); err != nil {
			return n, dynamo.ErrDetached
		}
		s.mu.Lock()
		idle := len(s.queue) == 0
		s.mu.Unlock()
		if idle && s.stepper.Settled() {
			break
		}
		s.Tick()
		n++
	}
	return n, nil
}
