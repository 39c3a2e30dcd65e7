package sched_test

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/kgforce/internal/dynamo"
	"github.com/san-kum/kgforce/internal/sched"
)

type fakeStepper struct {
	steps    int
	settleAt int
	vp       dynamo.Viewport
	log      *[]string
}

func (f *fakeStepper) Step() {
	f.steps++
	*f.log = append(*f.log, "step")
}

func (f *fakeStepper) Settled() bool { return f.settleAt > 0 && f.steps >= f.settleAt }

func (f *fakeStepper) Snapshot() dynamo.Snapshot { return dynamo.Snapshot{Tick: f.steps} }

func (f *fakeStepper) Resize(vp dynamo.Viewport) { f.vp = vp }

var _ = Describe("Scheduler", func() {
	var (
		host    *sched.ManualHost
		stepper *fakeStepper
		calls   []string
		s       *sched.Scheduler
		ctx     context.Context
		cancel  context.CancelFunc
	)

	BeforeEach(func() {
		calls = nil
		host = sched.NewManualHost()
		stepper = &fakeStepper{settleAt: 5, log: &calls}
		ctx, cancel = context.WithCancel(context.Background())
		render := sched.RenderFunc(func(dynamo.Snapshot) error {
			calls = append(calls, "render")
			return nil
		})
		observer := dynamo.ObserverFunc(func(dynamo.Snapshot) {
			calls = append(calls, "observe")
		})
		s = sched.New(ctx, host, stepper, render, sched.WithObserver(observer))
	})

	AfterEach(func() {
		cancel()
	})

	It("does nothing until started", func() {
		Expect(host.Pending()).To(Equal(0))
		s.Start()
		Expect(host.Pending()).To(Equal(1))
	})

	It("runs mutations, step, render and observers in order", func() {
		s.Start()
		s.Enqueue(func() { calls = append(calls, "mutate") })
		host.Advance()
		Expect(calls).To(Equal([]string{"mutate", "step", "render", "observe"}))
	})

	It("requests one frame at a time", func() {
		s.Start()
		s.Enqueue(func() {})
		s.Enqueue(func() {})
		Expect(host.Pending()).To(Equal(1))
		Expect(host.Advance()).To(Equal(1))
		Expect(host.Pending()).To(Equal(1))
	})

	It("goes idle once settled and wakes on enqueue", func() {
		s.Start()
		for host.Pending() > 0 {
			host.Advance()
		}
		Expect(stepper.steps).To(Equal(5))
		Expect(s.Running()).To(BeFalse())

		vp := dynamo.Viewport{Width: 10, Height: 10}
		Expect(s.Resize(vp)).To(BeTrue())
		Expect(host.Pending()).To(Equal(1))
		host.Advance()
		Expect(stepper.vp).To(Equal(vp))
		Expect(stepper.steps).To(Equal(6))
	})

	It("stops and restarts", func() {
		s.Start()
		s.Stop()
		Expect(host.Pending()).To(Equal(0))
		s.Enqueue(func() {})
		Expect(host.Pending()).To(Equal(0))
		s.Start()
		host.Advance()
		Expect(stepper.steps).To(Equal(1))
	})

	Describe("Detach", func() {
		It("is idempotent", func() {
			s.Start()
			s.Detach()
			s.Detach()
			Expect(s.Detached()).To(BeTrue())
			Expect(host.Pending()).To(Equal(0))
		})

		It("rejects new work", func() {
			s.Detach()
			Expect(s.Enqueue(func() {})).To(BeFalse())
			s.Start()
			Expect(host.Pending()).To(Equal(0))
			s.Tick()
			Expect(stepper.steps).To(Equal(0))
		})

		It("turns an already delivered frame into a no-op", func() {
			var captured func()
			s = sched.New(ctx, hostFunc(func(fn func()) func() {
				captured = fn
				return func() {}
			}), stepper, nil)
			s.Start()
			s.Detach()
			captured()
			Expect(stepper.steps).To(Equal(0))
		})
	})

	It("self-terminates when its context is cancelled without Detach", func() {
		s.Start()
		cancel()
		host.Advance()
		Expect(stepper.steps).To(Equal(0))
		Expect(s.Detached()).To(BeTrue())
		Expect(host.Pending()).To(Equal(0))
	})

	It("ignores frames from an earlier generation", func() {
		var frames []func()
		s = sched.New(ctx, hostFunc(func(fn func()) func() {
			frames = append(frames, fn)
			return func() {}
		}), stepper, nil)
		s.Start()
		s.Stop()
		s.Start()
		Expect(frames).To(HaveLen(2))
		frames[0]()
		Expect(stepper.steps).To(Equal(0))
		frames[1]()
		Expect(stepper.steps).To(Equal(1))
	})

	It("keeps ticking when the renderer fails", func() {
		s = sched.New(ctx, host, stepper, sched.RenderFunc(func(dynamo.Snapshot) error {
			return errors.New("surface gone")
		}))
		s.Start()
		host.Advance()
		host.Advance()
		Expect(stepper.steps).To(Equal(2))
	})

	Describe("Run", func() {
		It("ticks until settled", func() {
			n, err := s.Run(context.Background(), 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(5))
			Expect(s.Ticks()).To(Equal(5))
		})

		It("honours the tick limit", func() {
			stepper.settleAt = 0
			n, err := s.Run(context.Background(), 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(3))
		})

		It("reports a detached scheduler", func() {
			s.Detach()
			_, err := s.Run(context.Background(), 3)
			Expect(err).To(MatchError(dynamo.ErrDetached))
		})
	})

	It("drives frames on a timer host", func() {
		var ticks atomic.Int32
		timed := sched.New(ctx, sched.NewTimerHost(200), &countingStepper{n: &ticks}, nil)
		timed.Start()
		Eventually(ticks.Load, time.Second).Should(BeNumerically(">=", 3))
		timed.Detach()
	})
})

type hostFunc func(func()) func()

func (h hostFunc) RequestFrame(fn func()) func() { return h(fn) }

type countingStepper struct{ n *atomic.Int32 }

func (c *countingStepper) Step()                     { c.n.Add(1) }
func (c *countingStepper) Settled() bool             { return false }
func (c *countingStepper) Snapshot() dynamo.Snapshot { return dynamo.Snapshot{} }
func (c *countingStepper) Resize(dynamo.Viewport)    {}
