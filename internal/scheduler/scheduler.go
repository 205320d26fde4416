package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/speedwagon-io/mantis-monitor/internal/lib/logger/sl"
	"github.com/speedwagon-io/mantis-monitor/internal/reconciler"
	"github.com/speedwagon-io/mantis-monitor/internal/render"
)

type Cycler interface {
	RunCycle(ctx context.Context) reconciler.Result
}

type ClockSink interface {
	SetClock(t time.Time)
}

type TickMetrics interface {
	IncSkippedTicks()
}

type Options struct {
	Interval      time.Duration
	CycleTimeout  time.Duration
	ClockInterval time.Duration
}

// Manager drives two independent timers: the polling cycle and the
// display clock. At most one cycle runs at a time; ticks that arrive while
// a cycle is in flight are dropped, not queued.
type Manager struct {
	log      *slog.Logger
	opts     Options
	cycler   Cycler
	renderer render.Renderer
	clock    ClockSink
	metrics  TickMetrics

	running  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewManager(
	log *slog.Logger,
	opts Options,
	cycler Cycler,
	renderer render.Renderer,
	clock ClockSink,
	metrics TickMetrics,
) *Manager {
	return &Manager{
		log:      log,
		opts:     opts,
		cycler:   cycler,
		renderer: renderer,
		clock:    clock,
		metrics:  metrics,
		stopCh:   make(chan struct{}),
	}
}

// Start blocks until ctx is cancelled or Stop is called.
func (m *Manager) Start(ctx context.Context) {
	m.log.Info("starting polling manager",
		slog.Duration("interval", m.opts.Interval),
		slog.Duration("cycle_timeout", m.opts.CycleTimeout),
	)

	ticker := time.NewTicker(m.opts.Interval)
	defer ticker.Stop()

	clockTicker := time.NewTicker(m.opts.ClockInterval)
	defer clockTicker.Stop()

	m.updateClock(time.Now())
	m.trigger(ctx)

	for {
		select {
		case <-ctx.Done():
			m.log.Info("context cancelled, stopping manager")
			return
		case <-m.stopCh:
			m.log.Info("stop signal received, stopping manager")
			return
		case <-ticker.C:
			m.trigger(ctx)
		case t := <-clockTicker.C:
			m.updateClock(t)
		}
	}
}

// Stop ends the timer loop and waits for an in-flight cycle to finish.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
	m.wg.Wait()
}

// RunOnce executes one bounded cycle and renders its view-model. Shutdown
// does not cancel a cycle in flight; only CycleTimeout bounds it.
func (m *Manager) RunOnce(ctx context.Context) reconciler.Result {
	cycleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.opts.CycleTimeout)
	defer cancel()

	res := m.cycler.RunCycle(cycleCtx)

	if err := m.renderer.Render(ctx, res.View); err != nil {
		m.log.Error("failed to render view", sl.Err(err))
	}

	return res
}

func (m *Manager) trigger(ctx context.Context) bool {
	if !m.running.CompareAndSwap(false, true) {
		m.log.Warn("previous cycle still running, skipping tick")
		if m.metrics != nil {
			m.metrics.IncSkippedTicks()
		}
		return false
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer m.running.Store(false)
		m.RunOnce(ctx)
	}()

	return true
}

func (m *Manager) updateClock(t time.Time) {
	if m.clock != nil {
		m.clock.SetClock(t)
	}
}
