package render

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/speedwagon-io/mantis-monitor/internal/view"
)

// Renderer consumes view-models produced by polling cycles.
type Renderer interface {
	Render(ctx context.Context, m view.Model) error
}

// Publisher keeps the latest view-model for readers such as HTTP handlers,
// together with the wall-clock string maintained by the clock timer.
type Publisher struct {
	mu          sync.RWMutex
	model       view.Model
	published   bool
	publishedAt time.Time
	clock       string
	clockLayout string
}

func NewPublisher(clockLayout string) *Publisher {
	return &Publisher{clockLayout: clockLayout}
}

func (p *Publisher) Render(ctx context.Context, m view.Model) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.model = m
	p.published = true
	p.publishedAt = time.Now()
	return nil
}

// SetClock updates the displayed time. It never touches telemetry state.
func (p *Publisher) SetClock(t time.Time) {
	p.mu.Lock()
	p.clock = t.Format(p.clockLayout)
	p.mu.Unlock()
}

// Latest returns the most recent view-model and whether one exists.
func (p *Publisher) Latest() (view.Model, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	m := p.model
	m.Clock = p.clock
	return m, p.published
}

// Age reports how long ago the last view-model was published.
func (p *Publisher) Age() (time.Duration, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.published {
		return 0, false
	}
	return time.Since(p.publishedAt), true
}

// LogRenderer logs view-models instead of displaying them.
type LogRenderer struct {
	log *slog.Logger
}

func NewLogRenderer(log *slog.Logger) *LogRenderer {
	return &LogRenderer{log: log}
}

func (r *LogRenderer) Render(ctx context.Context, m view.Model) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal view: %w", err)
	}

	r.log.Info("VIEW",
		slog.Bool("connected", m.Connected),
		slog.Int("machines", m.Aggregates.MachineCount),
		slog.Int("alerts", m.Aggregates.AlertCount),
		slog.Int("critical", m.Aggregates.CriticalCount),
		slog.Int("events", len(m.Events)),
		slog.String("payload", string(data)),
	)

	return nil
}

// Multi fans a view-model out to several renderers.
type Multi []Renderer

func (m Multi) Render(ctx context.Context, v view.Model) error {
	var errs []error
	for _, r := range m {
		if err := r.Render(ctx, v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
