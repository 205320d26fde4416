package reconciler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/speedwagon-io/mantis-monitor/internal/collector"
	"github.com/speedwagon-io/mantis-monitor/internal/connectivity"
	"github.com/speedwagon-io/mantis-monitor/internal/eventlog"
	"github.com/speedwagon-io/mantis-monitor/internal/lib/logger/sl"
	"github.com/speedwagon-io/mantis-monitor/internal/telemetry"
	"github.com/speedwagon-io/mantis-monitor/internal/view"
)

const (
	OutcomeOK               = "ok"
	OutcomeProbeFailed      = "probe_failed"
	OutcomeFetchFailed      = "fetch_failed"
	OutcomeMalformedPayload = "malformed_payload"
	OutcomeError            = "error"
)

// Metrics receives per-cycle instrumentation.
type Metrics interface {
	ObserveCycle(outcome string, d time.Duration)
	SetConnectivity(state connectivity.State)
	SetAggregates(agg telemetry.Aggregates)
	ObserveAlerts(n int)
}

type Options struct {
	Thresholds  telemetry.Thresholds
	LabelLayout string
	RULScale    float64
}

// Result is the outcome of one cycle. Err is informational only; the
// failure has already been logged and recorded.
type Result struct {
	View          view.Model
	Outcome       string
	Err           error
	Duration      time.Duration
	Applied       int
	AlertsFetched int
}

// Reconciler runs polling cycles. It is the only writer of the store, the
// event log and the connectivity monitor; calls must not overlap.
type Reconciler struct {
	log     *slog.Logger
	api     collector.API
	store   *telemetry.Store
	events  *eventlog.Log
	monitor *connectivity.Monitor
	metrics Metrics
	opts    Options
	now     func() time.Time
}

func New(
	log *slog.Logger,
	api collector.API,
	store *telemetry.Store,
	events *eventlog.Log,
	monitor *connectivity.Monitor,
	metrics Metrics,
	opts Options,
) *Reconciler {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if opts.LabelLayout == "" {
		opts.LabelLayout = time.TimeOnly
	}
	if opts.RULScale <= 0 {
		opts.RULScale = 200
	}
	return &Reconciler{
		log:     log,
		api:     api,
		store:   store,
		events:  events,
		monitor: monitor,
		metrics: metrics,
		opts:    opts,
		now:     time.Now,
	}
}

// WithClock replaces the time source used for history labels.
func (r *Reconciler) WithClock(now func() time.Time) *Reconciler {
	r.now = now
	return r
}

func (r *Reconciler) RunCycle(ctx context.Context) Result {
	started := r.now()
	res := Result{Outcome: OutcomeOK}

	applied, alerts, err := r.poll(ctx, started)
	res.Applied = applied
	res.AlertsFetched = alerts

	if err != nil {
		res.Err = err
		res.Outcome = Classify(err)
		r.log.Error("polling cycle failed",
			slog.String("outcome", res.Outcome),
			sl.Err(err),
		)
		r.monitor.Observe(false, err.Error())
	} else {
		prev, next := r.monitor.Observe(true, "")
		if prev != next {
			r.log.Info("upstream reachable",
				slog.String("from", prev.String()),
				slog.String("to", next.String()),
			)
		}
	}

	res.View = r.BuildView(r.now())
	res.Duration = r.now().Sub(started)

	r.metrics.ObserveCycle(res.Outcome, res.Duration)
	r.metrics.SetConnectivity(r.monitor.State())
	r.metrics.SetAggregates(r.store.ComputeAggregates(r.opts.Thresholds))

	r.log.Debug("polling cycle finished",
		slog.String("outcome", res.Outcome),
		slog.Int("applied", res.Applied),
		slog.Duration("cycle_duration", res.Duration),
	)

	return res
}

// poll performs the collaborator calls of one cycle. The store is touched
// only after the machine list has been fully received and decoded.
func (r *Reconciler) poll(ctx context.Context, tick time.Time) (applied, alerts int, err error) {
	if err := r.api.Probe(ctx); err != nil {
		return 0, 0, err
	}

	recs, err := r.api.FetchMachines(ctx)
	if err != nil {
		return 0, 0, err
	}

	applied, skipped := r.store.ApplySnapshots(recs)
	if skipped > 0 {
		r.log.Warn("skipped machine records without id", slog.Int("count", skipped))
	}
	r.store.RecordHistoryTick(tick)

	// Alerts are fetched for liveness only; their content is not consumed.
	list, err := r.api.FetchAlerts(ctx)
	if err != nil {
		return applied, 0, fmt.Errorf("alerts: %w", err)
	}
	r.metrics.ObserveAlerts(len(list))

	return applied, len(list), nil
}

func Classify(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, collector.ErrProbeFailed):
		return OutcomeProbeFailed
	case errors.Is(err, collector.ErrMalformedPayload):
		return OutcomeMalformedPayload
	case errors.Is(err, collector.ErrFetchFailed):
		return OutcomeFetchFailed
	default:
		return OutcomeError
	}
}

type nopMetrics struct{}

func (nopMetrics) ObserveCycle(string, time.Duration) {}
func (nopMetrics) SetConnectivity(connectivity.State) {}
func (nopMetrics) SetAggregates(telemetry.Aggregates) {}
func (nopMetrics) ObserveAlerts(int) {}
