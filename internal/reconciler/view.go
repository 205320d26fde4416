package reconciler

import (
	"math"
	"time"

	"github.com/speedwagon-io/mantis-monitor/internal/model"
	"github.com/speedwagon-io/mantis-monitor/internal/telemetry"
	"github.com/speedwagon-io/mantis-monitor/internal/view"
)

// DefaultStatus is shown for machines whose upstream status is absent.
const DefaultStatus = "OK"

const (
	rulChartTitle    = "RUL (cycles)"
	sensorChartTitle = "Sensors"
)

// BuildView assembles the outward view-model from copies of current state.
func (r *Reconciler) BuildView(now time.Time) view.Model {
	status := r.monitor.Status()
	agg := r.store.ComputeAggregates(r.opts.Thresholds)
	history := r.store.History()

	labels := make([]string, len(history.Labels))
	for i, ts := range history.Labels {
		labels[i] = ts.Format(r.opts.LabelLayout)
	}

	snaps := r.store.Snapshots()
	rows := make([]view.MachineRow, 0, len(snaps))
	for _, s := range snaps {
		rows = append(rows, r.machineRow(s))
	}

	records := r.events.Records()
	events := make([]view.Event, 0, len(records))
	for _, rec := range records {
		events = append(events, view.Event{
			ID:        rec.ID,
			Time:      rec.Timestamp.Format(r.opts.LabelLayout),
			Timestamp: rec.Timestamp,
			Message:   rec.Message,
			Severity:  string(rec.Severity),
		})
	}

	sensorTitle := sensorChartTitle
	if m := r.store.SensorMachine(); m != "" {
		sensorTitle += " " + m
	}

	return view.Model{
		GeneratedAt:  now,
		Connected:    r.monitor.Connected(),
		Connectivity: status.State.String(),
		LastError:    status.LastError,
		Aggregates: view.Aggregates{
			MachineCount:  agg.Machines,
			AlertCount:    agg.Alerts,
			CriticalCount: agg.Critical,
		},
		Machines:    rows,
		RULChart:    chart(rulChartTitle, labels, history.RUL),
		SensorChart: chart(sensorTitle, labels, history.Sensors),
		Events:      events,
	}
}

func (r *Reconciler) machineRow(s model.MachineSnapshot) view.MachineRow {
	rul := DisplayRUL(s.RUL)

	status := s.Status
	if status == "" {
		status = DefaultStatus
	}

	return view.MachineRow{
		ID:         s.ID,
		Cycle:      s.Cycle,
		RUL:        rul,
		RULPercent: math.Min(100, rul/r.opts.RULScale*100),
		Status:     status,
		Class:      string(r.opts.Thresholds.Classify(s.RUL)),
	}
}

// DisplayRUL substitutes 0 for unknown values and floors negatives at 0.
func DisplayRUL(rul *float64) float64 {
	if rul == nil || *rul < 0 {
		return 0
	}
	return *rul
}

func chart(title string, labels []string, series []telemetry.Series) view.Chart {
	out := view.Chart{
		Title:  title,
		Labels: labels,
		Series: make([]view.Series, 0, len(series)),
	}
	for _, s := range series {
		out.Series = append(out.Series, view.Series{Name: s.Name, Values: s.Values})
	}
	return out
}
