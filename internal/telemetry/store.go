package telemetry

import (
	"sync"
	"time"

	"github.com/speedwagon-io/mantis-monitor/internal/model"
	"github.com/speedwagon-io/mantis-monitor/internal/ring"
)

// Config selects which series the store keeps history for.
type Config struct {
	Capacity      int
	RULMachines   []string
	SensorMachine string
	Sensors       []string
}

// Series is a named sequence of samples aligned with History.Labels.
// A nil sample means no value was known at that tick.
type Series struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

type History struct {
	Labels  []time.Time
	RUL     []Series
	Sensors []Series
}

type Aggregates struct {
	Machines int `json:"machines"`
	Alerts   int `json:"alerts"`
	Critical int `json:"critical"`
}

type series struct {
	name    string
	samples *ring.Buffer[*float64]
}

// Store owns every machine snapshot and history buffer. Writers are the
// reconciler only; readers get copies.
type Store struct {
	mu sync.RWMutex

	machines map[string]*model.MachineSnapshot
	order    []string

	sensorMachine string
	labels        *ring.Buffer[time.Time]
	rul           []series
	sensors       []series
}

func NewStore(cfg Config) *Store {
	s := &Store{
		machines:      make(map[string]*model.MachineSnapshot),
		sensorMachine: cfg.SensorMachine,
		labels:        ring.New[time.Time](cfg.Capacity),
	}
	for _, id := range cfg.RULMachines {
		s.rul = append(s.rul, series{name: id, samples: ring.New[*float64](cfg.Capacity)})
	}
	for _, id := range cfg.Sensors {
		s.sensors = append(s.sensors, series{name: id, samples: ring.New[*float64](cfg.Capacity)})
	}
	return s
}

// ApplySnapshots merges records into the store in order. Records without
// an id are skipped and counted. Entities missing from recs are kept.
func (s *Store) ApplySnapshots(recs []model.MachineRecord) (applied, skipped int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range recs {
		if rec.MachineID == "" {
			skipped++
			continue
		}

		snap, ok := s.machines[rec.MachineID]
		if !ok {
			fresh := model.NewMachineSnapshot(rec.MachineID)
			snap = &fresh
			s.machines[rec.MachineID] = snap
			s.order = append(s.order, rec.MachineID)
		}
		snap.Merge(rec)
		applied++
	}

	return applied, skipped
}

// RecordHistoryTick advances every series and the label axis by one sample
// under a single write lock.
func (s *Store) RecordHistoryTick(ts time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.labels.Push(ts)

	for _, sr := range s.rul {
		var v *float64
		if m, ok := s.machines[sr.name]; ok && m.RUL != nil {
			rul := *m.RUL
			v = &rul
		}
		sr.samples.Push(v)
	}

	owner, known := s.machines[s.sensorMachine]
	for _, sr := range s.sensors {
		var v *float64
		if known {
			if reading, ok := owner.Sensors[sr.name]; ok {
				v = &reading
			}
		}
		sr.samples.Push(v)
	}
}

// Snapshots returns copies of all machines in first-seen order.
func (s *Store) Snapshots() []model.MachineSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.MachineSnapshot, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.machines[id].Clone())
	}
	return out
}

func (s *Store) Snapshot(id string) (model.MachineSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.machines[id]
	if !ok {
		return model.MachineSnapshot{}, false
	}
	return m.Clone(), true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.machines)
}

func (s *Store) History() History {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return History{
		Labels:  s.labels.Slice(),
		RUL:     snapshotSeries(s.rul),
		Sensors: snapshotSeries(s.sensors),
	}
}

// SensorMachine is the machine whose sensors are charted.
func (s *Store) SensorMachine() string {
	return s.sensorMachine
}

func (s *Store) ComputeAggregates(th Thresholds) Aggregates {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agg := Aggregates{Machines: len(s.machines)}
	for _, m := range s.machines {
		switch th.Classify(m.RUL) {
		case LevelCritical:
			agg.Critical++
		case LevelAlert:
			agg.Alerts++
		}
	}
	return agg
}

func snapshotSeries(in []series) []Series {
	out := make([]Series, 0, len(in))
	for _, sr := range in {
		values := sr.samples.Slice()
		for i, v := range values {
			if v != nil {
				cp := *v
				values[i] = &cp
			}
		}
		out = append(out, Series{Name: sr.name, Values: values})
	}
	return out
}
