package connectivity

import (
	"fmt"
	"sync"
	"time"

	"github.com/speedwagon-io/mantis-monitor/internal/eventlog"
)

type State int

const (
	StateUnknown State = iota
	StateUp
	StateDown
)

func (s State) String() string {
	switch s {
	case StateUp:
		return "up"
	case StateDown:
		return "down"
	default:
		return "unknown"
	}
}

const (
	MessageRecovered = "API connection restored"
	messageFailure   = "API connection error: %s"
)

// EventSink receives the records the monitor emits.
type EventSink interface {
	Append(message string, severity eventlog.Severity) eventlog.Record
}

type Status struct {
	State               State
	Since               time.Time
	ConsecutiveFailures int
	LastError           string
}

// Monitor classifies one probe result per cycle into a connectivity state.
// Recovery (Down -> Up) is reported once; every failed cycle is reported.
type Monitor struct {
	mu     sync.RWMutex
	events EventSink
	now    func() time.Time
	status Status
}

func NewMonitor(events EventSink) *Monitor {
	return &Monitor{
		events: events,
		now:    time.Now,
		status: Status{State: StateUnknown},
	}
}

func (m *Monitor) WithClock(now func() time.Time) *Monitor {
	m.now = now
	return m
}

// Observe records the outcome of a cycle and returns the state transition.
// reason is ignored on success.
func (m *Monitor) Observe(ok bool, reason string) (prev, next State) {
	m.mu.Lock()
	prev = m.status.State
	if ok {
		next = StateUp
		m.status.ConsecutiveFailures = 0
		m.status.LastError = ""
	} else {
		next = StateDown
		m.status.ConsecutiveFailures++
		m.status.LastError = reason
	}
	if next != prev {
		m.status.Since = m.now()
	}
	m.status.State = next
	m.mu.Unlock()

	switch {
	case !ok:
		m.events.Append(fmt.Sprintf(messageFailure, reason), eventlog.SeverityCritical)
	case prev == StateDown:
		m.events.Append(MessageRecovered, eventlog.SeverityInfo)
	}

	return prev, next
}

func (m *Monitor) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.State
}

func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) Connected() bool {
	return m.State() == StateUp
}
