package connectivity

import (
	"testing"

	"github.com/speedwagon-io/mantis-monitor/internal/eventlog"
)

type step struct {
	ok        bool
	wantState State
	wantEvent bool
	wantSev   eventlog.Severity
}

func TestObserve_EdgeAndLevelTriggering(t *testing.T) {
	log := eventlog.New(50)
	m := NewMonitor(log)

	steps := []step{
		{ok: false, wantState: StateDown, wantEvent: true, wantSev: eventlog.SeverityCritical},
		{ok: false, wantState: StateDown, wantEvent: true, wantSev: eventlog.SeverityCritical},
		{ok: true, wantState: StateUp, wantEvent: true, wantSev: eventlog.SeverityInfo},
		{ok: true, wantState: StateUp, wantEvent: false},
		{ok: false, wantState: StateDown, wantEvent: true, wantSev: eventlog.SeverityCritical},
	}

	for i, s := range steps {
		before := log.Len()
		_, next := m.Observe(s.ok, "connection refused")
		if next != s.wantState {
			t.Fatalf("step %d: state=%v want %v", i, next, s.wantState)
		}

		emitted := log.Len() - before
		if s.wantEvent && emitted != 1 {
			t.Fatalf("step %d: expected one event, got %d", i, emitted)
		}
		if !s.wantEvent && emitted != 0 {
			t.Fatalf("step %d: expected no event, got %d", i, emitted)
		}
		if s.wantEvent {
			if got := log.Records()[0].Severity; got != s.wantSev {
				t.Fatalf("step %d: severity=%v want %v", i, got, s.wantSev)
			}
		}
	}

	recs := log.Records()
	// newest first: fail(4), recovery(2), fail(1), fail(0)
	if len(recs) != 4 {
		t.Fatalf("expected 4 records, got %d", len(recs))
	}
	if recs[1].Message != MessageRecovered || recs[1].Severity != eventlog.SeverityInfo {
		t.Fatalf("expected recovery record at index 1, got %+v", recs[1])
	}
	for _, i := range []int{2, 3} {
		if recs[i].Severity != eventlog.SeverityCritical || recs[i].Message != "API connection error: connection refused" {
			t.Fatalf("expected failure record at index %d, got %+v", i, recs[i])
		}
	}
	if recs[0].Message != "API connection error: connection refused" {
		t.Fatalf("unexpected failure message %q", recs[0].Message)
	}
}

func TestObserve_InitialSuccessIsSilent(t *testing.T) {
	log := eventlog.New(10)
	m := NewMonitor(log)

	if m.State() != StateUnknown {
		t.Fatalf("initial state %v", m.State())
	}

	prev, next := m.Observe(true, "")
	if prev != StateUnknown || next != StateUp {
		t.Fatalf("unexpected transition %v -> %v", prev, next)
	}
	if log.Len() != 0 {
		t.Fatalf("Unknown -> Up must not emit, got %d events", log.Len())
	}
	if !m.Connected() {
		t.Fatalf("expected connected")
	}
}

func TestStatus_CountsConsecutiveFailures(t *testing.T) {
	m := NewMonitor(eventlog.New(10))
	m.Observe(false, "a")
	m.Observe(false, "b")

	st := m.Status()
	if st.ConsecutiveFailures != 2 || st.LastError != "b" {
		t.Fatalf("unexpected status %+v", st)
	}

	m.Observe(true, "")
	if st := m.Status(); st.ConsecutiveFailures != 0 || st.LastError != "" {
		t.Fatalf("success should reset failures: %+v", st)
	}
}
