package eventlog

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/speedwagon-io/mantis-monitor/internal/ring"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

type Record struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
}

// Log is a bounded, newest-first list of records. Identical messages are
// not collapsed.
type Log struct {
	mu      sync.RWMutex
	records *ring.Buffer[Record]
	now     func() time.Time
}

func New(capacity int) *Log {
	return &Log{
		records: ring.New[Record](capacity),
		now:     time.Now,
	}
}

// WithClock replaces the timestamp source.
func (l *Log) WithClock(now func() time.Time) *Log {
	l.now = now
	return l
}

func (l *Log) Append(message string, severity Severity) Record {
	rec := Record{
		ID:        uuid.New().String(),
		Timestamp: l.now(),
		Message:   message,
		Severity:  severity,
	}

	l.mu.Lock()
	l.records.Push(rec)
	l.mu.Unlock()

	return rec
}

// Records returns a copy of the log, newest first.
func (l *Log) Records() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.records.Reversed()
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.records.Len()
}
