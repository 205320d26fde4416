// Package view defines the read-only model handed to renderers. Values are
// copies; nothing in a Model aliases reconciler state.
package view

import "time"

type Model struct {
	GeneratedAt  time.Time    `json:"generated_at"`
	Clock        string       `json:"clock,omitempty"`
	Connected    bool         `json:"connected"`
	Connectivity string       `json:"connectivity"`
	LastError    string       `json:"last_error,omitempty"`
	Aggregates   Aggregates   `json:"aggregates"`
	Machines     []MachineRow `json:"machines"`
	RULChart     Chart        `json:"rul_chart"`
	SensorChart  Chart        `json:"sensor_chart"`
	Events       []Event      `json:"events"`
}

type Aggregates struct {
	MachineCount  int `json:"machine_count"`
	AlertCount    int `json:"alert_count"`
	CriticalCount int `json:"critical_count"`
}

type MachineRow struct {
	ID         string  `json:"id"`
	Cycle      int     `json:"cycle"`
	RUL        float64 `json:"rul"`
	RULPercent float64 `json:"rul_percent"`
	Status     string  `json:"status"`
	Class      string  `json:"class"`
}

type Chart struct {
	Title  string   `json:"title"`
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

// Series values are positionally aligned with Chart.Labels; nil marks a gap.
type Series struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

type Event struct {
	ID        string    `json:"id"`
	Time      string    `json:"time"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
}
