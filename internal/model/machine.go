package model

import (
	"encoding/json"
	"maps"
)

// MachineRecord is one element of the upstream machine list. Optional
// fields are nil when the upstream omitted them.
type MachineRecord struct {
	MachineID        string             `json:"machineId"`
	Cycle            *int               `json:"cycle,omitempty"`
	LastRUL          *float64           `json:"lastRul,omitempty"`
	Status           *string            `json:"status,omitempty"`
	LastAnomalyScore *float64           `json:"lastAnomalyScore,omitempty"`
	IsAnomaly        *bool              `json:"isAnomaly,omitempty"`
	LastUpdated      string             `json:"lastUpdated,omitempty"`
	Sensors          map[string]float64 `json:"sensors,omitempty"`
}

// MachineSnapshot is the last known state of one machine.
type MachineSnapshot struct {
	ID      string             `json:"id"`
	Cycle   int                `json:"cycle"`
	RUL     *float64           `json:"rul"`
	Status  string             `json:"status,omitempty"`
	Sensors map[string]float64 `json:"sensors"`
}

func NewMachineSnapshot(id string) MachineSnapshot {
	return MachineSnapshot{
		ID:      id,
		Sensors: map[string]float64{},
	}
}

// Merge overwrites the fields present in rec. Sensors are replaced as a
// whole when the record carries them.
func (s *MachineSnapshot) Merge(rec MachineRecord) {
	if rec.Cycle != nil {
		s.Cycle = *rec.Cycle
	}
	if rec.LastRUL != nil {
		rul := *rec.LastRUL
		s.RUL = &rul
	}
	if rec.Status != nil {
		s.Status = *rec.Status
	}
	if rec.Sensors != nil {
		s.Sensors = maps.Clone(rec.Sensors)
	}
}

// Clone returns a deep copy.
func (s MachineSnapshot) Clone() MachineSnapshot {
	out := s
	if s.RUL != nil {
		rul := *s.RUL
		out.RUL = &rul
	}
	out.Sensors = maps.Clone(s.Sensors)
	if out.Sensors == nil {
		out.Sensors = map[string]float64{}
	}
	return out
}

func MachineRecordsFromJSON(data []byte) ([]MachineRecord, error) {
	var recs []MachineRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}
