package model

import "encoding/json"

// Alert is one element of the upstream alert list.
type Alert struct {
	AlertID   string `json:"alertId"`
	MachineID string `json:"machineId"`
	Timestamp string `json:"timestamp"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	Source    string `json:"source"`
}

func AlertsFromJSON(data []byte) ([]Alert, error) {
	var alerts []Alert
	if err := json.Unmarshal(data, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}
