package telemetry

type Level string

const (
	LevelUnknown  Level = "unknown"
	LevelHealthy  Level = "healthy"
	LevelAlert    Level = "warning"
	LevelCritical Level = "critical"
)

// Thresholds partition RUL values: below Critical is critical, below
// Warning is an alert, anything else is healthy.
type Thresholds struct {
	Warning  float64
	Critical float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{Warning: 100, Critical: 30}
}

// Classify never places an unknown RUL in the alert or critical bands.
func (t Thresholds) Classify(rul *float64) Level {
	switch {
	case rul == nil:
		return LevelUnknown
	case *rul < t.Critical:
		return LevelCritical
	case *rul < t.Warning:
		return LevelAlert
	default:
		return LevelHealthy
	}
}
