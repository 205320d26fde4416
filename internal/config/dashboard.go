package config

import (
	"errors"
	"fmt"
)

// MaxSeriesPerChart bounds the number of named series on each chart.
const MaxSeriesPerChart = 3

// Fields below carry no env-default tag: cleanenv treats an explicit YAML
// zero as unset, so defaults are applied in defaults() before reading.
type WindowConfig struct {
	MaxChartPoints int `yaml:"max_chart_points"`
	MaxEvents      int `yaml:"max_events"`
}

type ThresholdsConfig struct {
	Warning  float64 `yaml:"warning"`
	Critical float64 `yaml:"critical"`
}

type ChartsConfig struct {
	RULMachines   []string `yaml:"rul_machines"`
	SensorMachine string   `yaml:"sensor_machine"`
	Sensors       []string `yaml:"sensors"`
	LabelLayout   string   `yaml:"label_layout" env-default:"15:04:05"`
	RULScale      float64  `yaml:"rul_scale"`
}

func defaults() Config {
	return Config{
		Window: WindowConfig{
			MaxChartPoints: 30,
			MaxEvents:      50,
		},
		Thresholds: ThresholdsConfig{
			Warning:  100,
			Critical: 30,
		},
		Charts: ChartsConfig{
			RULMachines:   []string{"machine_001", "machine_002", "machine_003"},
			SensorMachine: "machine_001",
			Sensors:       []string{"sensor_01", "sensor_02", "sensor_03"},
			RULScale:      200,
		},
	}
}

func (w WindowConfig) validate() []error {
	var errs []error
	if w.MaxChartPoints < 1 {
		errs = append(errs, fmt.Errorf("window.max_chart_points must be >= 1, got %d", w.MaxChartPoints))
	}
	if w.MaxEvents < 1 {
		errs = append(errs, fmt.Errorf("window.max_events must be >= 1, got %d", w.MaxEvents))
	}
	return errs
}

func (t ThresholdsConfig) validate() []error {
	if t.Critical >= t.Warning {
		return []error{fmt.Errorf("thresholds.critical (%v) must be below thresholds.warning (%v)", t.Critical, t.Warning)}
	}
	return nil
}

func (c ChartsConfig) validate() []error {
	var errs []error
	if len(c.RULMachines) > MaxSeriesPerChart {
		errs = append(errs, fmt.Errorf("charts.rul_machines: at most %d series, got %d", MaxSeriesPerChart, len(c.RULMachines)))
	}
	if len(c.Sensors) > MaxSeriesPerChart {
		errs = append(errs, fmt.Errorf("charts.sensors: at most %d series, got %d", MaxSeriesPerChart, len(c.Sensors)))
	}
	if len(c.Sensors) > 0 && c.SensorMachine == "" {
		errs = append(errs, errors.New("charts.sensor_machine is required when sensors are charted"))
	}
	if c.LabelLayout == "" {
		errs = append(errs, errors.New("charts.label_layout must not be empty"))
	}
	if c.RULScale <= 0 {
		errs = append(errs, errors.New("charts.rul_scale must be positive"))
	}
	return errs
}
