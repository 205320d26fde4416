package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "api:\n  base_url: http://127.0.0.1:8007/api/\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}

	if cfg.API.BaseURL != "http://127.0.0.1:8007/api" {
		t.Fatalf("base url not trimmed: %q", cfg.API.BaseURL)
	}
	if cfg.API.HealthURL != "http://127.0.0.1:8007/actuator/health" {
		t.Fatalf("unexpected health url %q", cfg.API.HealthURL)
	}
	if cfg.Polling.Interval != 2*time.Second {
		t.Fatalf("expected 2s interval, got %v", cfg.Polling.Interval)
	}
	if cfg.Window.MaxChartPoints != 30 || cfg.Window.MaxEvents != 50 {
		t.Fatalf("unexpected window %+v", cfg.Window)
	}
	if cfg.Thresholds.Warning != 100 || cfg.Thresholds.Critical != 30 {
		t.Fatalf("unexpected thresholds %+v", cfg.Thresholds)
	}
	if len(cfg.Charts.RULMachines) != 3 || cfg.Charts.RULMachines[0] != "machine_001" {
		t.Fatalf("unexpected rul machines %v", cfg.Charts.RULMachines)
	}
	if len(cfg.Charts.Sensors) != 3 || cfg.Charts.Sensors[2] != "sensor_03" {
		t.Fatalf("unexpected sensors %v", cfg.Charts.Sensors)
	}
}

func TestLoad_ExplicitHealthURLKept(t *testing.T) {
	path := writeConfig(t, "api:\n  base_url: http://api:8007/api\n  health_url: http://api:9000/ping\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}
	if cfg.API.HealthURL != "http://api:9000/ping" {
		t.Fatalf("health url overwritten: %q", cfg.API.HealthURL)
	}
}

func TestLoad_Invalid(t *testing.T) {
	body := `
api:
  base_url: http://api/api
window:
  max_chart_points: 0
thresholds:
  warning: 20
  critical: 30
charts:
  rul_machines: [a, b, c, d]
`
	_, err := Load(writeConfig(t, body))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"max_chart_points", "thresholds.critical", "charts.rul_machines"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %q", err, want)
		}
	}
}

func TestLoad_ExplicitZeroKept(t *testing.T) {
	body := `
api:
  base_url: http://api/api
thresholds:
  critical: 0
charts:
  sensors: []
  sensor_machine: ""
`
	cfg, err := Load(writeConfig(t, body))
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}
	if cfg.Thresholds.Critical != 0 {
		t.Fatalf("explicit critical: 0 replaced by %v", cfg.Thresholds.Critical)
	}
	if cfg.Thresholds.Warning != 100 {
		t.Fatalf("unset warning should keep default, got %v", cfg.Thresholds.Warning)
	}
	if len(cfg.Charts.Sensors) != 0 {
		t.Fatalf("explicit empty sensors replaced by %v", cfg.Charts.Sensors)
	}
	if len(cfg.Charts.RULMachines) != 3 {
		t.Fatalf("unset rul_machines should keep default, got %v", cfg.Charts.RULMachines)
	}
}

func TestLoad_ZeroChartPointsRejected(t *testing.T) {
	body := "api:\n  base_url: http://api/api\nwindow:\n  max_chart_points: 0\n"
	_, err := Load(writeConfig(t, body))
	if err == nil || !strings.Contains(err.Error(), "max_chart_points") {
		t.Fatalf("expected max_chart_points error, got %v", err)
	}
}

func TestDefaultHealthURL(t *testing.T) {
	cases := map[string]string{
		"http://h:1/api":  "http://h:1/actuator/health",
		"http://h:1/api/": "http://h:1/actuator/health",
		"http://h:1":      "http://h:1/actuator/health",
	}
	for in, want := range cases {
		if got := DefaultHealthURL(in); got != want {
			t.Fatalf("DefaultHealthURL(%q)=%q, want %q", in, got, want)
		}
	}
}
