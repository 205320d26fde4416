package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string           `yaml:"env" env-default:"prod"`
	API        APIConfig        `yaml:"api"`
	Polling    PollingConfig    `yaml:"polling"`
	Window     WindowConfig     `yaml:"window"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Charts     ChartsConfig     `yaml:"charts"`
	HTTP       HTTPConfig       `yaml:"http"`
	Render     RenderConfig     `yaml:"render"`
	Log        LogConfig        `yaml:"log"`
}

type APIConfig struct {
	BaseURL      string        `yaml:"base_url" env:"MONITOR_API_BASE_URL" env-required:"true"`
	HealthURL    string        `yaml:"health_url" env:"MONITOR_API_HEALTH_URL"`
	MachinesPath string        `yaml:"machines_path" env-default:"/machines"`
	AlertsPath   string        `yaml:"alerts_path" env-default:"/alerts"`
	Timeout      time.Duration `yaml:"timeout" env-default:"5s"`
}

type PollingConfig struct {
	Interval      time.Duration `yaml:"interval" env:"MONITOR_POLL_INTERVAL" env-default:"2s"`
	CycleTimeout  time.Duration `yaml:"cycle_timeout" env-default:"10s"`
	ClockInterval time.Duration `yaml:"clock_interval" env-default:"1s"`
}

type HTTPConfig struct {
	Address string `yaml:"address" env:"MONITOR_HTTP_ADDRESS" env-default:":8080"`
}

type RenderConfig struct {
	LogViews bool `yaml:"log_views" env-default:"false"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"MONITOR_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env-default:"json"`
}

func MustLoad(configPath string) *Config {
	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}

	if configPath == "" {
		configPath = "config/config.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file not found: " + configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	return cfg
}

func Load(configPath string) (*Config, error) {
	cfg := defaults()
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) normalize() {
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	if c.API.HealthURL == "" {
		c.API.HealthURL = DefaultHealthURL(c.API.BaseURL)
	}
}

// DefaultHealthURL strips a trailing /api segment from the base URL and
// appends the actuator health path.
func DefaultHealthURL(baseURL string) string {
	root := strings.TrimSuffix(strings.TrimRight(baseURL, "/"), "/api")
	return root + "/actuator/health"
}

func (c *Config) Validate() error {
	var errs []error

	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api.base_url is required"))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("api.timeout must be positive"))
	}
	if c.Polling.Interval <= 0 {
		errs = append(errs, errors.New("polling.interval must be positive"))
	}
	if c.Polling.CycleTimeout <= 0 {
		errs = append(errs, errors.New("polling.cycle_timeout must be positive"))
	}
	if c.Polling.ClockInterval <= 0 {
		errs = append(errs, errors.New("polling.clock_interval must be positive"))
	}

	errs = append(errs, c.Window.validate()...)
	errs = append(errs, c.Thresholds.validate()...)
	errs = append(errs, c.Charts.validate()...)

	return errors.Join(errs...)
}
