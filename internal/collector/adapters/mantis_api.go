package adapters

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/speedwagon-io/mantis-monitor/internal/collector"
	"github.com/speedwagon-io/mantis-monitor/internal/model"
)

type MantisAPIAdapter struct {
	log          *slog.Logger
	baseURL      string
	healthURL    string
	machinesPath string
	alertsPath   string
	client       *http.Client
	now          func() time.Time
}

type MantisAPIOptions struct {
	BaseURL      string
	HealthURL    string
	MachinesPath string
	AlertsPath   string
	Timeout      time.Duration
}

func NewMantisAPIAdapter(log *slog.Logger, opts MantisAPIOptions) *MantisAPIAdapter {
	return &MantisAPIAdapter{
		log:          log,
		baseURL:      opts.BaseURL,
		healthURL:    opts.HealthURL,
		machinesPath: opts.MachinesPath,
		alertsPath:   opts.AlertsPath,
		client: &http.Client{
			Timeout: opts.Timeout,
		},
		now: time.Now,
	}
}

func (a *MantisAPIAdapter) Name() string {
	return "mantis_api"
}

func (a *MantisAPIAdapter) Close() error {
	a.client.CloseIdleConnections()
	return nil
}

// Probe checks the upstream health endpoint. The t query parameter defeats
// intermediate caches; the body is ignored.
func (a *MantisAPIAdapter) Probe(ctx context.Context) error {
	u, err := url.Parse(a.healthURL)
	if err != nil {
		return fmt.Errorf("%w: invalid health url: %w", collector.ErrProbeFailed, err)
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(a.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", collector.ErrProbeFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", collector.ErrProbeFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: health check returned status %d", collector.ErrProbeFailed, resp.StatusCode)
	}

	return nil
}

func (a *MantisAPIAdapter) FetchMachines(ctx context.Context) ([]model.MachineRecord, error) {
	body, err := a.get(ctx, a.machinesPath)
	if err != nil {
		return nil, err
	}

	recs, err := model.MachineRecordsFromJSON(body)
	if err != nil {
		return nil, fmt.Errorf("%w: machines: %w", collector.ErrMalformedPayload, err)
	}

	a.log.Debug("fetched machines", slog.Int("count", len(recs)))
	return recs, nil
}

func (a *MantisAPIAdapter) FetchAlerts(ctx context.Context) ([]model.Alert, error) {
	body, err := a.get(ctx, a.alertsPath)
	if err != nil {
		return nil, err
	}

	alerts, err := model.AlertsFromJSON(body)
	if err != nil {
		return nil, fmt.Errorf("%w: alerts: %w", collector.ErrMalformedPayload, err)
	}

	a.log.Debug("fetched alerts", slog.Int("count", len(alerts)))
	return alerts, nil
}

func (a *MantisAPIAdapter) get(ctx context.Context, path string) ([]byte, error) {
	endpoint := a.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", collector.ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", collector.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: GET %s returned status %d", collector.ErrFetchFailed, path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", collector.ErrFetchFailed, err)
	}

	return body, nil
}
