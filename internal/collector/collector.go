package collector

import (
	"context"
	"errors"

	"github.com/speedwagon-io/mantis-monitor/internal/model"
)

// Failure classes of a polling cycle. Adapters wrap one of these so the
// reconciler can classify with errors.Is.
var (
	ErrProbeFailed      = errors.New("probe failed")
	ErrFetchFailed      = errors.New("fetch failed")
	ErrMalformedPayload = errors.New("malformed payload")
)

// API is the remote monitoring service.
type API interface {
	Probe(ctx context.Context) error
	FetchMachines(ctx context.Context) ([]model.MachineRecord, error)
	FetchAlerts(ctx context.Context) ([]model.Alert, error)
	Name() string
	Close() error
}
