package health

import (
	"context"
	"fmt"
	"time"

	"github.com/speedwagon-io/mantis-monitor/internal/connectivity"
)

type UpstreamHealthChecker struct {
	statusFunc func() connectivity.Status
}

func NewUpstreamHealthChecker(statusFunc func() connectivity.Status) *UpstreamHealthChecker {
	return &UpstreamHealthChecker{statusFunc: statusFunc}
}

func (c *UpstreamHealthChecker) Name() string {
	return "upstream"
}

// Check reports degraded rather than unhealthy: this process keeps serving
// the last known data while the upstream is down.
func (c *UpstreamHealthChecker) Check(ctx context.Context) (Status, string) {
	st := c.statusFunc()
	switch st.State {
	case connectivity.StateUp:
		return StatusHealthy, ""
	case connectivity.StateDown:
		return StatusDegraded, fmt.Sprintf("%d consecutive failures: %s", st.ConsecutiveFailures, st.LastError)
	default:
		return StatusDegraded, "no cycle completed yet"
	}
}

type FreshnessHealthChecker struct {
	ageFunc func() (time.Duration, bool)
	maxAge  time.Duration
}

func NewFreshnessHealthChecker(ageFunc func() (time.Duration, bool), maxAge time.Duration) *FreshnessHealthChecker {
	return &FreshnessHealthChecker{ageFunc: ageFunc, maxAge: maxAge}
}

func (c *FreshnessHealthChecker) Name() string {
	return "view"
}

func (c *FreshnessHealthChecker) Check(ctx context.Context) (Status, string) {
	age, ok := c.ageFunc()
	if !ok {
		return StatusDegraded, "no view published yet"
	}
	if age > c.maxAge {
		return StatusUnhealthy, fmt.Sprintf("last view published %s ago", age.Round(time.Second))
	}
	return StatusHealthy, ""
}
