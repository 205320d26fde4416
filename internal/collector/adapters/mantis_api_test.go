package adapters

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/speedwagon-io/mantis-monitor/internal/collector"
	"github.com/speedwagon-io/mantis-monitor/internal/lib/logger/sl"
)

func newTestAdapter(t *testing.T, h http.Handler) *MantisAPIAdapter {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	a := NewMantisAPIAdapter(sl.Discard(), MantisAPIOptions{
		BaseURL:      srv.URL + "/api",
		HealthURL:    srv.URL + "/actuator/health",
		MachinesPath: "/machines",
		AlertsPath:   "/alerts",
		Timeout:      time.Second,
	})
	a.now = func() time.Time { return time.UnixMilli(1700000000123) }
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestProbe_SendsCacheBuster(t *testing.T) {
	var gotT, gotAccept string
	mux := http.NewServeMux()
	mux.HandleFunc("/actuator/health", func(w http.ResponseWriter, r *http.Request) {
		gotT = r.URL.Query().Get("t")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"status":"UP"}`))
	})

	a := newTestAdapter(t, mux)
	if err := a.Probe(context.Background()); err != nil {
		t.Fatalf("Probe err=%v", err)
	}
	if gotT != "1700000000123" {
		t.Fatalf("cache-buster t=%q", gotT)
	}
	if gotAccept != "application/json" {
		t.Fatalf("accept=%q", gotAccept)
	}
}

func TestProbe_NonSuccessIsProbeFailure(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	err := a.Probe(context.Background())
	if !errors.Is(err, collector.ErrProbeFailed) {
		t.Fatalf("expected ErrProbeFailed, got %v", err)
	}
}

func TestProbe_UnreachableIsProbeFailure(t *testing.T) {
	a := NewMantisAPIAdapter(sl.Discard(), MantisAPIOptions{
		HealthURL: "http://127.0.0.1:1/actuator/health",
		Timeout:   200 * time.Millisecond,
	})

	if err := a.Probe(context.Background()); !errors.Is(err, collector.ErrProbeFailed) {
		t.Fatalf("expected ErrProbeFailed, got %v", err)
	}
}

func TestFetchMachines(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/machines", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"machineId":"machine_001","cycle":12,"lastRul":87.5,"status":"NORMAL"},{"machineId":"machine_002"}]`))
	})

	recs, err := newTestAdapter(t, mux).FetchMachines(context.Background())
	if err != nil {
		t.Fatalf("FetchMachines err=%v", err)
	}
	if len(recs) != 2 || recs[0].MachineID != "machine_001" || *recs[0].LastRUL != 87.5 {
		t.Fatalf("unexpected records %+v", recs)
	}
	if recs[1].LastRUL != nil {
		t.Fatalf("absent lastRul decoded as %v", *recs[1].LastRUL)
	}
}

func TestFetchMachines_Errors(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			want: collector.ErrFetchFailed,
		},
		{
			name: "malformed",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"not":"a list"`))
			},
			want: collector.ErrMalformedPayload,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := newTestAdapter(t, c.handler).FetchMachines(context.Background())
			if !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
}

func TestFetchAlerts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/alerts", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"alertId":"a1","machineId":"machine_001","severity":"CRITICAL","message":"RUL low"}]`))
	})

	alerts, err := newTestAdapter(t, mux).FetchAlerts(context.Background())
	if err != nil {
		t.Fatalf("FetchAlerts err=%v", err)
	}
	if len(alerts) != 1 || alerts[0].AlertID != "a1" || alerts[0].Severity != "CRITICAL" {
		t.Fatalf("unexpected alerts %+v", alerts)
	}
}
