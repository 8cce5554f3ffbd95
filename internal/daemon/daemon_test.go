package daemon

import (
	"context"
	"testing"

	"memedex/internal/config"
	"memedex/internal/logging"
	"memedex/internal/testsupport"
)

func newTestDaemon(t *testing.T, cfg *config.Config) *Daemon {
	t.Helper()
	store := testsupport.NewStore(t, cfg)
	d, err := New(cfg, store, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d := newTestDaemon(t, cfg)

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	status := d.Status(context.Background())
	if !status.Running {
		t.Fatal("status should report running")
	}
	if !status.MonitorEnabled || status.MonitorDisabled {
		t.Fatalf("monitor should be enabled and healthy: %+v", status)
	}
	if status.CatalogPath != cfg.Paths.CatalogPath {
		t.Fatalf("catalog path = %q", status.CatalogPath)
	}

	d.Stop()
	if d.Status(context.Background()).Running {
		t.Fatal("status should report stopped after Stop")
	}
}

func TestDaemonStartStopWithPollingSource(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPolling(0.05))
	d := newTestDaemon(t, cfg)

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	status := d.Status(context.Background())
	if !status.MonitorEnabled || status.MonitorDisabled {
		t.Fatalf("polling monitor should be enabled and healthy: %+v", status)
	}
	d.Stop()
}

func TestDaemonRejectsSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first := newTestDaemon(t, cfg)
	second := newTestDaemon(t, cfg)

	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	defer first.Stop()

	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("second daemon on the same lock should fail to start")
	}
}

func TestDaemonMonitorDisabledByConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMonitorDisabled())
	d := newTestDaemon(t, cfg)

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	status := d.Status(context.Background())
	if !status.Running {
		t.Fatal("daemon should run without the monitor subsystem")
	}
	if status.MonitorEnabled {
		t.Fatal("status should report the monitor as disabled")
	}
}

func TestDaemonStartIsIdempotentGuarded(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d := newTestDaemon(t, cfg)

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	if err := d.Start(context.Background()); err == nil {
		t.Fatal("second Start on a running daemon should fail")
	}
}
