package modules

import (
	"context"
	"errors"
	"testing"
	"time"
)

var (
	startOrder string
	stopOrder  string
)

func testPrep(t *testing.T, name string) func() error {
	t.Helper()
	return func() error {
		t.Logf("prep %s", name)
		return nil
	}
}

func testStart(t *testing.T, name string) func() error {
	t.Helper()
	return func() error {
		t.Logf("start %s", name)
		startOrder += name
		return nil
	}
}

func testStop(t *testing.T, name string) func() error {
	t.Helper()
	return func() error {
		t.Logf("stop %s", name)
		stopOrder += name
		return nil
	}
}

func TestModules(t *testing.T) {
	Register("base", testPrep(t, "base"), testStart(t, "base"), testStop(t, "base"))
	Register("feature1", testPrep(t, "feature1"), testStart(t, "feature1"), testStop(t, "feature1"), "base")
	Register("feature2", testPrep(t, "feature2"), testStart(t, "feature2"), testStop(t, "feature2"), "base", "feature1")

	err := Start()
	if err != nil {
		t.Fatalf("start failed: %s", err)
	}
	if !StartCompleted() {
		t.Error("start should be completed")
	}
	if startOrder != "basefeature1feature2" {
		t.Errorf("start order mismatch: %s", startOrder)
	}

	// run a worker that finishes before shutdown
	m := modules["feature2"]
	done := make(chan struct{})
	m.StartWorker("test worker", func(ctx context.Context) error {
		close(done)
		return nil
	})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not run")
	}

	// panics are recovered into errors
	err = m.RunWorker("panicking worker", func(ctx context.Context) error {
		panic("nooooo")
	})
	if err == nil {
		t.Error("expected error from panicking worker")
	}
	var me *ModuleError
	if !errors.As(err, &me) {
		t.Errorf("expected *ModuleError, got %T", err)
	}

	err = Shutdown()
	if err != nil {
		t.Fatalf("shutdown failed: %s", err)
	}
	if stopOrder != "feature2feature1base" {
		t.Errorf("stop order mismatch: %s", stopOrder)
	}

	SetExitStatusCode(1)
	if GetExitStatusCode() != 1 {
		t.Error("exit status code mismatch")
	}

	// second shutdown is a no-op
	if err := Shutdown(); err != nil {
		t.Errorf("second shutdown should be nil, got %s", err)
	}
}

func TestDependencyErrors(t *testing.T) {
	// separate registry state is not possible, so only check linking errors
	m := initNewModule("orphan", nil, nil, nil, "missing")
	if len(m.depNames) != 1 {
		t.Fatal("dependency not recorded")
	}
}
