package health

import (
	"context"
	"errors"
	"testing"

	"github.com/jonwraymond/wikiredirect/resilience"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestPingChecker(t *testing.T) {
	ok := NewPingChecker("durable_store", pingFunc(func(context.Context) error { return nil }))
	if ok.Name() != "durable_store" {
		t.Errorf("Name() = %q", ok.Name())
	}
	if r := ok.Check(context.Background()); r.Status != StatusHealthy {
		t.Errorf("Check() = %v, want healthy", r.Status)
	}

	denied := errors.New("AccessDenied")
	bad := NewPingChecker("durable_store", pingFunc(func(context.Context) error { return denied }))
	r := bad.Check(context.Background())
	if r.Status != StatusUnhealthy || !errors.Is(r.Error, denied) {
		t.Errorf("Check() = %+v, want unhealthy with cause", r)
	}
}

func TestOptionalPingChecker_DegradesOnFailure(t *testing.T) {
	denied := errors.New("AccessDenied")
	c := NewOptionalPingChecker("durable_store", pingFunc(func(context.Context) error { return denied }))

	r := c.Check(context.Background())
	if r.Status != StatusDegraded || !errors.Is(r.Error, denied) {
		t.Errorf("Check() = %+v, want degraded with cause", r)
	}
}

func TestCacheModeChecker(t *testing.T) {
	if r := NewCacheModeChecker(true).Check(context.Background()); r.Status != StatusHealthy {
		t.Errorf("durable Check() = %v, want healthy", r.Status)
	}
	if r := NewCacheModeChecker(false).Check(context.Background()); r.Status != StatusDegraded {
		t.Errorf("memory-only Check() = %v, want degraded", r.Status)
	}
}

func TestBulkheadChecker(t *testing.T) {
	b := resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: 1})
	c := NewBulkheadChecker(b)

	if r := c.Check(context.Background()); r.Status != StatusHealthy {
		t.Errorf("idle Check() = %v, want healthy", r.Status)
	}

	if err := b.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer b.Release()

	r := c.Check(context.Background())
	if r.Status != StatusDegraded {
		t.Errorf("saturated Check() = %v, want degraded", r.Status)
	}
	if r.Details["active"] != 1 {
		t.Errorf("details = %v, want active=1", r.Details)
	}
}

func TestMemoryChecker(t *testing.T) {
	healthy := NewMemoryChecker(MemoryCheckerConfig{Limit: 1 << 50})
	if r := healthy.Check(context.Background()); r.Status != StatusHealthy {
		t.Errorf("Check() = %v, want healthy", r.Status)
	}

	critical := NewMemoryChecker(MemoryCheckerConfig{Limit: 1})
	if r := critical.Check(context.Background()); r.Status != StatusUnhealthy {
		t.Errorf("Check() = %v, want unhealthy", r.Status)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if r := healthy.Check(ctx); r.Status != StatusUnhealthy {
		t.Errorf("cancelled Check() = %v, want unhealthy", r.Status)
	}
}
