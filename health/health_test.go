package health

import (
	"context"
	"errors"
	"testing"
)

func TestRegistryRunAndHealthy(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	r.Register("always-ok", func(context.Context) error { return nil })
	if !r.Healthy(ctx) {
		t.Fatalf("registry with passing check reported unhealthy")
	}

	boom := errors.New("stale")
	r.Register("flaky", func(context.Context) error { return boom })

	res := r.Run(ctx)
	if res["always-ok"] != nil || !errors.Is(res["flaky"], boom) {
		t.Fatalf("unexpected results: %v", res)
	}
	if r.Healthy(ctx) {
		t.Fatalf("failing check must flip Healthy")
	}

	// re-registering replaces the previous check
	r.Register("flaky", func(context.Context) error { return nil })
	if !r.Healthy(ctx) {
		t.Fatalf("replaced check still failing")
	}
}
