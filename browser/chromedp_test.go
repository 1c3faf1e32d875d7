package browser

import (
	"context"
	"errors"
	"testing"
)

func TestChromeRunHonorsCancelledCaller(t *testing.T) {
	s := &ChromeSession{ctx: context.Background()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("run on cancelled context returned %v, want context.Canceled", err)
	}
}

func TestChromeWaitVisibleHonorsCancelledCaller(t *testing.T) {
	s := &ChromeSession{ctx: context.Background()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.WaitVisible(ctx, "body", 0); !errors.Is(err, context.Canceled) {
		t.Fatalf("WaitVisible on cancelled context returned %v, want context.Canceled", err)
	}
}
