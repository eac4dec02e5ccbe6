package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ndthanh/spendlens/internal/infra/resilience"
)

var testCfg = resilience.Config{
	MaxRetries:     3,
	InitialBackoff: 2 * time.Millisecond,
}

func TestRetryWithBackoff_NoRetryOnSuccess(t *testing.T) {
	calls := 0
	err := resilience.RetryWithBackoff(context.Background(), testCfg, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single call, got %d", calls)
	}
}

func TestRetryWithBackoff_EventualSuccess(t *testing.T) {
	calls := 0
	err := resilience.RetryWithBackoff(context.Background(), testCfg, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetryWithBackoff_ReturnsLastError(t *testing.T) {
	want := errors.New("persistent")
	calls := 0
	err := resilience.RetryWithBackoff(context.Background(), testCfg, func() error {
		calls++
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("expected the last error, got %v", err)
	}
	if calls != testCfg.MaxRetries+1 {
		t.Errorf("expected %d calls, got %d", testCfg.MaxRetries+1, calls)
	}
}

func TestRetryWithBackoff_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := resilience.RetryWithBackoff(ctx, testCfg, func() error {
		return errors.New("never retried")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBulkhead_LimitsConcurrency(t *testing.T) {
	bh := resilience.NewBulkhead(2)

	if err := bh.Acquire(context.Background()); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if err := bh.Acquire(context.Background()); err != nil {
		t.Fatalf("second acquire: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := bh.Acquire(ctx); err == nil {
		t.Fatal("expected the third acquire to block until timeout")
	}

	bh.Release()
	if err := bh.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
}
