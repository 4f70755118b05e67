package pipeline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"scribe/internal/pipeline"
)

func TestRetryPolicyRunsMaxRetriesPlusOneAttempts(t *testing.T) {
	policy := pipeline.RetryPolicy{MaxRetries: 2, Delay: time.Millisecond}

	attempts := 0
	retries := 0
	boom := errors.New("segment exploded")
	err := policy.Do(context.Background(), func(context.Context) error {
		attempts++
		return boom
	}, func(int, error) { retries++ })

	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if retries != 2 {
		t.Fatalf("expected 2 retry notifications, got %d", retries)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected last error, got %v", err)
	}
}

func TestRetryPolicyStopsOnSuccess(t *testing.T) {
	policy := pipeline.RetryPolicy{MaxRetries: 5, Delay: time.Millisecond}

	attempts := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 2 {
			return errors.New("once")
		}
		return nil
	}, nil)

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestRetryPolicyAbortsOnCancelledContext(t *testing.T) {
	policy := pipeline.RetryPolicy{MaxRetries: 10, Delay: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	boom := errors.New("still broken")

	start := time.Now()
	err := policy.Do(ctx, func(context.Context) error {
		attempts++
		cancel()
		return boom
	}, nil)

	if time.Since(start) > time.Second {
		t.Fatal("cancelled retry slept out its delay")
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected last error, got %v", err)
	}
}

func TestRetryPolicyZeroRetriesRunsOnce(t *testing.T) {
	policy := pipeline.RetryPolicy{}

	attempts := 0
	_ = policy.Do(context.Background(), func(context.Context) error {
		attempts++
		return errors.New("no")
	}, nil)

	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}
