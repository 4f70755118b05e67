package pipeline_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"scribe/internal/pipeline"
)

func TestHeartbeatInvokesInjectedBeat(t *testing.T) {
	var beats atomic.Int64
	hb := pipeline.NewHeartbeat(10*time.Millisecond, func() { beats.Add(1) }, nil)

	hb.Start(context.Background())
	defer hb.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for beats.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("expected at least 3 beats, got %d", beats.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHeartbeatStopIsIdempotent(t *testing.T) {
	var beats atomic.Int64
	hb := pipeline.NewHeartbeat(5*time.Millisecond, func() { beats.Add(1) }, nil)

	hb.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	hb.Stop()
	hb.Stop()

	after := beats.Load()
	time.Sleep(30 * time.Millisecond)
	if beats.Load() != after {
		t.Fatal("heartbeat kept beating after Stop")
	}
}

func TestHeartbeatStopWithoutStart(t *testing.T) {
	hb := pipeline.NewHeartbeat(time.Second, nil, nil)
	hb.Stop()
}

func TestHeartbeatStartAfterStopIsNoOp(t *testing.T) {
	var beats atomic.Int64
	hb := pipeline.NewHeartbeat(5*time.Millisecond, func() { beats.Add(1) }, nil)

	hb.Stop()
	hb.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	if beats.Load() != 0 {
		t.Fatal("stopped heartbeat restarted")
	}
}
