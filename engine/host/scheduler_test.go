package host

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPumpDefersCallbacksRequestedDuringPump(t *testing.T) {
	p := NewFramePump()
	var runs []time.Duration
	var loop FrameCallback
	loop = func(ts time.Duration) {
		runs = append(runs, ts)
		p.RequestFrame(loop)
	}
	p.RequestFrame(loop)

	if n := p.Pump(10); n != 1 {
		t.Fatalf("first pump ran %d callbacks, want 1", n)
	}
	if p.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", p.Pending())
	}
	p.Pump(20)
	p.Pump(30)
	want := []time.Duration{10, 20, 30}
	if len(runs) != len(want) {
		t.Fatalf("runs = %v, want %v", runs, want)
	}
	for i := range want {
		if runs[i] != want[i] {
			t.Fatalf("runs = %v, want %v", runs, want)
		}
	}
	if p.Frames() != 3 {
		t.Errorf("frames = %d, want 3", p.Frames())
	}
}

func TestPumpRunsInRequestOrder(t *testing.T) {
	p := NewFramePump()
	var order []string
	p.RequestFrame(func(time.Duration) { order = append(order, "a") })
	p.RequestFrame(func(time.Duration) { order = append(order, "b") })
	p.RequestFrame(nil)
	p.Pump(0)
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("order = %v, want [a b]", order)
	}
}

func TestPumpRecoversPanics(t *testing.T) {
	var recovered any
	p := NewFramePump(WithPanicHandler(func(r any) { recovered = r }))
	ran := false
	p.RequestFrame(func(time.Duration) { panic("boom") })
	p.RequestFrame(func(time.Duration) { ran = true })
	p.Pump(0)
	if !ran {
		t.Error("callback after a panic did not run")
	}
	if recovered != "boom" {
		t.Errorf("recovered = %v, want boom", recovered)
	}
}

func TestRunStopsWhenPollFails(t *testing.T) {
	p := NewFramePump()
	frames := 0
	var loop FrameCallback
	loop = func(time.Duration) {
		frames++
		p.RequestFrame(loop)
	}
	p.RequestFrame(loop)

	polls := 0
	err := p.Run(context.Background(), func() bool {
		polls++
		return polls <= 5
	})
	if err != nil {
		t.Fatalf("Run = %v", err)
	}
	if frames != 5 {
		t.Errorf("frames = %d, want 5", frames)
	}
}

func TestRunStopsWhenIdle(t *testing.T) {
	p := NewFramePump()
	p.RequestFrame(func(time.Duration) {})
	if err := p.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run = %v", err)
	}
	if p.Frames() != 1 {
		t.Errorf("frames = %d, want 1", p.Frames())
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	p := NewFramePump()
	ctx, cancel := context.WithCancel(context.Background())
	var loop FrameCallback
	loop = func(time.Duration) {
		cancel()
		p.RequestFrame(loop)
	}
	p.RequestFrame(loop)
	if err := p.Run(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
}

func TestRunTimestampsFromClock(t *testing.T) {
	now := time.Unix(100, 0)
	clock := func() time.Time {
		now = now.Add(16 * time.Millisecond)
		return now
	}
	p := NewFramePump(WithClock(clock))
	var got []time.Duration
	remaining := 3
	var loop FrameCallback
	loop = func(ts time.Duration) {
		got = append(got, ts)
		remaining--
		if remaining > 0 {
			p.RequestFrame(loop)
		}
	}
	p.RequestFrame(loop)
	if err := p.Run(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	want := []time.Duration{16 * time.Millisecond, 32 * time.Millisecond, 48 * time.Millisecond}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("timestamps = %v, want %v", got, want)
		}
	}
}

func TestWithFrameLimit(t *testing.T) {
	p := NewFramePump(WithFrameLimit(50))
	if p.minInterval != 20*time.Millisecond {
		t.Errorf("minInterval = %v, want 20ms", p.minInterval)
	}
	if NewFramePump(WithFrameLimit(0)).minInterval != 0 {
		t.Error("zero fps should disable the limit")
	}
}
