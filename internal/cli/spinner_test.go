package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe to read while the spinner writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNetworkSize(t *testing.T) {
	tests := []struct {
		segments, loads int
		want            string
	}{
		{2, 3, "2 segments, 3 loads"},
		{1, 1, "1 segment, 1 load"},
		{0, 0, "0 segments, 0 loads"},
	}
	for _, tt := range tests {
		if got := networkSize(tt.segments, tt.loads); got != tt.want {
			t.Errorf("networkSize(%d, %d) = %q, want %q", tt.segments, tt.loads, got, tt.want)
		}
	}
}

func TestSpinnerLineNamesStage(t *testing.T) {
	s := newStageSpinner(context.Background(), &bytes.Buffer{}, "Computing yard.json", 2, 3)

	line := s.line(0)
	for _, want := range []string{"Computing yard.json...", "2 segments, 3 loads"} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}

	s.SetDetail("svg, dot")
	if line := s.line(1); !strings.Contains(line, "(svg, dot)") {
		t.Errorf("line after SetDetail = %q", line)
	}
}

func TestSpinnerWritesAndClears(t *testing.T) {
	var out syncBuffer
	s := newStageSpinner(context.Background(), &out, "Computing yard.json", 2, 3)
	s.Start()
	time.Sleep(5 * spinnerInterval)
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "2 segments, 3 loads") {
		t.Errorf("output %q does not show the network size", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Error("line not cleared after Stop")
	}
}

func TestSpinnerStopBeforeStart(t *testing.T) {
	s := newStageSpinner(context.Background(), &bytes.Buffer{}, "Computing", 0, 0)

	done := make(chan struct{})
	go func() {
		s.Stop()
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop without Start blocked")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newStageSpinner(context.Background(), &bytes.Buffer{}, "Computing", 1, 1)
	s.Start()
	s.Stop()
	s.Stop()
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerCancelledByContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newStageSpinner(ctx, &syncBuffer{}, "Computing", 1, 1)
	s.Start()
	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("spinner should report cancellation by its context")
	}
}

func TestSpinnerStopComputed(t *testing.T) {
	tests := []struct {
		cached bool
		want   bool
	}{
		{cached: true, want: true},
		{cached: false, want: false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		s := newStageSpinner(context.Background(), &out, "Computing yard.json", 2, 3)
		s.StopComputed(tt.cached)

		got := strings.Contains(out.String(), "Computing yard.json: result taken from the cache")
		if got != tt.want {
			t.Errorf("StopComputed(%v) cache notice = %v, want %v", tt.cached, got, tt.want)
		}
	}
}
