package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner animates one line while a pipeline stage runs. The line names
// the stage and the size of the network it works on. It stops on Stop or
// when its context is cancelled.
type Spinner struct {
	w      io.Writer
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	stage   string
	detail  string
	width   int // widest line written, for clearing
	started bool
	stopped chan struct{}
	once    sync.Once
}

// newStageSpinner returns a spinner for stage (for example "Computing
// yard.json") over a network of the given size.
func newStageSpinner(ctx context.Context, w io.Writer, stage string, segments, loads int) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		stage:   stage,
		detail:  networkSize(segments, loads),
		stopped: make(chan struct{}),
	}
}

func networkSize(segments, loads int) string {
	return fmt.Sprintf("%d %s, %d %s",
		segments, plural(segments, "segment", "segments"),
		loads, plural(loads, "load", "loads"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// SetDetail replaces the text shown after the stage name.
func (s *Spinner) SetDetail(detail string) {
	s.mu.Lock()
	s.detail = detail
	s.mu.Unlock()
}

// line renders frame i.
func (s *Spinner) line(i int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := s.stage + "..."
	if s.detail != "" {
		text += " (" + s.detail + ")"
	}
	return styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]) + " " + StyleDim.Render(text)
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				l := s.line(i)
				s.mu.Lock()
				s.width = max(s.width, len(l))
				fmt.Fprintf(s.w, "\r%s", l)
				s.mu.Unlock()
			}
		}
	}()
}

// Stop ends the animation and clears the line. It may be called more than
// once, and before Start.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if started {
			<-s.stopped
		}
	})
}

// StopComputed stops the spinner and notes whether the stage was answered
// from the cache.
func (s *Spinner) StopComputed(cached bool) {
	s.Stop()
	if cached {
		fmt.Fprintf(s.w, "%s %s\n", styleIconInfo.Render(iconInfo), StyleDim.Render(s.stage+": result taken from the cache"))
	}
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// Cancelled reports whether the caller's context ended the spinner.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
