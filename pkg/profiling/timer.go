// Package profiling records nested wall-clock spans for the --timing flag.
package profiling

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Stopper ends a span.
type Stopper interface {
	Stop()
}

type span struct {
	name     string
	start    time.Time
	duration time.Duration
	children []*span
	timer    *Timer
}

func (s *span) Stop() {
	s.timer.end(s)
}

// Timer collects spans. Spans nest in the order they are started; the zero
// Timer is disabled and records nothing.
type Timer struct {
	mu      sync.Mutex
	enabled bool
	now     func() time.Time
	root    *span
	stack   []*span
}

var defaultTimer = &Timer{}

// Enable turns on the process-wide timer.
func Enable() {
	defaultTimer.Enable()
}

// Start opens a span on the process-wide timer.
func Start(name string) Stopper {
	return defaultTimer.Start(name)
}

// Summarize writes the process-wide timer's tree to w.
func Summarize(w io.Writer) {
	defaultTimer.Summarize(w)
}

// Enable starts recording. Calling it again is a no-op.
func (t *Timer) Enable() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.enabled {
		return
	}
	if t.now == nil {
		t.now = time.Now
	}
	t.enabled = true
	t.root = &span{name: "total", start: t.now(), timer: t}
	t.stack = []*span{t.root}
}

// Start opens a span as a child of the innermost open span.
func (t *Timer) Start(name string) Stopper {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled {
		return noop{}
	}
	parent := t.stack[len(t.stack)-1]
	s := &span{name: name, start: t.now(), timer: t}
	parent.children = append(parent.children, s)
	t.stack = append(t.stack, s)
	return s
}

func (t *Timer) end(s *span) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s.duration = t.now().Sub(s.start)
	for i := len(t.stack) - 1; i > 0; i-- {
		if t.stack[i] == s {
			t.stack = t.stack[:i]
			return
		}
	}
}

// Summarize writes every recorded span, indented by depth, with its share of
// the total.
func (t *Timer) Summarize(w io.Writer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled {
		return
	}
	t.root.duration = t.now().Sub(t.root.start)
	fmt.Fprintf(w, "timing: %v\n", t.root.duration.Round(100*time.Microsecond))
	for _, c := range t.root.children {
		printSpan(w, c, 1, t.root.duration)
	}
}

func printSpan(w io.Writer, s *span, depth int, total time.Duration) {
	pct := 0.0
	if total > 0 {
		pct = float64(s.duration) / float64(total) * 100
	}
	fmt.Fprintf(w, "%s- %s (%v, %.1f%%)\n", strings.Repeat("  ", depth), s.name,
		s.duration.Round(100*time.Microsecond), pct)
	for _, c := range s.children {
		printSpan(w, c, depth+1, total)
	}
}

type noop struct{}

func (noop) Stop() {}
