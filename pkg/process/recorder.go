package process

import (
	"context"
	"sync"
)

// Call is one recorded launch.
type Call struct {
	Detached bool
	Spec     Spec
}

// Recorder is a Spawner that records launches instead of running them.
type Recorder struct {
	mu    sync.Mutex
	Calls []Call
	// Err, when set, is returned for every launch.
	Err error
}

var _ Spawner = (*Recorder)(nil)

func (r *Recorder) Start(ctx context.Context, spec Spec) error {
	return r.record(true, spec)
}

func (r *Recorder) Run(ctx context.Context, spec Spec) error {
	return r.record(false, spec)
}

func (r *Recorder) record(detached bool, spec Spec) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, Call{Detached: detached, Spec: spec})
	return r.Err
}

// Names returns the program names launched, in order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		names[i] = c.Spec.Name
	}
	return names
}
