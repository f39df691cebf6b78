// Package stats defines the core's only ambient-statistics collaborator
// contract (spec §5/§6): the core never imports a logging or metrics
// library, it only ever calls Sink.Phase at the boundary of a major
// computation phase, and it is the caller's choice what — if anything —
// happens with that call.
package stats

import "time"

// Sink receives one phase-timing observation per call. Implementations must
// be safe to call from a single-threaded solver with no concurrent access
// (the core itself never calls Phase from more than one goroutine).
type Sink interface {
	Phase(name string, d time.Duration)
}

// Noop discards every observation; used when CoreConfig.ShowStatistics is
// false so callers never pay for timing bookkeeping they did not ask for.
type Noop struct{}

func (Noop) Phase(string, time.Duration) {}

// Entry is one buffered observation recorded by Recorder.
type Entry struct {
	Name     string
	Duration time.Duration
}

// Recorder buffers every observation in call order for a caller to render
// however it likes (table, histogram, structured log line) once the solver
// returns. It is a plain value type, not a concurrent-safe accumulator —
// matching the core's single-threaded, synchronous execution model.
type Recorder struct {
	entries []Entry
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Phase(name string, d time.Duration) {
	r.entries = append(r.entries, Entry{Name: name, Duration: d})
}

// Entries returns a defensive copy of every observation recorded so far, in
// call order.
func (r *Recorder) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Total returns the sum of every recorded phase's duration.
func (r *Recorder) Total() time.Duration {
	var total time.Duration
	for _, e := range r.entries {
		total += e.Duration
	}
	return total
}
