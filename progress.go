package ticketpdf

import "sync"

// Progress is a snapshot of a run's two counters. Each ticket is counted
// once when generated and once when its page is rendered, so
// Generated+Rendered climbs to Bound = 2 x total.
type Progress struct {
	Generated int
	Rendered  int
	Bound     int
}

// Done returns Generated + Rendered.
func (p Progress) Done() int {
	return p.Generated + p.Rendered
}

// Fraction returns progress in [0, 1].
func (p Progress) Fraction() float64 {
	if p.Bound == 0 {
		return 0
	}
	return float64(p.Done()) / float64(p.Bound)
}

// ProgressFunc receives a snapshot after every counter change. Calls are
// serialized.
type ProgressFunc func(Progress)

// progressTracker holds the monotonic counters.
type progressTracker struct {
	mu       sync.Mutex
	p        Progress
	listener ProgressFunc
}

func newProgressTracker(total int, listener ProgressFunc) *progressTracker {
	return &progressTracker{p: Progress{Bound: 2 * total}, listener: listener}
}

func (t *progressTracker) addGenerated(n int) { t.add(n, 0) }
func (t *progressTracker) addRendered(n int)  { t.add(0, n) }

// skip counts tickets satisfied without work (resumed batches) on both counters.
func (t *progressTracker) skip(n int) { t.add(n, n) }

func (t *progressTracker) add(generated, rendered int) {
	if generated <= 0 && rendered <= 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.p.Generated = min(t.p.Generated+max(generated, 0), t.p.Bound/2)
	t.p.Rendered = min(t.p.Rendered+max(rendered, 0), t.p.Bound/2)
	if t.listener != nil {
		t.listener(t.p)
	}
}

func (t *progressTracker) snapshot() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.p
}
