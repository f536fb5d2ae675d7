package game

import (
	"sort"
	"sync"
)

// Sample is one strength reading taken at simulated time T.
type Sample struct {
	T     float64
	Value float64
}

// History keeps the most recent strength samples of one faction, oldest
// overwritten first. Samples are pushed in time order.
type History struct {
	mu    sync.RWMutex
	buf   []Sample
	next  int
	count int
}

func newHistory(seconds, hz float64) *History {
	return &History{buf: make([]Sample, int(seconds*hz)+4)}
}

func (h *History) push(s Sample) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buf[h.next] = s
	h.next = (h.next + 1) % len(h.buf)
	h.count = min(h.count+1, len(h.buf))
}

// chronological copies the retained window, oldest first. Callers hold mu.
func (h *History) chronological() []Sample {
	out := make([]Sample, h.count)
	start := (h.next - h.count + len(h.buf)) % len(h.buf)
	for i := range out {
		out[i] = h.buf[(start+i)%len(h.buf)]
	}
	return out
}

// Samples returns the retained samples oldest first.
func (h *History) Samples() []Sample {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.chronological()
}

// ValueAt reads the strength at time t, interpolating between the samples
// around it. Times outside the window read the nearest end.
func (h *History) ValueAt(t float64) (float64, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.count == 0 {
		return 0, false
	}
	window := h.chronological()
	i := sort.Search(len(window), func(i int) bool { return window[i].T >= t })
	switch {
	case i == 0:
		return window[0].Value, true
	case i == len(window):
		return window[len(window)-1].Value, true
	}
	after, before := window[i], window[i-1]
	if after.T == t || after.T == before.T {
		return after.Value, true
	}
	return lerpFloat(before.Value, after.Value, (t-before.T)/(after.T-before.T)), true
}
