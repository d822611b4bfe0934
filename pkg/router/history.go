package router

import "sync"

// HistoryStore records routing decisions. Implementations must be safe
// for concurrent use; the router appends from whatever goroutine calls
// Route.
type HistoryStore interface {
	Append(*Decision)
	All() []*Decision
	Len() int
	Clear()
}

// MemoryHistory is an in-process decision ledger. With a positive
// capacity it behaves as a ring buffer, discarding the oldest decisions;
// capacity 0 means unbounded growth.
type MemoryHistory struct {
	mu        sync.Mutex
	capacity  int
	decisions []*Decision
}

// NewMemoryHistory creates a history store. capacity 0 disables the cap.
func NewMemoryHistory(capacity int) *MemoryHistory {
	if capacity < 0 {
		capacity = 0
	}
	return &MemoryHistory{capacity: capacity}
}

// Append records a decision, evicting the oldest when over capacity.
func (h *MemoryHistory) Append(d *Decision) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.decisions = append(h.decisions, d)
	if h.capacity > 0 && len(h.decisions) > h.capacity {
		overflow := len(h.decisions) - h.capacity
		h.decisions = append(h.decisions[:0:0], h.decisions[overflow:]...)
	}
}

// All returns a copy of the recorded decisions, oldest first.
func (h *MemoryHistory) All() []*Decision {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]*Decision, len(h.decisions))
	copy(out, h.decisions)
	return out
}

// Len returns the number of recorded decisions.
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.decisions)
}

// Clear discards all recorded decisions.
func (h *MemoryHistory) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.decisions = nil
}
