package services

import (
	"sort"
	"sync"
	"time"
)

// ArrivalTracker menandai order dapur yang baru muncul sejak pengamatan
// sebelumnya. Pengamatan pertama hanya mengisi baseline.
type ArrivalTracker struct {
	mu      sync.Mutex
	window  time.Duration
	now     func() time.Time
	primed  bool
	known   map[uint]bool
	flagged map[uint]time.Time // id -> berakhirnya highlight
}

func NewArrivalTracker(window time.Duration) *ArrivalTracker {
	return &ArrivalTracker{
		window:  window,
		now:     time.Now,
		known:   make(map[uint]bool),
		flagged: make(map[uint]time.Time),
	}
}

// Observe mencatat id aktif saat ini dan mengembalikan id yang masih
// di-highlight, terurut naik.
func (t *ArrivalTracker) Observe(ids []uint) []uint {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	current := make(map[uint]bool, len(ids))
	for _, id := range ids {
		current[id] = true
	}

	if t.primed {
		for id := range current {
			if !t.known[id] {
				t.flagged[id] = now.Add(t.window)
			}
		}
	}
	t.primed = true
	t.known = current

	highlighted := make([]uint, 0, len(t.flagged))
	for id, until := range t.flagged {
		if !current[id] || !now.Before(until) {
			delete(t.flagged, id)
			continue
		}
		highlighted = append(highlighted, id)
	}
	sort.Slice(highlighted, func(i, j int) bool { return highlighted[i] < highlighted[j] })
	return highlighted
}

// Reset membuat pengamatan berikutnya menjadi baseline lagi
func (t *ArrivalTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.primed = false
	t.known = make(map[uint]bool)
	t.flagged = make(map[uint]time.Time)
}
