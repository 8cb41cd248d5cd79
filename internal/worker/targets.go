package worker

import (
	"slices"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
)

// AddTarget adds a ticker to the explicit scan list and reports whether it was
// new.
func (w *PriceWatcher) AddTarget(t value.Ticker) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if slices.Contains(w.targets, t) {
		return false
	}

	w.targets = append(w.targets, t)

	return true
}

func (w *PriceWatcher) RemoveTarget(t value.Ticker) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := slices.Index(w.targets, t)
	if i < 0 {
		return false
	}

	w.targets = slices.Delete(w.targets, i, i+1)

	return true
}

// Targets returns a copy of the explicit scan list.
func (w *PriceWatcher) Targets() []value.Ticker {
	w.mu.Lock()
	defer w.mu.Unlock()

	return slices.Clone(w.targets)
}

// ClearTargets empties the explicit list; scans fall back to the watchlist.
func (w *PriceWatcher) ClearTargets() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.targets = nil
}
