package tui

import (
	"log/slog"
	"time"

	"github.com/thiagokokada/gx-go/internal/debounce"
)

const (
	logDetailWindow    = 100 * time.Millisecond
	branchDetailWindow = 150 * time.Millisecond
)

type detailState int

const (
	detailEmpty detailState = iota
	detailLoading
	detailReady
)

// Detail caches the expensive record for the current selection. A new
// selection drops the cached value at once; the fetch only runs after the
// selection has been stable for the gate window, and at most once per stable
// selection.
type Detail[D any] struct {
	gate  *debounce.Gate[string]
	fetch func(key string) (D, error)

	state   detailState
	key     string
	value   D
	fetches int
}

func NewDetail[D any](window time.Duration, fetch func(key string) (D, error)) *Detail[D] {
	return &Detail[D]{gate: debounce.NewGate[string](window), fetch: fetch}
}

// Observe records the selection key; ok is false when nothing is selected.
func (d *Detail[D]) Observe(key string, ok bool, now time.Time) {
	if !ok {
		if d.gate.Clear() {
			d.reset(detailEmpty, "")
		}
		return
	}
	if d.gate.Observe(key, now) {
		d.reset(detailLoading, key)
	}
}

func (d *Detail[D]) reset(state detailState, key string) {
	var zero D
	d.state = state
	d.key = key
	d.value = zero
}

// Poll runs the fetch when the selection has settled. It reports whether a
// fetch happened.
func (d *Detail[D]) Poll(now time.Time) bool {
	key, due := d.gate.Due(now)
	if !due {
		return false
	}
	d.fetches++
	v, err := d.fetch(key)
	if err != nil {
		slog.Debug("detail fetch failed", slog.String("key", key), slog.Any("error", err))
		d.reset(detailEmpty, key)
		return true
	}
	d.state = detailReady
	d.value = v
	return true
}

// Value returns the cached record for Key.
func (d *Detail[D]) Value() (D, bool) {
	return d.value, d.state == detailReady
}

func (d *Detail[D]) Key() string { return d.key }

func (d *Detail[D]) Loading() bool { return d.state == detailLoading }

// Fetches counts the fetches run so far.
func (d *Detail[D]) Fetches() int { return d.fetches }
