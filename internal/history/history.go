package history

import (
	"sort"
	"time"

	"github.com/OER-Club/CS39AE-Fall25/internal/models"
)

// History is an append-only, time-ordered price series bounded by a sliding
// window: after every append, points older than now-window are dropped.
// It belongs to exactly one session and is not safe for concurrent use;
// the owning session serializes access.
//
// Appends are not deduplicated. A re-render that appends an unchanged
// snapshot produces duplicate timestamps, matching the source behavior.
type History struct {
	window time.Duration
	points []models.PricePoint
}

func New(window time.Duration) *History {
	return &History{window: window}
}

func (h *History) Window() time.Duration { return h.window }

// SetWindow changes the sliding window and immediately re-truncates
// against the given reference time.
func (h *History) SetWindow(window time.Duration, now time.Time) {
	h.window = window
	h.Truncate(now)
}

// Append records one point per instrument at the given time, in
// instrument order so output is deterministic, then truncates the window.
func (h *History) Append(now time.Time, prices map[string]float64) {
	ids := make([]string, 0, len(prices))
	for id := range prices {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		h.points = append(h.points, models.PricePoint{
			Timestamp:  now,
			Instrument: id,
			Price:      prices[id],
		})
	}
	h.Truncate(now)
}

// Truncate drops every point older than now-window. Points are
// time-ordered, so this is a prefix cut.
func (h *History) Truncate(now time.Time) {
	cutoff := now.Add(-h.window)
	i := 0
	for i < len(h.points) && h.points[i].Timestamp.Before(cutoff) {
		i++
	}
	if i > 0 {
		h.points = append(h.points[:0], h.points[i:]...)
	}
}

func (h *History) Len() int { return len(h.points) }

// Points returns a copy of the retained series.
func (h *History) Points() []models.PricePoint {
	out := make([]models.PricePoint, len(h.points))
	copy(out, h.points)
	return out
}

// Series groups the retained points by instrument, each series
// time-ordered.
func (h *History) Series() map[string][]models.PricePoint {
	out := make(map[string][]models.PricePoint)
	for _, p := range h.points {
		out[p.Instrument] = append(out[p.Instrument], p)
	}
	return out
}
