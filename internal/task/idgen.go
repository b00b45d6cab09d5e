package task

import (
	"strconv"
	"time"
)

// IDGenerator issues task IDs derived from wall-clock milliseconds.
// IDs are strictly increasing within a generator even when the clock stalls
// or steps backwards.
type IDGenerator struct {
	now  func() time.Time
	last int64
}

// NewIDGenerator creates a generator. A nil clock uses time.Now.
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns a fresh ID.
func (g *IDGenerator) Next() string {
	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return strconv.FormatInt(ms, 10)
}

// Observe records an existing ID so later IDs sort after it.
// Non-numeric IDs are ignored.
func (g *IDGenerator) Observe(id string) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return
	}
	if n > g.last {
		g.last = n
	}
}

// ObserveBoard records every ID on the board.
func (g *IDGenerator) ObserveBoard(b *Board) {
	for _, t := range b.pending {
		g.Observe(t.ID)
	}
	for _, t := range b.completed {
		g.Observe(t.ID)
	}
}
