package task

import (
	"testing"
	"time"
)

func TestIDGeneratorMonotonic(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	g := NewIDGenerator(func() time.Time { return fixed })

	first := g.Next()
	second := g.Next()
	if first != "1700000000000" {
		t.Errorf("first id: got %s", first)
	}
	if second != "1700000000001" {
		t.Errorf("stalled clock should still advance: got %s", second)
	}
}

func TestIDGeneratorClockStepsBack(t *testing.T) {
	now := time.UnixMilli(2000)
	g := NewIDGenerator(func() time.Time { return now })
	_ = g.Next()
	now = time.UnixMilli(1000)
	if got := g.Next(); got != "2001" {
		t.Errorf("got %s, want 2001", got)
	}
}

func TestIDGeneratorObserve(t *testing.T) {
	g := NewIDGenerator(func() time.Time { return time.UnixMilli(10) })
	g.Observe("500")
	g.Observe("not-a-number")
	g.Observe("20")
	if got := g.Next(); got != "501" {
		t.Errorf("got %s, want 501", got)
	}

	b := NewBoard()
	_ = b.Add(Task{ID: "900", Title: "a", Desc: "b", CreatedAt: time.UnixMilli(1)})
	g.ObserveBoard(b)
	if got := g.Next(); got != "901" {
		t.Errorf("got %s, want 901", got)
	}
}
