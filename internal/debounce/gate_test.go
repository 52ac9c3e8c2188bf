package debounce

import (
	"testing"
	"time"
)

func TestGateFiresOnceAfterQuietWindow(t *testing.T) {
	start := time.Unix(0, 0)
	g := NewGate[string](100 * time.Millisecond)

	if !g.Observe("a", start) {
		t.Fatal("first observe should report a change")
	}
	if _, ok := g.Due(start.Add(99 * time.Millisecond)); ok {
		t.Fatal("gate fired before the window elapsed")
	}
	key, ok := g.Due(start.Add(100 * time.Millisecond))
	if !ok || key != "a" {
		t.Fatalf("Due() = %q, %v; want a, true", key, ok)
	}
	if _, ok := g.Due(start.Add(time.Second)); ok {
		t.Fatal("gate fired twice for the same key")
	}
}

func TestGateRapidChangesRestartWindow(t *testing.T) {
	start := time.Unix(0, 0)
	g := NewGate[int](100 * time.Millisecond)

	now := start
	fired := 0
	for i := range 5 {
		g.Observe(i, now)
		now = now.Add(20 * time.Millisecond)
		if _, ok := g.Due(now); ok {
			fired++
		}
	}
	if fired != 0 {
		t.Fatalf("expected no fires while keys keep changing, got %d", fired)
	}
	var last int
	for range 20 {
		now = now.Add(10 * time.Millisecond)
		if key, ok := g.Due(now); ok {
			fired++
			last = key
		}
	}
	if fired != 1 || last != 4 {
		t.Fatalf("expected a single fire for key 4, got %d fires (last=%d)", fired, last)
	}
}

func TestGateSameKeyDoesNotRestart(t *testing.T) {
	start := time.Unix(0, 0)
	g := NewGate[string](50 * time.Millisecond)
	g.Observe("a", start)
	if g.Observe("a", start.Add(40*time.Millisecond)) {
		t.Fatal("observing the same key should not report a change")
	}
	if _, ok := g.Due(start.Add(50 * time.Millisecond)); !ok {
		t.Fatal("window should be measured from the first observation")
	}
}

func TestGateClear(t *testing.T) {
	start := time.Unix(0, 0)
	g := NewGate[string](10 * time.Millisecond)
	if g.Clear() {
		t.Fatal("clearing an empty gate should return false")
	}
	g.Observe("a", start)
	if !g.Clear() {
		t.Fatal("clearing a populated gate should return true")
	}
	if g.Pending() {
		t.Fatal("cleared gate should not be pending")
	}
	if _, ok := g.Due(start.Add(time.Second)); ok {
		t.Fatal("cleared gate should not fire")
	}
	if !g.Observe("a", start.Add(time.Second)) {
		t.Fatal("observing after clear should report a change")
	}
}
