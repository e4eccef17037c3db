package thread

import "testing"

func TestNextThreadToRunFallsBackToIdle(t *testing.T) {
	s := New(false)
	s.Start()

	// Immediately after Start, the ready list is empty (idle is
	// parked, main is current): the fallback path must hand back idle
	// rather than crash.
	if got := s.nextThreadToRun(); got != s.idle {
		t.Errorf("nextThreadToRun() with empty ready list = %v, want idle", got.name)
	}
	// nextThreadToRun does not remove idle from anywhere, so calling it
	// again is safe and still returns idle.
	if got := s.nextThreadToRun(); got != s.idle {
		t.Errorf("second nextThreadToRun() = %v, want idle", got.name)
	}
}

func TestInsertReadyOrdersByDescendingPriority(t *testing.T) {
	s := New(false)
	low := &TCB{name: "low", priority: 10, wake: make(chan struct{}, 1)}
	high := &TCB{name: "high", priority: 30, wake: make(chan struct{}, 1)}
	mid := &TCB{name: "mid", priority: 20, wake: make(chan struct{}, 1)}

	s.insertReady(low)
	s.insertReady(high)
	s.insertReady(mid)

	var order []string
	for n := s.readyList.Begin(); n != nil; n = n.Next() {
		order = append(order, n.Value.name)
	}
	want := []string{"high", "mid", "low"}
	if len(order) != len(want) {
		t.Fatalf("ready list has %d entries, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("ready list order = %v, want %v", order, want)
		}
	}
}

func TestInsertReadyKeepsFIFOWithinBand(t *testing.T) {
	s := New(false)
	a := &TCB{name: "a", priority: 20, wake: make(chan struct{}, 1)}
	b := &TCB{name: "b", priority: 20, wake: make(chan struct{}, 1)}
	c := &TCB{name: "c", priority: 20, wake: make(chan struct{}, 1)}

	s.insertReady(a)
	s.insertReady(b)
	s.insertReady(c)

	got := []string{}
	for n := s.readyList.Begin(); n != nil; n = n.Next() {
		got = append(got, n.Value.name)
	}
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FIFO order within band = %v, want %v", got, want)
		}
	}
}
