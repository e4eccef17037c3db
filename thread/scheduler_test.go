package thread

import (
	"strings"
	"sync"
	"testing"
)

// findThread locates a live thread by tid; returns nil if it has exited.
func findThread(s *Scheduler, tid int) *TCB {
	var found *TCB
	s.Foreach(func(t *TCB) {
		if t.tid == tid {
			found = t
		}
	})
	return found
}

func TestBasicPreemption(t *testing.T) {
	s := New(false)

	var ran bool
	tid, err := s.Create("high", 40, func(any) { ran = true }, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if tid == TIDError {
		t.Fatalf("Create() returned TIDError")
	}
	if !ran {
		t.Fatalf("higher-priority thread did not run to completion before Create returned")
	}
}

func TestFIFOWithinPriorityBand(t *testing.T) {
	s := New(false)

	var mu sync.Mutex
	var log []string
	record := func(name string) {
		mu.Lock()
		log = append(log, name)
		mu.Unlock()
	}

	for _, name := range []string{"A", "B", "C"} {
		name := name
		if _, err := s.Create(name, 20, func(any) { record(name) }, nil); err != nil {
			t.Fatalf("Create(%s) error = %v", name, err)
		}
	}

	// All three sit READY at a lower priority than main (31); lowering
	// main below them lets them run in FIFO order within the band.
	s.SetPriority(10)

	mu.Lock()
	got := strings.Join(log, ",")
	mu.Unlock()
	if got != "A,B,C" {
		t.Errorf("run order = %q, want %q", got, "A,B,C")
	}
}

func TestSetPriorityRoundTrip(t *testing.T) {
	s := New(false)
	s.SetPriority(15)
	if got := s.GetPriority(); got != 15 {
		t.Errorf("GetPriority() = %d, want 15", got)
	}
}

func TestYieldAloneIsNoop(t *testing.T) {
	s := New(false)
	s.Start()
	before := s.GetPriority()
	s.Yield()
	s.Yield()
	if got := s.GetPriority(); got != before {
		t.Errorf("priority changed across idle yields: got %d, want %d", got, before)
	}
}

func TestDonationRelease(t *testing.T) {
	s := New(false)
	l1 := s.NewLock()
	hold := s.NewSemaphore(0)

	lowTID, err := s.Create("low", 10, func(any) {
		l1.Acquire()
		hold.Down()
		l1.Release()
	}, nil)
	if err != nil {
		t.Fatalf("create low: %v", err)
	}

	// Low (10) is below main's default priority (31); lower main so
	// low actually runs and acquires l1 before main continues.
	s.SetPriority(5)

	low := findThread(s, lowTID)
	if low == nil {
		t.Fatal("low thread not found")
	}
	if got := low.Priority(); got != 10 {
		t.Fatalf("low priority before contention = %d, want 10", got)
	}

	var highRan bool
	if _, err := s.Create("high", 40, func(any) {
		l1.Acquire()
		highRan = true
		l1.Release()
	}, nil); err != nil {
		t.Fatalf("create high: %v", err)
	}

	if got := low.Priority(); got != 40 {
		t.Fatalf("low priority after high blocks on l1 = %d, want 40", got)
	}

	hold.Up()

	if got := low.Priority(); got != 10 {
		t.Fatalf("low priority after releasing l1 = %d, want 10", got)
	}
	if !highRan {
		t.Fatalf("high never acquired l1 after low released it")
	}
}

func TestNestedDonation(t *testing.T) {
	s := New(false)
	l1 := s.NewLock()
	l2 := s.NewLock()
	holdLow := s.NewSemaphore(0)

	lowTID, err := s.Create("low", 10, func(any) {
		l1.Acquire()
		holdLow.Down()
		l1.Release()
	}, nil)
	if err != nil {
		t.Fatalf("create low: %v", err)
	}
	s.SetPriority(5)

	low := findThread(s, lowTID)
	if low == nil {
		t.Fatal("low thread not found")
	}
	if got := low.Priority(); got != 10 {
		t.Fatalf("low priority holding l1 uncontended = %d, want 10", got)
	}

	midTID, err := s.Create("mid", 20, func(any) {
		l2.Acquire()
		l1.Acquire()
		l1.Release()
		l2.Release()
	}, nil)
	if err != nil {
		t.Fatalf("create mid: %v", err)
	}
	mid := findThread(s, midTID)
	if mid == nil {
		t.Fatal("mid thread not found")
	}
	if got := low.Priority(); got != 20 {
		t.Fatalf("low priority after mid blocks on l1 = %d, want 20", got)
	}

	if _, err := s.Create("high", 30, func(any) {
		l2.Acquire()
		l2.Release()
	}, nil); err != nil {
		t.Fatalf("create high: %v", err)
	}

	if got := low.Priority(); got != 30 {
		t.Fatalf("low priority after high donates transitively = %d, want 30", got)
	}
	if got := mid.Priority(); got != 30 {
		t.Fatalf("mid priority after high donates via l2 = %d, want 30", got)
	}

	holdLow.Up()

	if got := low.Priority(); got != 10 {
		t.Fatalf("low priority after releasing l1 = %d, want 10", got)
	}
}

func TestForeachVisitsEveryThread(t *testing.T) {
	s := New(false)
	s.Start()

	names := map[string]bool{}
	s.Foreach(func(t *TCB) { names[t.Name()] = true })

	if !names["main"] || !names["idle"] {
		t.Errorf("Foreach() saw %v, want main and idle present", names)
	}
}
