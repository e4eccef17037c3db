package timer

import "testing"

func TestTickInvokesCallbackInOrder(t *testing.T) {
	var got []uint64
	src := NewSource(100, func(n uint64) { got = append(got, n) })
	for i := 0; i < 5; i++ {
		src.Tick()
	}
	if len(got) != 5 {
		t.Fatalf("len(got) = %d, want 5", len(got))
	}
	for i, n := range got {
		if n != uint64(i+1) {
			t.Errorf("got[%d] = %d, want %d", i, n, i+1)
		}
	}
	if src.Ticks() != 5 {
		t.Errorf("Ticks() = %d, want 5", src.Ticks())
	}
}

func TestDefaultFreqWhenNonPositive(t *testing.T) {
	src := NewSource(0, nil)
	if src.Freq() != DefaultFreq {
		t.Errorf("Freq() = %d, want %d", src.Freq(), DefaultFreq)
	}
}

func TestSleepQueueFiresInOrder(t *testing.T) {
	q := NewSleepQueue()
	var woke []int
	q.Add(10, func() { woke = append(woke, 10) })
	q.Add(3, func() { woke = append(woke, 3) })
	q.Add(7, func() { woke = append(woke, 7) })

	q.Fire(5)
	if len(woke) != 1 || woke[0] != 3 {
		t.Fatalf("after Fire(5): woke = %v, want [3]", woke)
	}
	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2", q.Len())
	}

	q.Fire(10)
	if len(woke) != 3 || woke[1] != 7 || woke[2] != 10 {
		t.Fatalf("after Fire(10): woke = %v, want [3 7 10]", woke)
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
}

func TestSleepQueueFireNoneDue(t *testing.T) {
	q := NewSleepQueue()
	fired := false
	q.Add(100, func() { fired = true })
	q.Fire(50)
	if fired {
		t.Errorf("Fire(50) woke a sleeper due at 100")
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d, want 1", q.Len())
	}
}
