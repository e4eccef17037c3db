package thread

// lessPriorityPolicy orders the sorted ready list used by the priority
// policy: a sorts before b when a's priority is strictly higher, so the
// front of the list is always the most urgent thread and equal
// priorities keep insertion order (round-robin within a band).
func lessPriorityPolicy(a, b *TCB) bool { return a.priority > b.priority }

// insertReady transitions t to READY and links it into the ready queue
// under whichever policy is active, refreshing the MLFQS min-cache if t
// now dominates it. Caller must hold the critical section.
func (s *Scheduler) insertReady(t *TCB) {
	t.status = StatusReady
	if s.mlfqs {
		t.readyNode = s.readyList.PushBack(t)
		if s.minReady == nil || t.priority > s.minReady.Value.priority {
			s.minReady = t.readyNode
		}
		return
	}
	t.readyNode = s.readyList.InsertOrdered(t, lessPriorityPolicy)
}

// nextThreadToRun selects the thread to dispatch next: the idle thread
// iff the ready queue is empty, otherwise pop_front under the priority
// policy or the cached highest-priority node under MLFQS, rescanning
// once that cached node is removed (spec.md §4.E).
func (s *Scheduler) nextThreadToRun() *TCB {
	if s.readyList.Empty() {
		return s.idle
	}
	if s.mlfqs {
		n := s.minReady
		s.readyList.Remove(n)
		n.Value.readyNode = nil
		s.refreshMinReady()
		return n.Value
	}
	v, _ := s.readyList.PopFront()
	v.readyNode = nil
	return v
}

// topReady returns the highest-priority ready thread without removing
// it, or nil if the ready queue is empty. Used by the preemption checks
// in both OnTick and swapToHighest.
func (s *Scheduler) topReady() *TCB {
	if s.readyList.Empty() {
		return nil
	}
	if s.mlfqs {
		return s.minReady.Value
	}
	return s.readyList.Front().Value
}

// refreshMinReady rescans the ready list for its highest-priority
// member. Called whenever the cached node is consumed or every ready
// thread's priority may have moved at once (the per-4-tick bulk
// recompute).
func (s *Scheduler) refreshMinReady() {
	if s.readyList.Empty() {
		s.minReady = nil
		return
	}
	s.minReady = s.readyList.Min(lessPriorityPolicy)
}
