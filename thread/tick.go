package thread

import (
	"kthreads/fixedpoint"
	"kthreads/intlevel"
	"kthreads/logging"
)

// OnTick is the timer ISR's entry point (spec.md §6's on_tick
// contract). Real timer interrupts run with interrupts already
// disabled; OnTick reproduces that by disabling them itself for the
// duration of its bookkeeping. It updates idle/kernel tick accounting,
// runs the MLFQS recomputation at its 1-tick/TIMER_FREQ-tick/4-tick
// cadences (spec.md §4.H), and performs the round-robin quantum check
// (MLFQS only) and the preemption check (spec.md §4.E) before
// returning — the point at
// which a yield requested during the tick actually takes effect,
// mirroring "interrupt return".
func (s *Scheduler) OnTick(ticks uint64, timerFreq int) {
	prevLevel := intlevel.Disable()
	intlevel.EnterInterrupt()

	cur := s.current
	if cur == s.idle {
		s.idleTicks++
	} else {
		s.kernelTicks++
	}
	s.quantumTicks++

	if s.mlfqs {
		if cur != s.idle {
			cur.recentCPU = fixedpoint.AddInt(cur.recentCPU, 1)
		}
		if timerFreq > 0 && ticks%uint64(timerFreq) == 0 {
			s.recomputeLoadAvg()
			s.Foreach(func(t *TCB) { s.recomputeRecentCPU(t) })
			logging.WithTID(logging.Default(), cur.tid).Debug("mlfqs recomputed load average and recent cpu", "ticks", ticks, "load_avg", s.GetLoadAvg())
		}
		if ticks%4 == 0 {
			s.Foreach(func(t *TCB) {
				if t != s.idle {
					s.recomputePriorityMLFQS(t)
				}
			})
			s.refreshMinReady()
			logging.WithTID(logging.Default(), cur.tid).Debug("mlfqs recomputed priorities", "ticks", ticks)
		}
		if s.quantumTicks%TimeSlice == 0 {
			s.yieldPending = true
		}
	}

	if top := s.topReady(); top != nil && cur.priority < top.priority {
		s.yieldPending = true
	}

	yield := s.yieldPending
	s.yieldPending = false

	intlevel.LeaveInterrupt()
	intlevel.Set(prevLevel)

	if yield {
		s.Yield()
	}
}
