package thread

import (
	"kthreads/errors"
	"kthreads/fixedpoint"
	"kthreads/intlevel"
)

// loadCoeff1 and loadCoeff2 are the 59/60 and 1/60 constants from
// spec.md §4.H's load-average recurrence.
var (
	loadCoeff1 = fixedpoint.Div(fixedpoint.FromInt(59), fixedpoint.FromInt(60))
	loadCoeff2 = fixedpoint.Div(fixedpoint.FromInt(1), fixedpoint.FromInt(60))
)

// recomputeLoadAvg implements the once-per-TIMER_FREQ-ticks refresh:
// load_avg ← c1·load_avg + c2·ready_count, where ready_count counts the
// ready list plus the running thread unless it is idle.
func (s *Scheduler) recomputeLoadAvg() {
	readyCount := s.readyList.Size()
	if s.current != s.idle {
		readyCount++
	}
	s.loadAvg = fixedpoint.Add(
		fixedpoint.Mul(loadCoeff1, s.loadAvg),
		fixedpoint.MulInt(loadCoeff2, readyCount),
	)
}

// decayedRecentCPU applies recent_cpu ← (2·load_avg)/(2·load_avg+1) ·
// recent_cpu + nice to the given nice/recent_cpu pair. Factored out so
// both the per-second bulk refresh and a new thread's inherited
// recent_cpu (spec.md §4.H's new-thread inheritance rule) share one
// implementation of the formula.
func (s *Scheduler) decayedRecentCPU(nice int, recentCPU fixedpoint.Fixed) fixedpoint.Fixed {
	twiceLoad := fixedpoint.MulInt(s.loadAvg, 2)
	coeff := fixedpoint.Div(twiceLoad, fixedpoint.AddInt(twiceLoad, 1))
	return fixedpoint.AddInt(fixedpoint.Mul(coeff, recentCPU), nice)
}

func (s *Scheduler) recomputeRecentCPU(t *TCB) {
	t.recentCPU = s.decayedRecentCPU(t.nice, t.recentCPU)
}

// calculatePriorityMLFQS implements priority ← clamp(PRI_MAX −
// recent_cpu/4 − 2·nice, PRI_MIN, PRI_MAX), with the recent_cpu/4 term
// truncated toward zero as specified.
func calculatePriorityMLFQS(recentCPU fixedpoint.Fixed, nice int) int {
	cpuTerm := fixedpoint.ToIntTrunc(fixedpoint.DivInt(recentCPU, 4))
	return fixedpoint.Clamp(PriMax-cpuTerm-2*nice, PriMin, PriMax)
}

func (s *Scheduler) recomputePriorityMLFQS(t *TCB) {
	t.priority = calculatePriorityMLFQS(t.recentCPU, t.nice)
}

// SetNice updates the calling thread's niceness and recomputes its
// recent_cpu and priority immediately, then runs the preemption check.
// A no-op when the priority-donation policy is active; nice only means
// anything under MLFQS.
func (s *Scheduler) SetNice(n int) {
	if !s.mlfqs {
		return
	}
	if intlevel.InInterrupt() {
		fatalWith(errors.ErrThreadContextOnly, "set_nice", s.current.name)
	}
	prev := intlevel.Disable()
	cur := s.current
	cur.nice = n
	s.recomputeRecentCPU(cur)
	s.recomputePriorityMLFQS(cur)
	intlevel.Set(prev)
	s.swapToHighest()
}

// GetNice returns the calling thread's niceness.
func (s *Scheduler) GetNice() int { return s.current.nice }

// GetLoadAvg returns round(100 * load_avg), half-away-from-zero.
func (s *Scheduler) GetLoadAvg() int {
	return fixedpoint.ToIntRound(fixedpoint.MulInt(s.loadAvg, 100))
}

// GetRecentCPU returns round(100 * recent_cpu) of the calling thread.
func (s *Scheduler) GetRecentCPU() int {
	return fixedpoint.ToIntRound(fixedpoint.MulInt(s.current.recentCPU, 100))
}
