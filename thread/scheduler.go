package thread

import (
	"runtime"
	"sync"

	"kthreads/dlist"
	"kthreads/errors"
	"kthreads/fixedpoint"
	"kthreads/intlevel"
	"kthreads/logging"
	"kthreads/pagepool"
)

// Scheduler owns every piece of shared state named in spec components D
// through I: the thread registry, the ready queue and its selection
// cache, the currently running thread, and the MLFQS estimators. There
// is exactly one Scheduler per simulated machine.
type Scheduler struct {
	mlfqs bool

	pages *pagepool.Pool

	allList   *dlist.List[*TCB]
	readyList *dlist.List[*TCB]
	minReady  *dlist.Node[*TCB] // MLFQS cache: highest-priority ready node

	current *TCB
	initial *TCB
	idle    *TCB

	handoffFrom  *TCB // set by schedule() just before handing off the baton
	yieldPending bool // yield-on-return, consumed at OnTick's return boundary

	tidMu   sync.Mutex
	nextTID int

	lockMu     sync.Mutex
	nextLockID int

	loadAvg fixedpoint.Fixed

	quantumTicks uint
	idleTicks    uint64
	kernelTicks  uint64

	idleStarted *Semaphore
}

// New creates a scheduler. mlfqs selects the 4.4BSD multi-level
// feedback queue policy; false selects strict priority round-robin
// with donation. The calling goroutine becomes the initial thread,
// mirroring thread_init's transformation of the booting stack into
// "main".
func New(mlfqs bool) *Scheduler {
	s := &Scheduler{
		mlfqs:     mlfqs,
		pages:     pagepool.New(),
		allList:   dlist.New[*TCB](),
		readyList: dlist.New[*TCB](),
		nextTID:   1,
	}

	main := &TCB{
		name:         "main",
		magic:        threadMagic,
		status:       StatusRunning,
		basePriority: PriDefault,
		priority:     PriDefault,
		locks:        make(map[*Lock]struct{}),
		wake:         make(chan struct{}, 1),
	}
	if mlfqs {
		// init_thread sets priority unconditionally to PRI_MAX under
		// thread_mlfqs; nice/recent_cpu already zero-value correctly.
		main.priority = PriMax
	}
	main.tid = s.allocateTID()
	main.allNode = s.allList.PushBack(main)
	s.current = main
	s.initial = main
	s.idleStarted = s.NewSemaphore(0)

	logging.Info("scheduler initialized", "mlfqs", mlfqs, "thread", main.name, "tid", main.tid)
	return s
}

func (s *Scheduler) allocateTID() int {
	s.tidMu.Lock()
	defer s.tidMu.Unlock()
	tid := s.nextTID
	s.nextTID++
	return tid
}

// Start creates the idle thread and waits for it to run once and park
// itself, mirroring thread_start's idle_started handshake — so
// nextThreadToRun always has a safe fallback before any other thread
// exists.
func (s *Scheduler) Start() {
	_, err := s.Create("idle", PriMin, func(any) { s.idleMain() }, nil)
	if err != nil {
		errors.Fatal(errors.New(errors.KindAllocation, "start", "failed to create idle thread"))
	}
	s.idleStarted.Down()
}

// idleMain is the idle thread's body: record itself as the scheduler's
// idle thread, signal Start that it has run once, then block forever,
// one tick at a time, letting anything else run.
func (s *Scheduler) idleMain() {
	s.idle = s.Current()
	s.idleStarted.Up()
	for {
		intlevel.Disable()
		s.Block()
	}
}

// Create allocates a new thread named name with the given base
// priority, running fn(aux) once dispatched, and makes it READY. It
// returns TIDError and the allocation error if no page is available;
// no partial state persists in that case (spec.md §7).
func (s *Scheduler) Create(name string, priority int, fn func(any), aux any) (int, error) {
	pg, err := s.pages.AllocZeroed()
	if err != nil {
		return TIDError, err
	}

	creator := s.current
	t := &TCB{
		tid:          s.allocateTID(),
		name:         truncateName(name),
		magic:        threadMagic,
		status:       StatusBlocked,
		basePriority: priority,
		priority:     priority,
		locks:        make(map[*Lock]struct{}),
		wake:         make(chan struct{}, 1),
		fn:           fn,
		aux:          aux,
		page:         pg,
	}

	if s.mlfqs {
		// init_thread sets priority unconditionally to PRI_MAX under
		// thread_mlfqs; the priority argument is never honored here.
		// thread_create only overrides from the creator's decayed
		// nice/recent_cpu when the creator isn't the initial thread.
		t.priority = PriMax
		if creator != s.initial {
			t.nice = creator.nice
			t.recentCPU = s.decayedRecentCPU(creator.nice, creator.recentCPU)
			t.priority = calculatePriorityMLFQS(t.recentCPU, t.nice)
		}
	}

	prev := intlevel.Disable()
	t.allNode = s.allList.PushBack(t)
	intlevel.Set(prev)

	go s.runThread(t)

	s.Unblock(t)
	s.swapToHighest()

	logging.WithTID(logging.WithThread(logging.Default(), t.name), t.tid).Debug("thread created", "priority", t.priority)
	return t.tid, nil
}

// Block transitions the calling thread from RUNNING to BLOCKED and
// relinquishes the CPU. The caller must already have interrupts
// disabled — block never disables on the caller's behalf, matching
// every suspension point in spec.md §5.
func (s *Scheduler) Block() {
	if intlevel.InInterrupt() {
		fatalWith(errors.ErrThreadContextOnly, "block", s.current.name)
	}
	if intlevel.Get() != intlevel.Off {
		fatalWith(errors.ErrInterruptsEnabled, "block", s.current.name)
	}
	s.current.status = StatusBlocked
	s.schedule()
}

// Unblock transitions a BLOCKED thread to READY. It does not itself
// preempt — callers that need preemption invoke the swap-to-highest
// check explicitly (spec.md §5).
func (s *Scheduler) Unblock(t *TCB) {
	prev := intlevel.Disable()
	if t.status != StatusBlocked {
		intlevel.Set(prev)
		fatalWith(errors.ErrUnblockNotBlocked, "unblock", t.name)
	}
	s.insertReady(t)
	intlevel.Set(prev)
}

// Yield gives up the CPU but keeps the calling thread READY, reinserted
// into the ready queue under whichever policy is active. The idle
// thread is the one exception: once dispatched it never reappears in
// the ready queue, matching next_thread_to_run's fallback of handing
// it out only when the queue is otherwise empty.
func (s *Scheduler) Yield() {
	if intlevel.InInterrupt() {
		fatalWith(errors.ErrThreadContextOnly, "yield", s.current.name)
	}
	prev := intlevel.Disable()
	cur := s.current
	if cur == s.idle {
		cur.status = StatusReady
	} else {
		s.insertReady(cur)
	}
	s.schedule()
	intlevel.Set(prev)
}

// Exit transitions the calling thread to DYING, removes it from
// all_list, and schedules away from it for the last time. It never
// returns.
func (s *Scheduler) Exit() {
	if intlevel.InInterrupt() {
		fatalWith(errors.ErrThreadContextOnly, "exit", s.current.name)
	}
	intlevel.Disable()
	cur := s.current
	s.allList.Remove(cur.allNode)
	cur.allNode = nil
	cur.status = StatusDying
	s.schedule()
	// schedule hands the CPU to the successor and returns here without
	// parking; end this goroutine for good.
	runtime.Goexit()
}

// Current returns the running thread's TCB.
func (s *Scheduler) Current() *TCB { return s.current }

// CurrentTID returns the running thread's TID.
func (s *Scheduler) CurrentTID() int { return s.current.tid }

// Name returns the running thread's name.
func (s *Scheduler) Name() string { return s.current.name }

// Foreach invokes fn for every live thread in all_list with interrupts
// held off (spec.md §6's foreach(fn, aux) contract).
func (s *Scheduler) Foreach(fn func(*TCB)) {
	prev := intlevel.Disable()
	for n := s.allList.Begin(); n != nil; n = n.Next() {
		fn(n.Value)
	}
	intlevel.Set(prev)
}

// PrintStats logs the tick accounting the original kernel prints via
// printf: idle vs. kernel ticks, live thread count, and outstanding
// pages.
func (s *Scheduler) PrintStats() {
	logging.Info("thread stats",
		"idle_ticks", s.idleTicks,
		"kernel_ticks", s.kernelTicks,
		"all_list_size", s.allList.Size(),
		"pages_allocated", s.pages.Allocated(),
	)
}
