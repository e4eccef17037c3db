package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"kthreads/thread"
	"kthreads/timer"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scheduler scenario against a simulated machine",
}

var donationCmd = &cobra.Command{
	Use:   "priority-donation",
	Short: "Demonstrate priority donation through a contended lock",
	Args:  cobra.NoArgs,
	RunE:  runDonationDemo,
}

var fairnessCmd = &cobra.Command{
	Use:   "mlfqs-fairness",
	Short: "Demonstrate MLFQS priority decay under competing CPU-bound threads",
	Args:  cobra.NoArgs,
	RunE:  runFairnessDemo,
}

var roundRobinCmd = &cobra.Command{
	Use:   "round-robin",
	Short: "Demonstrate FIFO round-robin ordering within a priority band",
	Args:  cobra.NoArgs,
	RunE:  runRoundRobinDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.AddCommand(donationCmd)
	demoCmd.AddCommand(fairnessCmd)
	demoCmd.AddCommand(roundRobinCmd)
}

// runDonationDemo recreates the classic priority-inversion scenario: a
// low-priority thread holds a lock, a high-priority thread blocks on
// it, and the low thread briefly inherits the higher priority until it
// releases the lock.
func runDonationDemo(cmd *cobra.Command, args []string) error {
	s := thread.New(false)
	lock := s.NewLock()
	hold := s.NewSemaphore(0)
	done := s.NewSemaphore(0)

	_, err := s.Create("low", 10, func(any) {
		lock.Acquire()
		fmt.Println("low: acquired the lock")
		hold.Down()
		fmt.Printf("low: releasing the lock at priority %d\n", s.GetPriority())
		lock.Release()
		done.Up()
	}, nil)
	if err != nil {
		return fmt.Errorf("create low: %w", err)
	}

	// Drop main below both demo threads so low actually runs and takes
	// the lock before high ever tries to acquire it.
	s.SetPriority(5)

	if _, err := s.Create("high", 40, func(any) {
		fmt.Println("high: blocking on the contended lock")
		lock.Acquire()
		fmt.Println("high: acquired the lock")
		lock.Release()
		done.Up()
	}, nil); err != nil {
		return fmt.Errorf("create high: %w", err)
	}

	fmt.Println("main: releasing low to finish its critical section")
	hold.Up()
	done.Down()
	done.Down()

	s.SetPriority(thread.PriDefault)
	printStatsTable(s)
	return nil
}

// runFairnessDemo runs several CPU-bound threads of differing niceness
// under MLFQS and shows recent_cpu pulling their priorities apart: the
// nicer thread falls behind, the busier thread gets throttled.
func runFairnessDemo(cmd *cobra.Command, args []string) error {
	s := thread.New(true)
	s.Start()

	freq := TimerFreq()
	// ts is the tick source each worker drives itself: onTick is just
	// Scheduler.OnTick, so Tick() plays the role of a timer interrupt
	// firing while the calling thread is the one actually running.
	var ts *timer.Source
	ts = timer.NewSource(freq, func(n uint64) { s.OnTick(n, ts.Freq()) })

	niceValues := []int{0, 5, 10}
	done := s.NewSemaphore(0)

	for _, nice := range niceValues {
		nice := nice
		if _, err := s.Create(fmt.Sprintf("nice%d", nice), thread.PriDefault, func(any) {
			s.SetNice(nice)
			for i := 0; i < 40; i++ {
				ts.Tick()
			}
			fmt.Printf("thread %q finished: priority=%d recent_cpu=%d\n", s.Name(), s.GetPriority(), s.GetRecentCPU())
			done.Up()
		}, nil); err != nil {
			return fmt.Errorf("create nice%d: %w", nice, err)
		}
	}

	for range niceValues {
		done.Down()
	}

	printStatsTable(s)
	return nil
}

// runRoundRobinDemo creates three equal-priority threads and has them
// cooperatively yield several times each, showing that the ready queue
// dispatches strictly in FIFO order within a priority band. Runs under
// the priority-donation policy: SetPriority is a no-op under MLFQS, so
// this scenario would deadlock main against the three worker threads if
// run under it.
func runRoundRobinDemo(cmd *cobra.Command, args []string) error {
	s := thread.New(false)

	var order []string
	done := s.NewSemaphore(0)

	for _, name := range []string{"A", "B", "C"} {
		name := name
		if _, err := s.Create(name, 20, func(any) {
			for i := 0; i < 3; i++ {
				order = append(order, name)
				s.Yield()
			}
			done.Up()
		}, nil); err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
	}

	// Dropping main below the three demo threads lets them interleave
	// round-robin until all three finish.
	s.SetPriority(5)

	for i := 0; i < 3; i++ {
		done.Down()
	}

	fmt.Println("dispatch order:", order)
	s.SetPriority(thread.PriDefault)
	printStatsTable(s)
	return nil
}
