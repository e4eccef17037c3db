// kthreads simulates a Pintos-style preemptive kernel thread scheduler.
//
// Commands:
//
//	demo priority-donation  - run the priority-donation scenario
//	demo mlfqs-fairness     - run the MLFQS priority-decay scenario
//	demo round-robin        - run the FIFO round-robin scenario
//	version                 - print version information
package main

import (
	"fmt"
	"os"

	"kthreads/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "kthreads:", err)
		os.Exit(1)
	}
}
