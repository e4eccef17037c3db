package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"golang.org/x/term"

	"kthreads/thread"
)

// wideNameColumn is the minimum terminal width, in columns, below which
// the thread-name column is dropped to keep the table from wrapping.
const wideNameColumn = 100

// printStatsTable renders one row per live thread (tid, name, status,
// priority, nice) to stdout, probing the terminal width the same way a
// console program sizes itself to avoid wrapping a wide table onto a
// narrow screen. Falls back to a fixed width when stdout isn't a TTY
// (piped output, CI logs).
func printStatsTable(s *thread.Scheduler) {
	width := 80
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if width >= wideNameColumn {
		fmt.Fprintln(w, "TID\tNAME\tSTATUS\tPRIORITY\tNICE")
	} else {
		fmt.Fprintln(w, "TID\tSTATUS\tPRIORITY\tNICE")
	}

	s.Foreach(func(t *thread.TCB) {
		if width >= wideNameColumn {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\n", t.TID(), t.Name(), t.Status(), t.Priority(), t.Nice())
		} else {
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\n", t.TID(), t.Status(), t.Priority(), t.Nice())
		}
	})

	w.Flush()
	s.PrintStats()
}
