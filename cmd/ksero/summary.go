package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	ksero "github.com/puzza007/ksero/pkg"
)

// printSummary writes the run counters as labelled lines
func printSummary(w io.Writer, counters ksero.RunCounters, elapsed time.Duration) {
	fmt.Fprintf(w, "Time                       : %.4f seconds\n", elapsed.Seconds())
	fmt.Fprintf(w, "Considered                 : %s\n", formatTally(counters.Considered))
	fmt.Fprintf(w, "Nibbled                    : %s\n", formatTally(counters.Nibbled))
	fmt.Fprintf(w, "Hashed                     : %s\n", formatTally(counters.Hashed))
	fmt.Fprintf(w, "Skipped due to unique size : %s\n", formatTally(counters.SkippedBySize))
	fmt.Fprintf(w, "Unreadable                 : %s\n", formatTally(counters.Unreadable))
	fmt.Fprintf(w, "Duplicate groups           : %s\n", humanize.Comma(int64(counters.Groups)))
	fmt.Fprintf(w, "Reclaimable                : %s\n", humanize.IBytes(counters.Reclaimable))
}

func formatTally(t ksero.Tally) string {
	return fmt.Sprintf("%s (%s)", humanize.Comma(int64(t.Files)), humanize.IBytes(t.Bytes))
}
