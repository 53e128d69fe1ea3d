package utils

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Verbose controls whether timing statistics are printed.
// Set to false to suppress output.
var Verbose = true

// Output is the writer where timing statistics are printed.
// Defaults to os.Stdout.
var Output io.Writer = os.Stdout

// ForwardStats holds timing information for an inference run.
type ForwardStats struct {
	DataLoadingTime time.Duration
	ModelInitTime   time.Duration
	ForwardPassTime time.Duration
	Batches         int
}

// Print writes the collected timings, including the per-batch average.
func (s *ForwardStats) Print() {
	if !Verbose {
		return
	}
	fmt.Fprintf(Output, "Data loading: %.3fs\n", s.DataLoadingTime.Seconds())
	fmt.Fprintf(Output, "Model init:   %.3fs\n", s.ModelInitTime.Seconds())
	fmt.Fprintf(Output, "Forward pass: %.3fs over %d batches", s.ForwardPassTime.Seconds(), s.Batches)
	if s.Batches > 0 {
		fmt.Fprintf(Output, " (%.1fms/batch)", s.ForwardPassTime.Seconds()*1000/float64(s.Batches))
	}
	fmt.Fprintln(Output)
}
