// Copyright 2025 The ipcperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/trng-labs/ipcperf/ipcstat"
)

// writeReport prints the per-method statistics report: one block per
// method, one sub-block per payload size, one fixed-width row per
// call count.
func writeReport(w io.Writer, datasets []*ipcstat.Dataset) {
	for i, d := range datasets {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "=== %s ===\n", d.Method)
		for _, payload := range d.Payloads() {
			fmt.Fprintf(w, "%d bytes/call:\n", payload)
			for _, st := range d.Stats(payload) {
				fmt.Fprintf(w, "  %7d calls: %8.3f ±%7.3f s  %10.1f ±%9.1f calls/s  CV %5.1f%%  n=%d\n",
					st.CallCount, st.MeanTime, st.StdTime,
					st.MeanThroughput, st.StdThroughput, st.CV, st.N)
			}
		}
	}
}

// writeComparison prints the side-by-side method comparison, one
// block per test point. Points nobody measured still appear, so a
// typo'd -points value is visible in the output.
func writeComparison(w io.Writer, results []ipcstat.PointResult) {
	for _, res := range results {
		fmt.Fprintf(w, "\n%d bytes/call, %d calls:\n", res.PayloadBytes, res.CallCount)
		if len(res.Entries) == 0 {
			fmt.Fprintf(w, "  no data\n")
			continue
		}
		for _, e := range res.Entries {
			fmt.Fprintf(w, "  %-10s %8.3f s  %10.1f calls/s  CV %5.1f%%\n",
				e.Method, e.Stats.MeanTime, e.Stats.MeanThroughput, e.Stats.CV)
		}
	}
}
