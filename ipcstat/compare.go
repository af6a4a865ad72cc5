// Copyright 2025 The ipcperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipcstat

// A TestPoint names one (payload bytes, call count) configuration at
// which methods are compared side by side.
type TestPoint struct {
	PayloadBytes int
	CallCount    int
}

// An Entry is one method's statistics at a TestPoint.
type Entry struct {
	Method string
	Stats  Stats
}

// A PointResult is the cross-method comparison at one TestPoint. Its
// Entries follow the caller's method order; methods without an exact
// match for the point are absent.
type PointResult struct {
	TestPoint
	Entries []Entry
}

// Compare joins the datasets at each test point. Lookup is exact
// match on (payload bytes, call count); a method lacking the point is
// omitted from that point's result rather than reported as an error.
//
// order gives the methods to report and their output order. Methods
// in order without a dataset contribute nothing.
func Compare(datasets map[string]*Dataset, order []string, points []TestPoint) []PointResult {
	results := make([]PointResult, 0, len(points))
	for _, pt := range points {
		res := PointResult{TestPoint: pt}
		for _, method := range order {
			d := datasets[method]
			if d == nil {
				continue
			}
			st, ok := d.Lookup(pt.PayloadBytes, pt.CallCount)
			if !ok {
				continue
			}
			res.Entries = append(res.Entries, Entry{method, st})
		}
		results = append(results, res)
	}
	return results
}
