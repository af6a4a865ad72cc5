// Copyright 2025 The ipcperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ipcstat aggregates IPC benchmark measurements into
// per-configuration summary statistics.
//
// Repeated runs of the same configuration are bucketed by a composite
// key of (method, payload bytes, call count). For each bucket the
// package derives the mean and standard deviation of wall time, the
// mean and standard deviation of throughput, the coefficient of
// variation, and the quartiles of wall time.
//
// Throughput is a per-run quantity: each run contributes
// call_count/wall_seconds, and the reductions run over those ratios.
// call_count divided by the mean wall time is a different (and wrong)
// number whenever the run times vary.
package ipcstat

import (
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"

	"github.com/trng-labs/ipcperf/ipcfmt"
)

// A Key identifies one benchmark configuration: a payload size and a
// call count measured for one IPC method.
type Key struct {
	Method       string
	PayloadBytes int
	CallCount    int
}

// A Deviation selects how standard deviations are computed.
type Deviation int

const (
	// PopulationDeviation divides by N. It is the default, and is
	// what the coefficient of variation and chart error bars use.
	PopulationDeviation Deviation = iota

	// SampleDeviation divides by N-1.
	SampleDeviation
)

// A Collection accumulates measurements and buckets them by Key.
//
// The zero Collection is ready to use. Measurements may be added in
// any order; ordering of the derived statistics is imposed when a
// Dataset is built.
type Collection struct {
	// Deviation selects the standard deviation definition used
	// for derived statistics.
	Deviation Deviation

	groups  map[Key]*group
	methods []string
}

// A group holds the raw per-run values for one Key.
type group struct {
	times       []float64
	throughputs []float64
}

// Add adds one measurement to its group.
func (c *Collection) Add(m ipcfmt.Measurement) {
	if c.groups == nil {
		c.groups = make(map[Key]*group)
	}
	key := Key{m.Method, m.PayloadBytes, m.CallCount}
	g := c.groups[key]
	if g == nil {
		g = new(group)
		c.groups[key] = g
		c.addMethod(m.Method)
	}
	g.times = append(g.times, m.WallSeconds)

	// Derive throughput now, per run, before any averaging.
	tput := 0.0
	if m.WallSeconds > 0 {
		tput = float64(m.CallCount) / m.WallSeconds
	}
	g.throughputs = append(g.throughputs, tput)
}

func (c *Collection) addMethod(method string) {
	for _, m := range c.methods {
		if m == method {
			return
		}
	}
	c.methods = append(c.methods, method)
}

// Methods returns the method names seen by Add, in order of first
// appearance.
func (c *Collection) Methods() []string {
	return c.methods
}

// Stats summarizes the repeated runs of one Key. It is a pure
// function of the group's measurements and is never mutated once
// computed.
type Stats struct {
	Key

	// N is the number of runs in the group.
	N int

	// MeanTime and StdTime summarize wall time in seconds.
	MeanTime, StdTime float64

	// MeanThroughput and StdThroughput summarize the per-run
	// throughputs in calls per second.
	MeanThroughput, StdThroughput float64

	// CV is StdTime as a percentage of MeanTime, or 0 when
	// MeanTime is 0.
	CV float64

	// Q1Time, MedianTime, and Q3Time are the quartiles of wall
	// time.
	Q1Time, MedianTime, Q3Time float64
}

func (c *Collection) newStats(key Key, g *group) Stats {
	times := stats.Sample{Xs: g.times}
	times.Sort()
	tputs := stats.Sample{Xs: g.throughputs}

	meanTime := times.Mean()
	stdTime := c.stdDev(times, meanTime)

	st := Stats{
		Key:            key,
		N:              len(g.times),
		MeanTime:       meanTime,
		StdTime:        stdTime,
		MeanThroughput: tputs.Mean(),
		StdThroughput:  c.stdDev(tputs, tputs.Mean()),
		Q1Time:         times.Quantile(0.25),
		MedianTime:     times.Quantile(0.5),
		Q3Time:         times.Quantile(0.75),
	}
	if st.MeanTime > 0 {
		st.CV = st.StdTime / st.MeanTime * 100
	}
	return st
}

func (c *Collection) stdDev(s stats.Sample, mean float64) float64 {
	n := len(s.Xs)
	if n < 2 {
		return 0
	}
	if c.Deviation == SampleDeviation {
		return s.StdDev()
	}
	var sum float64
	for _, x := range s.Xs {
		d := x - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(n))
}

// A Dataset holds the derived statistics for one method, grouped by
// payload size and ordered by ascending call count within each
// payload size. It is immutable after construction.
type Dataset struct {
	Method string

	payloads []int
	groups   map[int][]Stats
	times    map[Key][]float64
}

// Dataset derives the statistics for one method from the measurements
// added so far. The result shares no state with the Collection;
// adding further measurements does not affect it.
func (c *Collection) Dataset(method string) *Dataset {
	d := &Dataset{
		Method: method,
		groups: make(map[int][]Stats),
		times:  make(map[Key][]float64),
	}
	for key, g := range c.groups {
		if key.Method != method {
			continue
		}
		d.groups[key.PayloadBytes] = append(d.groups[key.PayloadBytes], c.newStats(key, g))
		d.times[key] = append([]float64(nil), g.times...)
	}
	for payload, ss := range d.groups {
		sort.Slice(ss, func(i, j int) bool { return ss[i].CallCount < ss[j].CallCount })
		d.payloads = append(d.payloads, payload)
	}
	sort.Ints(d.payloads)
	return d
}

// Payloads returns the payload sizes present in d, ascending.
func (d *Dataset) Payloads() []int {
	return d.payloads
}

// Stats returns the statistics for one payload size, ordered by
// ascending call count. It returns nil if d has no data for payload.
func (d *Dataset) Stats(payload int) []Stats {
	return d.groups[payload]
}

// Lookup returns the statistics for an exact (payload bytes, call
// count) configuration. There is no interpolation: ok is false unless
// that exact configuration was measured.
func (d *Dataset) Lookup(payload, calls int) (Stats, bool) {
	for _, st := range d.groups[payload] {
		if st.CallCount == calls {
			return st, true
		}
	}
	return Stats{}, false
}

// Times returns the raw wall times, sorted ascending, for an exact
// configuration, or nil if it was not measured.
func (d *Dataset) Times(payload, calls int) []float64 {
	return d.times[Key{d.Method, payload, calls}]
}

// Len returns the number of configurations in d.
func (d *Dataset) Len() int {
	n := 0
	for _, ss := range d.groups {
		n += len(ss)
	}
	return n
}

// MaxMeanTime returns the largest mean wall time across the given
// payload sizes, or across all of d's payload sizes if none are
// given. It returns 0 for an empty selection.
func (d *Dataset) MaxMeanTime(payloads ...int) float64 {
	if len(payloads) == 0 {
		payloads = d.payloads
	}
	max := 0.0
	for _, payload := range payloads {
		for _, st := range d.groups[payload] {
			if st.MeanTime > max {
				max = st.MeanTime
			}
		}
	}
	return max
}
