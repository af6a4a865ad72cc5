// Copyright 2025 The ipcperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Ipcstat summarizes IPC benchmark measurement logs.
//
// Usage:
//
//	ipcstat [options] [method=]file.txt...
//
// Each input file holds the repeated timed runs of one IPC method,
// one run per line, in either of the layouts
//
//	<payload_bytes> <call_count> <M:SS.ss>
//	<run_id> <payload_bytes> <call_count> <M:SS.ss>
//
// The method name defaults to the file's base name; a "method=path"
// argument overrides it.
//
// For every method, ipcstat prints mean and standard deviation of
// wall time, derived throughput, and the coefficient of variation for
// each (payload size, call count) configuration, call counts
// ascending. With -points it also prints side-by-side method
// comparisons at exact configurations, and with -png it writes
// per-method and comparison charts.
//
// A missing input file is reported and skipped; a file with a
// malformed wall time is reported and its method dropped. Whatever
// could be computed is still printed.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/trng-labs/ipcperf/ipcfmt"
	"github.com/trng-labs/ipcperf/ipcstat"
)

var exit = os.Exit // replaced during testing

func usage() {
	fmt.Fprintf(os.Stderr, "usage: ipcstat [options] [method=]file.txt...\n")
	fmt.Fprintf(os.Stderr, "options:\n")
	flag.PrintDefaults()
	exit(2)
}

var (
	flagFloor  = flag.Float64("floor", 0, "drop runs shorter than `seconds`; 0 disables (the clients' clock floor is 2^-6)")
	flagDev    = flag.String("dev", "population", "standard deviation `kind`: population or sample")
	flagPoints = flag.String("points", "", "comparison `points`, payload:calls[,payload:calls...]")
	flagOrder  = flag.String("order", "", "method `order` for comparison output (comma-separated; default input order)")
	flagPNG    = flag.String("png", "", "write charts into `dir`")
	flagBox    = flag.Int("box", 0, "with -png, also chart the raw time distribution at `calls` calls")
)

var deviationNames = map[string]ipcstat.Deviation{
	"population": ipcstat.PopulationDeviation,
	"sample":     ipcstat.SampleDeviation,
}

func main() {
	log.SetPrefix("ipcstat: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()

	dev, ok := deviationNames[strings.ToLower(*flagDev)]
	if flag.NArg() < 1 || !ok {
		flag.Usage()
	}
	points, err := parsePoints(*flagPoints)
	if err != nil {
		log.Fatal(err)
	}

	files := ipcfmt.Files{
		Paths:   flag.Args(),
		Options: ipcfmt.Options{NoiseFloor: *flagFloor},
	}
	c := ipcstat.Collection{Deviation: dev}
	for files.Scan() {
		c.Add(files.Result())
	}
	if err := files.Err(); err != nil {
		log.Fatal(err)
	}
	for _, path := range files.Missing() {
		fmt.Fprintf(os.Stderr, "ipcstat: %s: no such file, continuing without it\n", path)
	}
	failed := files.Failed()
	for _, method := range sortedKeys(failed) {
		fmt.Fprintf(os.Stderr, "ipcstat: %v, dropping method %s\n", failed[method], method)
	}

	var datasets []*ipcstat.Dataset
	byMethod := make(map[string]*ipcstat.Dataset)
	for _, method := range c.Methods() {
		if _, bad := failed[method]; bad {
			continue
		}
		d := c.Dataset(method)
		if d.Len() == 0 {
			continue
		}
		datasets = append(datasets, d)
		byMethod[method] = d
	}
	if len(datasets) == 0 {
		log.Print("no measurements")
		exit(1)
	}

	writeReport(os.Stdout, datasets)

	if len(points) > 0 {
		order := methodOrder(*flagOrder, datasets)
		writeComparison(os.Stdout, ipcstat.Compare(byMethod, order, points))
	}

	if *flagPNG != "" {
		if err := writeCharts(*flagPNG, datasets, *flagBox); err != nil {
			log.Fatal(err)
		}
	}
}

// methodOrder resolves the comparison ordering: the -order flag when
// given, otherwise the input order of the datasets.
func methodOrder(flagVal string, datasets []*ipcstat.Dataset) []string {
	if flagVal != "" {
		return strings.Split(flagVal, ",")
	}
	order := make([]string, len(datasets))
	for i, d := range datasets {
		order[i] = d.Method
	}
	return order
}

// parsePoints parses the -points syntax, payload:calls pairs
// separated by commas.
func parsePoints(s string) ([]ipcstat.TestPoint, error) {
	if s == "" {
		return nil, nil
	}
	var points []ipcstat.TestPoint
	for _, part := range strings.Split(s, ",") {
		payloadStr, callsStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("bad point %q: want payload:calls", part)
		}
		payload, err := strconv.Atoi(payloadStr)
		if err != nil || payload <= 0 {
			return nil, fmt.Errorf("bad point %q: bad payload size", part)
		}
		calls, err := strconv.Atoi(callsStr)
		if err != nil || calls <= 0 {
			return nil, fmt.Errorf("bad point %q: bad call count", part)
		}
		points = append(points, ipcstat.TestPoint{PayloadBytes: payload, CallCount: calls})
	}
	return points, nil
}

func sortedKeys(m map[string]error) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
