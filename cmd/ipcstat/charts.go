// Copyright 2025 The ipcperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"

	"github.com/trng-labs/ipcperf/ipcchart"
	"github.com/trng-labs/ipcperf/ipcstat"
)

// writeCharts renders the per-method charts, and comparison overlays
// when more than one method is present, into dir.
func writeCharts(dir string, datasets []*ipcstat.Dataset, boxCalls int) error {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return err
	}
	cfg := ipcchart.Config{}

	save := func(p *plot.Plot, err error, name string) error {
		if err != nil {
			return err
		}
		if p == nil {
			return nil
		}
		return ipcchart.WritePNG(cfg, p, filepath.Join(dir, name))
	}

	for _, d := range datasets {
		payloads := d.Payloads()
		p, err := ipcchart.TimeChart(cfg, d, payloads)
		if err := save(p, err, d.Method+"_times.png"); err != nil {
			return err
		}
		p, err = ipcchart.ThroughputChart(cfg, d, payloads)
		if err := save(p, err, d.Method+"_throughput.png"); err != nil {
			return err
		}
		p, err = ipcchart.CVChart(cfg, d, payloads)
		if err := save(p, err, d.Method+"_cv.png"); err != nil {
			return err
		}
		if boxCalls > 0 {
			p, err = ipcchart.BoxChart(cfg, d, payloads, boxCalls)
			if err := save(p, err, fmt.Sprintf("%s_box_%d.png", d.Method, boxCalls)); err != nil {
				return err
			}
		}
	}

	if len(datasets) < 2 {
		return nil
	}
	for _, payload := range allPayloads(datasets) {
		p, err := ipcchart.CompareTimeChart(cfg, datasets, payload)
		if err := save(p, err, fmt.Sprintf("compare_times_%d.png", payload)); err != nil {
			return err
		}
		p, err = ipcchart.CompareThroughputChart(cfg, datasets, payload)
		if err := save(p, err, fmt.Sprintf("compare_throughput_%d.png", payload)); err != nil {
			return err
		}
	}
	return nil
}

// allPayloads returns the union of the datasets' payload sizes,
// ascending.
func allPayloads(datasets []*ipcstat.Dataset) []int {
	seen := make(map[int]bool)
	var payloads []int
	for _, d := range datasets {
		for _, payload := range d.Payloads() {
			if !seen[payload] {
				seen[payload] = true
				payloads = append(payloads, payload)
			}
		}
	}
	sort.Ints(payloads)
	return payloads
}
