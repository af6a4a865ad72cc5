// Copyright 2025 The ipcperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"reflect"
	"strings"
	"testing"

	"github.com/trng-labs/ipcperf/ipcfmt"
	"github.com/trng-labs/ipcperf/ipcstat"
)

func testCollection() *ipcstat.Collection {
	var c ipcstat.Collection
	add := func(method string, payload, calls int, wall float64) {
		c.Add(ipcfmt.Measurement{Method: method, PayloadBytes: payload, CallCount: calls, WallSeconds: wall})
	}
	add("dbus", 100, 500, 0.5)
	add("dbus", 100, 500, 0.5)
	add("dbus", 100, 1000, 3)
	add("dbus", 4096, 500, 65.5)
	return &c
}

func TestWriteReport(t *testing.T) {
	c := testCollection()
	var buf strings.Builder
	writeReport(&buf, []*ipcstat.Dataset{c.Dataset("dbus")})

	want := `=== dbus ===
100 bytes/call:
      500 calls:    0.500 ±  0.000 s      1000.0 ±      0.0 calls/s  CV   0.0%  n=2
     1000 calls:    3.000 ±  0.000 s       333.3 ±      0.0 calls/s  CV   0.0%  n=1
4096 bytes/call:
      500 calls:   65.500 ±  0.000 s         7.6 ±      0.0 calls/s  CV   0.0%  n=1
`
	if got := buf.String(); got != want {
		t.Errorf("report mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteComparison(t *testing.T) {
	c := testCollection()
	datasets := map[string]*ipcstat.Dataset{"dbus": c.Dataset("dbus")}
	results := ipcstat.Compare(datasets, []string{"dbus", "socket"}, []ipcstat.TestPoint{
		{PayloadBytes: 4096, CallCount: 500},
		{PayloadBytes: 4096, CallCount: 50000},
	})

	var buf strings.Builder
	writeComparison(&buf, results)

	want := `
4096 bytes/call, 500 calls:
  dbus         65.500 s         7.6 calls/s  CV   0.0%

4096 bytes/call, 50000 calls:
  no data
`
	if got := buf.String(); got != want {
		t.Errorf("comparison mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestParsePoints(t *testing.T) {
	got, err := parsePoints("4096:50000,100:500")
	if err != nil {
		t.Fatal(err)
	}
	want := []ipcstat.TestPoint{
		{PayloadBytes: 4096, CallCount: 50000},
		{PayloadBytes: 100, CallCount: 500},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if got, err := parsePoints(""); err != nil || got != nil {
		t.Errorf("parsePoints(\"\") = %v, %v, want nil, nil", got, err)
	}
	for _, bad := range []string{"4096", "4096:", ":500", "a:500", "4096:b", "0:500", "4096:-1"} {
		if _, err := parsePoints(bad); err == nil {
			t.Errorf("parsePoints(%q) succeeded, want error", bad)
		}
	}
}

func TestMethodOrder(t *testing.T) {
	c := testCollection()
	datasets := []*ipcstat.Dataset{c.Dataset("dbus")}
	if got := methodOrder("socket,dbus", datasets); !reflect.DeepEqual(got, []string{"socket", "dbus"}) {
		t.Errorf("methodOrder with flag = %v", got)
	}
	if got := methodOrder("", datasets); !reflect.DeepEqual(got, []string{"dbus"}) {
		t.Errorf("methodOrder default = %v", got)
	}
}
