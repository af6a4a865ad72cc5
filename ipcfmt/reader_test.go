// Copyright 2025 The ipcperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipcfmt

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseWallTime(t *testing.T) {
	check := func(in string, want float64) {
		t.Helper()
		got, err := ParseWallTime(in)
		if err != nil {
			t.Errorf("ParseWallTime(%q): unexpected error %v", in, err)
			return
		}
		if got != want {
			t.Errorf("ParseWallTime(%q) = %v, want %v", in, got, want)
		}
	}
	checkErr := func(in string) {
		t.Helper()
		if got, err := ParseWallTime(in); err == nil {
			t.Errorf("ParseWallTime(%q) = %v, want error", in, got)
		}
	}

	check("1:05.50", 65.5)
	check("0:00.01", 0.01)
	check("0:59.99", 59.99)
	check("12:00.00", 720)
	check("2:30", 150)

	checkErr("105.50")   // no colon
	checkErr("x:05.50")  // bad minutes
	checkErr("1:abc")    // bad seconds
	checkErr("1:05:50")  // extra colon
	checkErr("-1:05.00") // negative minutes
	checkErr("1:-5.00")  // negative seconds
	checkErr("")         // empty
}

// parseAll reads all measurements from data, failing the test on any
// reader error. Position information is wiped for comparisons.
func parseAll(t *testing.T, data string, opt Options) (ms []Measurement, r *Reader) {
	t.Helper()
	r = NewReader(strings.NewReader(data), "test", opt)
	for r.Scan() {
		m := r.Result()
		m.fileName, m.line = "", 0
		ms = append(ms, m)
	}
	if err := r.Err(); err != nil {
		t.Fatalf("parsing failed: %v", err)
	}
	return ms, r
}

func TestReaderBareLayout(t *testing.T) {
	got, r := parseAll(t, `
100 500 0:01.50
100 1000 0:03.00
65536 50000 1:05.50
`, Options{})
	want := []Measurement{
		{PayloadBytes: 100, CallCount: 500, WallSeconds: 1.5},
		{PayloadBytes: 100, CallCount: 1000, WallSeconds: 3},
		{PayloadBytes: 65536, CallCount: 50000, WallSeconds: 65.5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if r.Skipped() != 0 {
		t.Errorf("Skipped = %d, want 0 (blank lines are not rejections)", r.Skipped())
	}
}

func TestReaderTaggedLayout(t *testing.T) {
	got, _ := parseAll(t, "7 4096 1000 0:02.00\n8 4096 1000 0:02.50\n", Options{Method: "dbus"})
	want := []Measurement{
		{Method: "dbus", PayloadBytes: 4096, CallCount: 1000, WallSeconds: 2},
		{Method: "dbus", PayloadBytes: 4096, CallCount: 1000, WallSeconds: 2.5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestReaderStructuralMismatch(t *testing.T) {
	got, r := parseAll(t, `
100 500
100 500 0:01.00
starting benchmark run with five whitespace separated words
x 500 0:01.00
100 y 0:01.00
z 100 500 0:01.00
`, Options{})
	want := []Measurement{
		{PayloadBytes: 100, CallCount: 500, WallSeconds: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if r.Skipped() != 5 {
		t.Errorf("Skipped = %d, want 5", r.Skipped())
	}
}

func TestReaderNonPositiveFields(t *testing.T) {
	got, r := parseAll(t, "0 500 0:01.00\n-100 500 0:01.00\n100 0 0:01.00\n", Options{})
	if len(got) != 0 {
		t.Errorf("got %+v, want no measurements", got)
	}
	if r.Skipped() != 3 {
		t.Errorf("Skipped = %d, want 3", r.Skipped())
	}
}

func TestReaderMalformedTime(t *testing.T) {
	r := NewReader(strings.NewReader("100 500 0:01.00\n100 1000 bogus\n100 2000 0:02.00\n"), "results.txt", Options{})
	var ms []Measurement
	for r.Scan() {
		ms = append(ms, r.Result())
	}
	if len(ms) != 1 {
		t.Fatalf("got %d measurements before the error, want 1", len(ms))
	}
	err := r.Err()
	serr, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("Err() = %v, want *SyntaxError", err)
	}
	if file, line := serr.Pos(); file != "results.txt" || line != 2 {
		t.Errorf("error at %s:%d, want results.txt:2", file, line)
	}
	// The rest of the file is not processed.
	if r.Scan() {
		t.Error("Scan returned true after a malformed wall time")
	}
}

func TestReaderNoiseFloor(t *testing.T) {
	data := "100 500 0:00.01\n100 500 0:01.00\n"

	got, r := parseAll(t, data, Options{NoiseFloor: DefaultNoiseFloor})
	want := []Measurement{
		{PayloadBytes: 100, CallCount: 500, WallSeconds: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if r.Filtered() != 1 {
		t.Errorf("Filtered = %d, want 1", r.Filtered())
	}

	// Filtering is off by default.
	got, r = parseAll(t, data, Options{})
	if len(got) != 2 || r.Filtered() != 0 {
		t.Errorf("with no floor got %d measurements (%d filtered), want 2 (0 filtered)", len(got), r.Filtered())
	}
}

func TestReaderPos(t *testing.T) {
	r := NewReader(strings.NewReader("\n100 500 0:01.00\n"), "results.txt", Options{})
	if !r.Scan() {
		t.Fatalf("Scan failed: %v", r.Err())
	}
	if file, line := r.Result().Pos(); file != "results.txt" || line != 2 {
		t.Errorf("Pos() = %s:%d, want results.txt:2", file, line)
	}
}
