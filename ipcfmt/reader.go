// Copyright 2025 The ipcperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ipcfmt provides a reader for the flat measurement log format
// written by the IPC benchmark clients.
//
// Each line of a log records one timed run of a benchmark
// configuration. Two layouts exist and are distinguished by field
// count:
//
//	<payload_bytes> <call_count> <wall_time>
//	<run_id> <payload_bytes> <call_count> <wall_time>
//
// where wall_time has the shape "M:SS.ss" (minutes, colon, seconds
// with a fractional part), the format emitted by the shell "time"
// builtin that drives the benchmark clients. The run id, when
// present, is parsed but not retained.
//
// Blank lines are ignored. Lines with any other field count, or with
// non-numeric payload or call fields, are skipped; a log accumulates
// stray shell output often enough that this is ordinary. A malformed
// wall time is different: it means the log itself is corrupted, so
// the Reader stops and reports it as an error.
package ipcfmt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// A Measurement is a single timed run read from a measurement log.
// It is immutable once returned by a Reader.
type Measurement struct {
	// Method names the IPC mechanism this run exercised. It is
	// taken from Options.Method, not from the log itself; a log
	// file covers exactly one method.
	Method string

	// PayloadBytes is the number of bytes transferred per call.
	PayloadBytes int

	// CallCount is the number of calls issued in this run.
	CallCount int

	// WallSeconds is the run's wall time in seconds.
	WallSeconds float64

	fileName string
	line     int
}

// Pos returns the file name and 1-based line number this Measurement
// was read from. For Measurements not read from a file, it returns
// "", 0.
func (m Measurement) Pos() (fileName string, line int) {
	return m.fileName, m.line
}

// A SyntaxError reports a malformed wall time on a particular line of
// a measurement log.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

// DefaultNoiseFloor is the wall time below which the benchmark
// clients' clock resolution dominates the measurement. Runs this
// short say more about the clock than about the IPC mechanism.
const DefaultNoiseFloor = 0x1p-6 // 15.625ms

// Options configure a Reader.
type Options struct {
	// Method is the IPC mechanism name attached to every
	// Measurement read. It may be empty for single-method logs.
	Method string

	// NoiseFloor, if positive, drops measurements whose wall time
	// is below it. Dropped measurements are counted by
	// Reader.Filtered. Zero disables filtering.
	NoiseFloor float64
}

// A Reader reads the IPC measurement log format.
//
// Its API is modeled on bufio.Scanner: call Scan to advance to the
// next Measurement and Result to retrieve it, then check Err once
// Scan returns false.
type Reader struct {
	s        *bufio.Scanner
	opt      Options
	fileName string
	line     int
	err      error

	m        Measurement
	skipped  int
	filtered int
}

// NewReader constructs a Reader that parses the measurement log from r.
// fileName is used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string, opt Options) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName, opt)
	return reader
}

// Reset resets the Reader to begin reading from a new input.
func (r *Reader) Reset(ior io.Reader, fileName string, opt Options) {
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.s = bufio.NewScanner(ior)
	r.opt = opt
	r.fileName = fileName
	r.line = 0
	r.err = nil
	r.m = Measurement{}
	r.skipped = 0
	r.filtered = 0
}

// Scan advances the Reader to the next Measurement and reports
// whether one was read. The caller should use the Result method to
// get the Measurement. If Scan reaches EOF, hits a malformed wall
// time, or an I/O error occurs, it returns false, in which case the
// caller should use the Err method to check for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}

	for r.s.Scan() {
		r.line++
		f := strings.Fields(r.s.Text())
		switch len(f) {
		case 0:
			// Blank line.
			continue
		case 3:
			// payload calls time
		case 4:
			// run_id payload calls time
			if _, err := strconv.Atoi(f[0]); err != nil {
				r.skipped++
				continue
			}
			f = f[1:]
		default:
			r.skipped++
			continue
		}

		payload, err := strconv.Atoi(f[0])
		if err != nil || payload <= 0 {
			r.skipped++
			continue
		}
		calls, err := strconv.Atoi(f[1])
		if err != nil || calls <= 0 {
			r.skipped++
			continue
		}
		wall, err := ParseWallTime(f[2])
		if err != nil {
			r.err = &SyntaxError{r.fileName, r.line, err.Error()}
			return false
		}
		if r.opt.NoiseFloor > 0 && wall < r.opt.NoiseFloor {
			r.filtered++
			continue
		}

		r.m = Measurement{
			Method:       r.opt.Method,
			PayloadBytes: payload,
			CallCount:    calls,
			WallSeconds:  wall,
			fileName:     r.fileName,
			line:         r.line,
		}
		return true
	}

	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.line, err)
	}
	return false
}

// Result returns the Measurement that was just read by Scan.
func (r *Reader) Result() Measurement {
	return r.m
}

// Err returns the error that stopped Scan, if any. This is either a
// *SyntaxError for a malformed wall time or an I/O error.
func (r *Reader) Err() error {
	return r.err
}

// Skipped returns the number of non-blank lines rejected because they
// did not match either record layout.
func (r *Reader) Skipped() int {
	return r.skipped
}

// Filtered returns the number of measurements dropped by the noise
// floor.
func (r *Reader) Filtered() int {
	return r.filtered
}

// ParseWallTime parses a wall time of the form "M:SS.ss" and returns
// the total number of seconds, minutes*60 + seconds.
func ParseWallTime(s string) (float64, error) {
	mins, secs, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("malformed wall time %q: missing ':'", s)
	}
	m, err := strconv.Atoi(mins)
	if err != nil {
		return 0, fmt.Errorf("malformed wall time %q: bad minutes", s)
	}
	sec, err := strconv.ParseFloat(secs, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed wall time %q: bad seconds", s)
	}
	if m < 0 || sec < 0 {
		return 0, fmt.Errorf("malformed wall time %q: negative", s)
	}
	return float64(m)*60 + sec, nil
}
