// Copyright 2025 The ipcperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipcfmt

import (
	"os"
	"path/filepath"
	"strings"
)

// A Files reads measurements from a sequence of input log files, one
// file per IPC method.
//
// Entries in Paths may be of the form method=path, in which case the
// method part becomes the Method of every Measurement read from that
// path. Otherwise the method defaults to the file's base name without
// its extension, so "results/dbus.txt" becomes method "dbus".
//
// A path that does not exist contributes no measurements; it is
// recorded and iteration continues with the next path, since one
// missing method should not abort a whole comparison. A file whose
// wall times are malformed is abandoned at the first bad line; the
// error is recorded per method in Failed and iteration likewise
// continues.
type Files struct {
	// Paths is the list of log files to read, optionally labeled
	// as method=path.
	Paths []string

	// Options configure the Reader for each file. Options.Method
	// is overridden per file.
	Options Options

	// inputs is the sequence of remaining inputs, or nil if this
	// Files has not started yet.
	inputs []input
	cur    input

	reader   Reader
	file     *os.File
	missing  []string
	failed   map[string]error
	skipped  int
	filtered int
	err      error
}

type input struct {
	path   string
	method string
}

// init does first-use initialization of f.
func (f *Files) init() {
	f.inputs = []input{}
	for _, path := range f.Paths {
		method := ""
		if i := strings.Index(path, "="); i >= 0 {
			method, path = path[:i], path[i+1:]
		}
		if method == "" {
			base := filepath.Base(path)
			method = strings.TrimSuffix(base, filepath.Ext(base))
		}
		f.inputs = append(f.inputs, input{path, method})
	}
}

// Scan advances to the next Measurement in the sequence of files and
// reports whether one was read. The caller should use the Result
// method to get the Measurement. When Scan returns false, the caller
// should use the Err method to check for errors.
func (f *Files) Scan() bool {
	if f.err != nil {
		return false
	}
	if f.inputs == nil {
		f.init()
	}

	for {
		if f.file == nil {
			// Open the next file.
			if len(f.inputs) == 0 {
				return false
			}
			f.cur = f.inputs[0]
			f.inputs = f.inputs[1:]

			file, err := os.Open(f.cur.path)
			if err != nil {
				if os.IsNotExist(err) {
					f.missing = append(f.missing, f.cur.path)
					continue
				}
				f.err = err
				return false
			}
			f.file = file

			opt := f.Options
			opt.Method = f.cur.method
			f.reader.Reset(file, f.cur.path, opt)
		}

		if f.reader.Scan() {
			return true
		}
		if err := f.reader.Err(); err != nil {
			// A corrupted log abandons the rest of that
			// file but not the rest of the run.
			if f.failed == nil {
				f.failed = make(map[string]error)
			}
			f.failed[f.cur.method] = err
		}
		f.skipped += f.reader.Skipped()
		f.filtered += f.reader.Filtered()
		f.file.Close()
		f.file = nil
	}
}

// Result returns the Measurement that was just read by Scan.
func (f *Files) Result() Measurement {
	return f.reader.Result()
}

// Err returns the I/O error that stopped Scan, if any. Missing files
// and malformed wall times are not reported here; see Missing and
// Failed.
func (f *Files) Err() error {
	return f.err
}

// Missing returns the paths that could not be opened because they do
// not exist.
func (f *Files) Missing() []string {
	return f.missing
}

// Failed returns, per method, the error that abandoned that method's
// file, or nil if every file was read to completion.
//
// A method that appears here may still have contributed the
// measurements read before the bad line; callers that want
// all-or-nothing semantics should discard that method's data.
func (f *Files) Failed() map[string]error {
	return f.failed
}

// Skipped returns the total number of structurally mismatched lines
// skipped across all files read so far.
func (f *Files) Skipped() int {
	return f.skipped
}

// Filtered returns the total number of measurements dropped by the
// noise floor across all files read so far.
func (f *Files) Filtered() int {
	return f.filtered
}
