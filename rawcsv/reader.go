// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rawcsv reads the raw measurement tables that Criterion-style
// benchmark harnesses write next to each run, one row per
// iteration-trial:
//
//	group,function,value,throughput_num,throughput_type,sample_measured_value,unit,iteration_count
//
// Only the columns needed to recover per-iteration durations are
// interpreted; the rest are carried through untouched.
package rawcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Column indexes of the interpreted fields.
const (
	ColSuite = 0
	ColGroup = 1
	ColCase  = 2
	ColValue = 5
	ColUnit  = 6
	ColIters = 7

	// NumCols is the minimum number of fields a row must have.
	NumCols = ColIters + 1
)

// A Reader reads a raw measurement table.
//
// Its API is modeled on bufio.Scanner. The Result returned by Result
// is overwritten by the next call to Scan; a caller should copy
// anything it needs to retain.
type Reader struct {
	// Header indicates that the first row of the input is a column
	// header and must be skipped. It must be set before the first
	// call to Scan.
	Header bool

	c   *csv.Reader
	err error

	started bool
	result  Result
}

// A Result is one parsed row of a raw measurement table.
type Result struct {
	// Suite, Group and Case identify the benchmarked code path.
	Suite, Group, Case string

	// Value is the measured duration for Iters iterations,
	// expressed in Unit.
	Value float64

	// Unit is the raw unit string. It is not validated by the
	// Reader.
	Unit string

	// Iters is the number of iterations Value covers.
	Iters float64

	fileName string
	line     int
}

// Pos returns the file name and line number of r.
func (r *Result) Pos() (fileName string, line int) {
	return r.fileName, r.line
}

// A SyntaxError represents a syntax error on a particular line of a
// raw measurement table.
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

// NewReader constructs a reader to parse a raw measurement table from r.
// fileName is used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName)
	return reader
}

// Reset resets the reader to begin reading from a new input.
// It does not change Header.
func (r *Reader) Reset(ior io.Reader, fileName string) {
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.c = csv.NewReader(ior)
	r.c.FieldsPerRecord = -1
	r.c.TrimLeadingSpace = true
	r.c.ReuseRecord = true
	r.err = nil
	r.started = false
	r.result = Result{fileName: fileName}
}

// Scan advances the reader to the next row and reports whether a row
// was read. The caller should use the Result method to get the row.
// If Scan reaches EOF, or a row cannot be parsed, it returns false, in
// which case the caller should use the Err method to check for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	if !r.started {
		r.started = true
		if r.Header {
			if _, ok := r.read(); !ok {
				return false
			}
		}
	}
	rec, ok := r.read()
	if !ok {
		return false
	}
	if err := r.parse(rec); err != nil {
		r.err = err
		return false
	}
	return true
}

// read returns the next raw record, recording any error in r.err.
func (r *Reader) read() ([]string, bool) {
	rec, err := r.c.Read()
	if err == io.EOF {
		return nil, false
	}
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			r.err = &SyntaxError{r.result.fileName, pe.StartLine, pe.Err.Error()}
		} else {
			r.err = fmt.Errorf("%s: %w", r.result.fileName, err)
		}
		return nil, false
	}
	r.result.line, _ = r.c.FieldPos(0)
	return rec, true
}

func (r *Reader) parse(rec []string) *SyntaxError {
	if len(rec) < NumCols {
		return r.newSyntaxError(fmt.Sprintf("want at least %d columns, got %d", NumCols, len(rec)))
	}
	res := &r.result
	res.Suite, res.Group, res.Case = rec[ColSuite], rec[ColGroup], rec[ColCase]
	res.Unit = strings.TrimSpace(rec[ColUnit])

	var err error
	if res.Value, err = parseFloat(rec[ColValue]); err != nil {
		return r.newSyntaxError(fmt.Sprintf("parsing measured value: %v", err))
	}
	if res.Iters, err = parseFloat(rec[ColIters]); err != nil {
		return r.newSyntaxError(fmt.Sprintf("parsing iteration count: %v", err))
	}
	return nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// newSyntaxError returns a *SyntaxError at the Reader's current position.
func (r *Reader) newSyntaxError(msg string) *SyntaxError {
	return &SyntaxError{r.result.fileName, r.result.line, msg}
}

// Result returns the row that was just read by Scan.
func (r *Reader) Result() *Result {
	return &r.result
}

// Err returns the first error encountered by Scan, if any. It returns
// nil if Scan stopped because it reached the end of the input.
func (r *Reader) Err() error {
	return r.err
}
