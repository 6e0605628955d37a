// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchseries

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aclements/go-moremath/stats"

	"golang.org/x/benchhist/benchunit"
	"golang.org/x/benchhist/rawcsv"
)

const (
	// RunPrefix is the name prefix of result directories.
	RunPrefix = "BM_"
	// RawFile is the measurement table inside a result directory.
	RawFile = "raw.csv"
)

// CollectOptions configures Collect. The zero value is ready to use.
type CollectOptions struct {
	// Header indicates that every raw.csv starts with a header row
	// that must be skipped.
	Header bool

	// Logger receives a debug record for every run read.
	// If nil, nothing is logged.
	Logger *slog.Logger
}

// Collect walks the tree rooted at root and returns a Log holding one
// Sample per result directory found.
//
// A directory named BM_<digits> is a result directory; it is read and
// not descended into. Every other directory is descended into, and
// everything else is ignored. A BM_ directory whose suffix is not a
// YYYYMMDDhhmm timestamp is a ParseError rather than an ordinary
// directory.
//
// Collect either returns a complete Log or fails: the first
// FilesystemError or ParseError aborts the walk.
func Collect(root string, opts *CollectOptions) (*Log, error) {
	if opts == nil {
		opts = &CollectOptions{}
	}
	c := &collector{
		log:    NewLog(),
		header: opts.Header,
		logger: opts.Logger,
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := c.walk(root); err != nil {
		return nil, err
	}
	c.log.SortByTime()
	return c.log, nil
}

type collector struct {
	log    *Log
	header bool
	logger *slog.Logger
}

func (c *collector) walk(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return &Error{Kind: FilesystemError, Path: dir, Err: unwrapPath(err)}
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		ts, ok, err := runTimestamp(e.Name())
		if err != nil {
			return &Error{Kind: ParseError, Path: path, Err: err}
		}
		if !ok {
			if err := c.walk(path); err != nil {
				return err
			}
			continue
		}
		test, avg, err := c.readRun(path)
		if err != nil {
			return err
		}
		c.logger.Debug("read run", "dir", path, "test", test, "timestamp", ts, "avg", avg)
		c.log.Add(test, Sample{Timestamp: ts, AverageDuration: avg})
	}
	return nil
}

// runTimestamp reports whether name is a result directory and, if so,
// returns its timestamp.
func runTimestamp(name string) (ts uint64, ok bool, err error) {
	suffix, ok := strings.CutPrefix(name, RunPrefix)
	if !ok {
		return 0, false, nil
	}
	ts, err = strconv.ParseUint(suffix, 10, 64)
	if err != nil {
		return 0, true, fmt.Errorf("bad run timestamp %q: %w", suffix, errors.Unwrap(err))
	}
	if _, err := ParseTimestamp(ts); err != nil {
		return 0, true, err
	}
	return ts, true, nil
}

// readRun reads the raw.csv of the result directory dir and returns
// its test identity and the mean per-iteration duration in seconds
// over all rows.
func (c *collector) readRun(dir string) (test string, avg float64, err error) {
	path := filepath.Join(dir, RawFile)
	f, err := os.Open(path)
	if err != nil {
		return "", 0, &Error{Kind: FilesystemError, Path: path, Err: unwrapPath(err)}
	}
	defer f.Close()

	r := rawcsv.NewReader(f, path)
	r.Header = c.header
	var durations []float64
	for r.Scan() {
		res := r.Result()
		if len(durations) == 0 {
			test = Identity(res.Suite, res.Group, res.Case)
		}
		d, err := benchunit.Tidy(res.Value, res.Unit, res.Iters)
		if err == nil && (math.IsInf(d, 0) || math.IsNaN(d)) {
			err = fmt.Errorf("duration %v %s / %v iterations is not finite", res.Value, res.Unit, res.Iters)
		}
		if err != nil {
			name, line := res.Pos()
			return "", 0, &Error{Kind: ParseError, Path: fmt.Sprintf("%s:%d", name, line), Err: err}
		}
		durations = append(durations, d)
	}
	if err := r.Err(); err != nil {
		var se *rawcsv.SyntaxError
		if errors.As(err, &se) {
			return "", 0, &Error{Kind: ParseError, Err: err}
		}
		return "", 0, &Error{Kind: FilesystemError, Err: err}
	}
	if len(durations) == 0 {
		return "", 0, &Error{Kind: ParseError, Path: path, Err: errors.New("no measurements")}
	}
	return test, stats.Mean(durations), nil
}

// unwrapPath strips the *fs.PathError wrapper from err, since Error
// already carries the path.
func unwrapPath(err error) error {
	var pe *os.PathError
	if errors.As(err, &pe) {
		return fmt.Errorf("%s: %w", pe.Op, pe.Err)
	}
	return err
}
