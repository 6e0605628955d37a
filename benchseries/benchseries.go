// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchseries collects the results of repeated benchmark runs
// into per-test time series and charts how each test trends across
// runs.
//
// A run is a directory named BM_<YYYYMMDDhhmm> holding a raw.csv
// measurement table (see package rawcsv). Collect walks a tree of
// runs into a Log, and Chart draws a Log as one line per test.
package benchseries

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"
)

// TimestampLayout is the time layout of run timestamps.
const TimestampLayout = "200601021504"

// A Sample summarizes one run's measurements of one test.
type Sample struct {
	// Timestamp is the run timestamp, YYYYMMDDhhmm as a decimal
	// integer.
	Timestamp uint64

	// AverageDuration is the mean wall-clock duration of one
	// benchmark iteration, in seconds.
	AverageDuration float64
}

// Time returns the decoded timestamp of s in UTC. It returns the zero
// Time if the timestamp is malformed; Collect never produces such
// samples.
func (s Sample) Time() time.Time {
	t, _ := ParseTimestamp(s.Timestamp)
	return t
}

// ParseTimestamp decodes a YYYYMMDDhhmm run timestamp.
func ParseTimestamp(ts uint64) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, fmt.Sprintf("%012d", ts))
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %d is not YYYYMMDDhhmm: %w", ts, err)
	}
	return t, nil
}

// Identity returns the key that samples of the test identified by
// suite, group and case are accumulated under.
//
// The suite and group are separated by "::"; the case is appended to
// the group with no separator.
func Identity(suite, group, cas string) string {
	return suite + "::" + group + cas
}

// A Log maps test identities to their samples.
//
// Tests iterate in the order they were first added. A Log returned by
// Collect holds each test's samples in chronological order.
type Log struct {
	tests   []string
	samples map[string][]Sample
}

// NewLog returns an empty Log.
func NewLog() *Log {
	return &Log{samples: make(map[string][]Sample)}
}

// Add appends s to the samples of test.
func (l *Log) Add(test string, s Sample) {
	if _, ok := l.samples[test]; !ok {
		l.tests = append(l.tests, test)
	}
	l.samples[test] = append(l.samples[test], s)
}

// Len returns the number of tests in l.
func (l *Log) Len() int {
	return len(l.tests)
}

// Tests returns the test identities of l in insertion order.
func (l *Log) Tests() []string {
	return append([]string(nil), l.tests...)
}

// Samples returns the samples of test, or nil if l has no such test.
func (l *Log) Samples(test string) []Sample {
	return l.samples[test]
}

// SortByTime sorts the samples of every test by timestamp. Samples
// with equal timestamps keep their relative order.
func (l *Log) SortByTime() {
	for _, ss := range l.samples {
		sort.SliceStable(ss, func(i, j int) bool {
			return ss[i].Timestamp < ss[j].Timestamp
		})
	}
}

// Range returns the earliest and latest timestamp over the samples of
// all tests. It fails with an EmptyDatasetError if l has no tests or
// any test has no samples.
func (l *Log) Range() (first, last uint64, err error) {
	if len(l.tests) == 0 {
		return 0, 0, &Error{Kind: EmptyDatasetError, Err: errors.New("no benchmark results")}
	}
	started := false
	for _, test := range l.tests {
		ss := l.samples[test]
		if len(ss) == 0 {
			return 0, 0, &Error{Kind: EmptyDatasetError, Err: fmt.Errorf("test %q has no samples", test)}
		}
		for _, s := range ss {
			if !started || s.Timestamp < first {
				first = s.Timestamp
			}
			if !started || s.Timestamp > last {
				last = s.Timestamp
			}
			started = true
		}
	}
	return first, last, nil
}

// Filter returns a new Log holding only the tests of l whose identity
// matches re, in the same order. The samples are shared with l.
func (l *Log) Filter(re *regexp.Regexp) *Log {
	out := NewLog()
	for _, test := range l.tests {
		if re.MatchString(test) {
			out.tests = append(out.tests, test)
			out.samples[test] = l.samples[test]
		}
	}
	return out
}
