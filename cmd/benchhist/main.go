// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Benchhist charts the history of repeated benchmark runs.
//
// Usage:
//
//	benchhist [flags] [root]
//
// Benchhist walks root (default target/criterion) for result
// directories named BM_<YYYYMMDDhhmm>, each holding a raw.csv
// measurement table, averages every run's per-iteration duration per
// test, and draws one line per test across runs into a single image
// (default plot.svg).
//
// Every flag can also be set in a YAML config file (see -config) or
// through a BENCHHIST_-prefixed environment variable, for example
// BENCHHIST_OUTPUT=trend.png or BENCHHIST_MAX_TICKS=6.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

func main() {
	cmd := newRootCmd(viper.New())
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "benchhist: %v\n", err)
		os.Exit(1)
	}
}
