// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchseries

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// WriteCSV writes l to out as CSV, one row per sample, tests in Log
// order:
//
//	test,timestamp,time,average_seconds
func (l *Log) WriteCSV(out io.Writer) error {
	w := csv.NewWriter(out)
	w.Write([]string{"test", "timestamp", "time", "average_seconds"})
	for _, test := range l.tests {
		for _, s := range l.samples[test] {
			w.Write([]string{
				test,
				strconv.FormatUint(s.Timestamp, 10),
				s.Time().Format(time.RFC3339),
				strconv.FormatFloat(s.AverageDuration, 'g', -1, 64),
			})
		}
	}
	w.Flush()
	return w.Error()
}
