// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchseries

import (
	"errors"
	"fmt"
)

// A Kind classifies the failures of Collect and Chart.
type Kind int

const (
	// FilesystemError is an unreadable directory or file, or a
	// result directory without a raw.csv.
	FilesystemError Kind = iota + 1
	// ParseError is a malformed result directory name or
	// measurement table.
	ParseError
	// EmptyDatasetError means there is nothing to plot.
	EmptyDatasetError
	// RenderError is a failure to draw or write the chart.
	RenderError
)

func (k Kind) String() string {
	switch k {
	case FilesystemError:
		return "filesystem error"
	case ParseError:
		return "parse error"
	case EmptyDatasetError:
		return "empty dataset"
	case RenderError:
		return "render error"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// An Error is a failure of one stage of the pipeline. Every Error is
// fatal to the run that produced it.
type Error struct {
	Kind Kind
	Path string // offending file or directory; may be empty
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is, or wraps, an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}
