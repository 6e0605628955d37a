// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchunit parses the time units found in raw benchmark
// measurement tables and formats numbers with SI prefixes.
package benchunit

import (
	"fmt"
	"strings"
)

// A Unit is a time unit that a raw measurement can be recorded in.
type Unit string

const (
	Microsecond Unit = "us"
	Nanosecond  Unit = "ns"
	Picosecond  Unit = "ps"
)

// factors maps each supported Unit to its size in seconds.
var factors = map[Unit]float64{
	Microsecond: 1e-6,
	Nanosecond:  1e-9,
	Picosecond:  1e-12,
}

// A UnitError reports a unit string that is not one of the supported
// time units.
type UnitError struct {
	Unit string
}

func (e *UnitError) Error() string {
	if e.Unit == "" {
		return "missing unit"
	}
	return fmt.Sprintf("unit not supported: %q", e.Unit)
}

// Parse returns the Unit named by s. Only "us", "ns" and "ps" are
// accepted; anything else, including the empty string, is a
// *UnitError. Surrounding whitespace is ignored.
func Parse(s string) (Unit, error) {
	u := Unit(strings.TrimSpace(s))
	if _, ok := factors[u]; !ok {
		return "", &UnitError{string(u)}
	}
	return u, nil
}

// Factor returns the size of one u in seconds, or 0 if u is not a
// supported unit.
func (u Unit) Factor() float64 {
	return factors[u]
}

func (u Unit) String() string {
	return string(u)
}
