// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchunit

import "fmt"

// Tidy normalizes a raw duration recorded in unit over iters
// iterations into seconds per iteration.
//
// The result is value * factor(unit) / iters, computed in that order.
// Tidy fails if unit is not supported or iters is not positive.
func Tidy(value float64, unit string, iters float64) (float64, error) {
	u, err := Parse(unit)
	if err != nil {
		return 0, err
	}
	if !(iters > 0) { // catch NaN also.
		return 0, fmt.Errorf("iteration count %v is not positive", iters)
	}
	return value * u.Factor() / iters, nil
}
