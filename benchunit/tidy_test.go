// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchunit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTidy(t *testing.T) {
	test := func(value float64, unit string, iters, want float64) {
		t.Helper()
		got, err := Tidy(value, unit, iters)
		require.NoError(t, err)
		assert.InEpsilon(t, want, got, 1e-12, "%v %s / %v", value, unit, iters)
	}

	test(1000, "us", 1, 1e-3)
	test(50, "us", 10, 5e-6)
	test(70, "us", 10, 7e-6)
	test(2500, "ns", 5, 5e-7)
	test(123456, "ps", 2, 6.1728e-8)

	// Exact for the documented evaluation order.
	got, err := Tidy(1000, "us", 1)
	require.NoError(t, err)
	assert.Equal(t, 1e-3, got)
}

func TestTidyErrors(t *testing.T) {
	_, err := Tidy(1, "ms", 1)
	var ue *UnitError
	assert.ErrorAs(t, err, &ue)

	for _, iters := range []float64{0, -1, math.NaN()} {
		_, err := Tidy(1, "ns", iters)
		assert.Error(t, err, "iters %v", iters)
	}
}
