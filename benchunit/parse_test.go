// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchunit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	test := func(s string, want Unit, factor float64) {
		t.Helper()
		got, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, factor, got.Factor())
	}
	test("us", Microsecond, 1e-6)
	test("ns", Nanosecond, 1e-9)
	test("ps", Picosecond, 1e-12)
	test(" ns ", Nanosecond, 1e-9)
}

func TestParseUnsupported(t *testing.T) {
	for _, s := range []string{"ms", "s", "", "NS", "ns/op"} {
		_, err := Parse(s)
		var ue *UnitError
		if assert.ErrorAs(t, err, &ue, "unit %q", s) {
			assert.Equal(t, s, ue.Unit)
		}
	}

	_, err := Parse("")
	assert.EqualError(t, err, "missing unit")
	_, err = Parse("ms")
	assert.EqualError(t, err, `unit not supported: "ms"`)
}
