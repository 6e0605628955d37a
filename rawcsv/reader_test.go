// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rawcsv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseAll(t *testing.T, data string, header bool) ([]Result, error) {
	t.Helper()
	r := NewReader(strings.NewReader(data), "test")
	r.Header = header
	var out []Result
	for r.Scan() {
		res := *r.Result()
		// Wipe position information for comparisons.
		res.fileName = ""
		res.line = 0
		out = append(out, res)
	}
	return out, r.Err()
}

func TestReader(t *testing.T) {
	const data = `Suite,Grp,Case,,,50,us,10
Suite,Grp,Case,,,70.5,us,10
`
	got, err := parseAll(t, data, false)
	require.NoError(t, err)
	assert.Equal(t, []Result{
		{Suite: "Suite", Group: "Grp", Case: "Case", Value: 50, Unit: "us", Iters: 10},
		{Suite: "Suite", Group: "Grp", Case: "Case", Value: 70.5, Unit: "us", Iters: 10},
	}, got)
}

func TestReaderHeader(t *testing.T) {
	const data = `group,function,value,throughput_num,throughput_type,sample_measured_value,unit,iteration_count
fib,recursive,20,,,123456.0,ns,3
fib,recursive,20,,,246000.0,ns,6
`
	got, err := parseAll(t, data, true)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "fib", got[0].Suite)
	assert.Equal(t, "recursive", got[0].Group)
	assert.Equal(t, "20", got[0].Case)
	assert.Equal(t, 123456.0, got[0].Value)
	assert.Equal(t, "ns", got[0].Unit)
	assert.Equal(t, 6.0, got[1].Iters)

	// Without Header the header row is data, and its numeric
	// columns don't parse.
	_, err = parseAll(t, data, false)
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Line)
}

func TestReaderExtraColumns(t *testing.T) {
	got, err := parseAll(t, "a,b,c,d,e,1,ps,2,extra,more\n", false)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ps", got[0].Unit)
	assert.Equal(t, 2.0, got[0].Iters)
}

func TestReaderUnitNotValidated(t *testing.T) {
	got, err := parseAll(t, "a,b,c,,,1,ms,2\na,b,c,,,1,,2\n", false)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ms", got[0].Unit)
	assert.Equal(t, "", got[1].Unit)
}

func TestReaderEmpty(t *testing.T) {
	got, err := parseAll(t, "", false)
	assert.NoError(t, err)
	assert.Empty(t, got)

	got, err = parseAll(t, "group,function,value,,,v,unit,iters\n", true)
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestReaderSyntaxErrors(t *testing.T) {
	for _, test := range []struct {
		name, data string
		line       int
		msg        string
	}{
		{"short row", "a,b,c,,,1,us\n", 1, "want at least 8 columns, got 7"},
		{"bad value", "a,b,c,,,1,us,1\na,b,c,,,x,us,1\n", 2, `parsing measured value: strconv.ParseFloat: parsing "x": invalid syntax`},
		{"bad iters", "a,b,c,,,1,us,\n", 1, `parsing iteration count: strconv.ParseFloat: parsing "": invalid syntax`},
		{"bad quote", "a,\"b,c,,,1,us,1\n", 1, ""},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := parseAll(t, test.data, false)
			var se *SyntaxError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, "test", se.FileName)
			assert.Equal(t, test.line, se.Line)
			if test.msg != "" {
				assert.Equal(t, test.msg, se.Msg)
			}
		})
	}
}

func TestResultPos(t *testing.T) {
	r := NewReader(strings.NewReader("a,b,c,,,1,us,1\n\na,b,c,,,2,us,1\n"), "raw.csv")
	require.True(t, r.Scan())
	name, line := r.Result().Pos()
	assert.Equal(t, "raw.csv", name)
	assert.Equal(t, 1, line)
	require.True(t, r.Scan())
	_, line = r.Result().Pos()
	assert.Equal(t, 3, line)
	assert.False(t, r.Scan())
	assert.NoError(t, r.Err())
}
