// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// collect pushes data and copies out every emitted frame.
func collect(e *FrameEngine, data []float32) [][]float32 {
	n := e.Push(data)
	out := make([][]float32, n)
	for i := 0; i < n; i++ {
		out[i] = append([]float32(nil), e.Frame(i)...)
	}
	return out
}

func ramp(n int) []float32 {
	v := make([]float32, n)
	for i := range v {
		v[i] = float32(i)
	}
	return v
}

func TestSingleShotFrames(t *testing.T) {
	e, err := NewFrameEngine(8, 4, false)
	require.NoError(t, err)

	frames := collect(e, ramp(16))
	require.Len(t, frames, 3)
	assert.Equal(t, ramp(16)[0:8], frames[0])
	assert.Equal(t, ramp(16)[4:12], frames[1])
	assert.Equal(t, ramp(16)[8:16], frames[2])
}

func TestUnderflowAccumulates(t *testing.T) {
	e, err := NewFrameEngine(8, 4, true)
	require.NoError(t, err)

	assert.Equal(t, 0, e.Push(ramp(5)))
	assert.Equal(t, 0, e.FrameCount())

	// 5 + 5 = 10 >= 8: one frame now
	frames := collect(e, []float32{5, 6, 7, 8, 9})
	require.Len(t, frames, 1)
	assert.Equal(t, []float32{0, 1, 2, 3, 4, 5, 6, 7}, frames[0])
}

func TestTimeLengthPrediction(t *testing.T) {
	e, err := NewFrameEngine(8, 4, true)
	require.NoError(t, err)
	assert.Equal(t, 0, e.TimeLength(7))
	assert.Equal(t, 1, e.TimeLength(8))
	assert.Equal(t, 3, e.TimeLength(16))

	e.Push(ramp(10))
	// tail of 6 rides along
	assert.Equal(t, e.TimeLength(10), e.Push(ramp(10)))
}

func TestNegativeTailSkips(t *testing.T) {
	// slide beyond the frame length: gapped analysis with a negative tail
	e, err := NewFrameEngine(4, 6, true)
	require.NoError(t, err)

	frames := collect(e, ramp(10))
	require.Len(t, frames, 2)
	assert.Equal(t, []float32{0, 1, 2, 3}, frames[0])
	assert.Equal(t, []float32{6, 7, 8, 9}, frames[1])
	// tail is now -2: the next two samples belong to the gap
	assert.Equal(t, -2, e.tailLen)

	frames = collect(e, ramp(10))
	require.Len(t, frames, 1)
	assert.Equal(t, []float32{2, 3, 4, 5}, frames[0])
}

func TestSplitStability(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		fftLength := rapid.IntRange(4, 32).Draw(t, "fftLength")
		slide := rapid.IntRange(1, 40).Draw(t, "slide")
		total := rapid.IntRange(0, 300).Draw(t, "total")

		data := make([]float32, total)
		for i := range data {
			data[i] = float32(i%17) - 8
		}

		single, err := NewFrameEngine(fftLength, slide, true)
		if err != nil {
			t.Fatal(err)
		}
		want := collect(single, data)

		chunked, err := NewFrameEngine(fftLength, slide, true)
		if err != nil {
			t.Fatal(err)
		}
		var got [][]float32
		rest := data
		for len(rest) > 0 {
			n := rapid.IntRange(1, len(rest)).Draw(t, "chunk")
			got = append(got, collect(chunked, rest[:n])...)
			rest = rest[n:]
		}

		if len(got) != len(want) {
			t.Fatalf("frames %d want %d", len(got), len(want))
		}
		for i := range want {
			for j := range want[i] {
				if got[i][j] != want[i][j] {
					t.Fatalf("frame %d sample %d: %v want %v", i, j, got[i][j], want[i][j])
				}
			}
		}
	})
}

func TestReset(t *testing.T) {
	e, err := NewFrameEngine(8, 4, true)
	require.NoError(t, err)
	e.Push(ramp(10))
	e.Reset()
	assert.Equal(t, 1, e.Push(ramp(8)))
}
