// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sound

import (
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")

	data := make([]float32, 800)
	for i := range data {
		data[i] = 0.5 * math32.Sin(2*math32.Pi*float32(i)/80)
	}

	w, err := OpenWriter(path, 16000, 16, 1)
	require.NoError(t, err)
	require.NoError(t, w.Write(data))
	require.NoError(t, w.Close())

	r, err := OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, 16000, r.SampleRate())
	assert.Equal(t, 16, r.BitDepth())
	assert.Equal(t, 1, r.Channels())
	assert.Equal(t, 800, r.TotalSamples())

	back := r.ReadAll()
	require.Len(t, back, 800)
	for i := range data {
		assert.InDelta(t, data[i], back[i], 1e-3)
	}
}

func TestWriteClamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")

	w, err := OpenWriter(path, 8000, 16, 1)
	require.NoError(t, err)
	require.NoError(t, w.Write([]float32{2, -2, 0}))
	require.NoError(t, w.Close())

	r, err := OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	back := r.ReadAll()
	require.Len(t, back, 3)
	assert.InDelta(t, 1, back[0], 1e-4)
	assert.InDelta(t, -1, back[1], 1e-4)
	assert.InDelta(t, 0, back[2], 1e-4)
}

func TestBadBitDepth(t *testing.T) {
	_, err := OpenWriter(filepath.Join(t.TempDir(), "x.wav"), 8000, 12, 1)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestSequentialRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seq.wav")
	data := make([]float32, 100)
	for i := range data {
		data[i] = float32(i) / 200
	}
	w, err := OpenWriter(path, 8000, 16, 1)
	require.NoError(t, err)
	require.NoError(t, w.Write(data))
	require.NoError(t, w.Close())

	r, err := OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	buf := make([]float32, 30)
	assert.Equal(t, 30, r.Read(buf))
	assert.Equal(t, 30, r.Read(buf))
	assert.Equal(t, 30, r.Read(buf))
	assert.Equal(t, 10, r.Read(buf))
	assert.Equal(t, 0, r.Read(buf))
}
