// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymmetry(t *testing.T) {
	for _, typ := range []Type{Hann, Hamm, Blackman, Kaiser, Bartlett, Triang,
		Flattop, Gauss, BlackmanHarris, BlackmanNuttall, BartlettHann, Bohman, Tukey} {
		for _, n := range []int{8, 9, 64, 65} {
			w := Create(typ, n, false)
			require.Len(t, w, n)
			for i := 0; i < n/2; i++ {
				assert.InDelta(t, w[i], w[n-1-i], 1e-5,
					"%v length %d index %d", typ, n, i)
			}
		}
	}
}

func TestPeriodicDropsLast(t *testing.T) {
	sym := Create(Hann, 9, false)
	per := Create(Hann, 8, true)
	require.Len(t, per, 8)
	for i := range per {
		assert.InDelta(t, sym[i], per[i], 1e-6)
	}
}

func TestLengthOne(t *testing.T) {
	for typ := Type(0); typ < TypeN; typ++ {
		assert.Equal(t, []float32{1}, Create(typ, 1, false))
	}
}

func TestHannEndpoints(t *testing.T) {
	w := Create(Hann, 9, false)
	assert.InDelta(t, 0, w[0], 1e-6)
	assert.InDelta(t, 1, w[4], 1e-6)
	assert.InDelta(t, 0, w[8], 1e-6)
}

func TestTukeyDegeneracies(t *testing.T) {
	// alpha = 0 reduces bit-exactly to rectangular
	rect := CreateParam(Tukey, 16, false, 0)
	for _, v := range rect {
		assert.Equal(t, float32(1), v)
	}

	// alpha = 1 reduces to the symmetric hann
	hann := Create(Hann, 16, false)
	tuk := CreateParam(Tukey, 16, false, 1)
	assert.Equal(t, hann, tuk)
}

func TestKaiserPeak(t *testing.T) {
	w := Create(Kaiser, 33, false)
	assert.InDelta(t, 1, w[16], 1e-6)
	assert.Less(t, w[0], float32(0.1))
}

func TestTriangNonZeroEnds(t *testing.T) {
	for _, n := range []int{8, 9} {
		w := Create(Triang, n, false)
		assert.Greater(t, w[0], float32(0))
		assert.Greater(t, w[n-1], float32(0))
	}
}

func TestKaiserOrder(t *testing.T) {
	order, beta := KaiserOrder(0.3, 0.4, 60)
	assert.Greater(t, order, 0)
	assert.InDelta(t, 0.1102*(60-8.7), beta, 1e-4)

	// mid attenuation branch
	_, beta = KaiserOrder(0.3, 0.4, 40)
	assert.Greater(t, beta, float32(0))

	// out of band edges
	order, beta = KaiserOrder(0, 0.4, 60)
	assert.Equal(t, 0, order)
	assert.Equal(t, float32(0), beta)
}

func TestForFFTSymmetricOnly(t *testing.T) {
	// symmetric-only shapes stay symmetric even in the FFT table
	w := ForFFT(Bartlett, 8)
	for i := 0; i < 4; i++ {
		assert.InDelta(t, w[i], w[7-i], 1e-6)
	}
	// periodic shapes drop the closing sample
	h := ForFFT(Hann, 8)
	assert.InDelta(t, 0, h[0], 1e-6)
	assert.Greater(t, h[7], float32(0))
}
