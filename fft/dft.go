// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fft

import "math"

// DFT is a direct transform of arbitrary length. The twiddle table is kept in
// double precision so the relative error stays below the float32 round-off
// floor even at large lengths.
type DFT struct {
	Length int

	cosTab []float64 // Length*Length, exponent −j2πij/N
	sinTab []float64
}

// NewDFT plans a direct transform of the given length.
func NewDFT(length int) *DFT {
	d := &DFT{
		Length: length,
		cosTab: make([]float64, length*length),
		sinTab: make([]float64, length*length),
	}
	for i := 0; i < length; i++ {
		for j := 0; j < length; j++ {
			arg := 2 * math.Pi * float64(i) * float64(j) / float64(length)
			d.cosTab[i*length+j] = math.Cos(arg)
			d.sinTab[i*length+j] = -math.Sin(arg)
		}
	}
	return d
}

// Forward computes the forward transform of (re, im) into (dstR, dstI).
// im may be nil for real input.
func (d *DFT) Forward(re, im, dstR, dstI []float32) {
	d.apply(re, im, dstR, dstI, false)
}

// Inverse computes the inverse transform, dividing by the length. im may be
// nil.
func (d *DFT) Inverse(re, im, dstR, dstI []float32) {
	d.apply(re, im, dstR, dstI, true)
}

func (d *DFT) apply(re, im, dstR, dstI []float32, inverse bool) {
	n := d.Length
	for i := 0; i < n; i++ {
		var sr, si float64
		row := i * n
		for j := 0; j < n; j++ {
			wr := d.cosTab[row+j]
			wi := d.sinTab[row+j]
			if inverse {
				wi = -wi
			}
			xr := float64(re[j])
			var xi float64
			if im != nil {
				xi = float64(im[j])
			}
			sr += wr*xr - wi*xi
			si += wi*xr + wr*xi
		}
		if inverse {
			sr /= float64(n)
			si /= float64(n)
		}
		dstR[i] = float32(sr)
		dstI[i] = float32(si)
	}
}

// PlanCache memoizes DFT plans by length; each distinct length is planned at
// most once. The nonstationary Gabor transform uses this for its per-band
// small inverse transforms.
type PlanCache struct {
	plans map[int]*DFT
}

// NewPlanCache returns an empty cache.
func NewPlanCache() *PlanCache {
	return &PlanCache{plans: make(map[int]*DFT)}
}

// Get returns the plan for length, creating it on first use.
func (c *PlanCache) Get(length int) *DFT {
	if p, ok := c.plans[length]; ok {
		return p
	}
	p := NewDFT(length)
	c.plans[length] = p
	return p
}
