// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vec

import "github.com/chewxy/math32"

// PeakPick finds num successive maxima of v within [start, end] (inclusive).
// After each pick the neighborhood distance samples on each side is masked to
// NaN so later picks return distinct peaks. v is modified in place. Returns
// the picked indices and values.
func PeakPick(v []float32, start, end, distance, num int) ([]int, []float32) {
	if distance <= 0 {
		distance = 1
	}
	idxs := make([]int, num)
	vals := make([]float32, num)
	for i := 0; i < num; i++ {
		j, val := Max(v[start : end+1])
		j += start
		idxs[i] = j
		vals[i] = val

		lo := j - distance
		if lo < start {
			lo = start
		}
		hi := j + distance
		if hi > end {
			hi = end
		}
		for k := lo; k <= hi; k++ {
			v[k] = math32.NaN()
		}
	}
	return idxs, vals
}

// QuadInterp refines a peak at the middle of three samples by quadratic
// interpolation, returning the fractional offset p in [-1/2, 1/2] and the
// interpolated peak value.
func QuadInterp(v1, v2, v3 float32) (float32, float32) {
	p := (v3 - v1) / (2*(2*v2-v3-v1) + 1e-16)
	return p, v2 - 0.25*(v1-v3)*p
}
