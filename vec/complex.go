// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vec

import "github.com/chewxy/math32"

// Complex values are carried as parallel real/imaginary float32 slices, the
// same split-array convention the transforms use for their matrix planes.

// CMul multiplies (r1,i1) by (r2,i2) elementwise. dstR/dstI may alias the
// first pair.
func CMul(r1, i1, r2, i2, dstR, dstI []float32) {
	dr := dest(r1, dstR)
	di := dest(i1, dstI)
	for k := range r1 {
		re := r1[k]*r2[k] - i1[k]*i2[k]
		im := i1[k]*r2[k] + r1[k]*i2[k]
		dr[k] = re
		di[k] = im
	}
}

// CDiv divides (r1,i1) by (r2,i2) elementwise.
func CDiv(r1, i1, r2, i2, dstR, dstI []float32) {
	dr := dest(r1, dstR)
	di := dest(i1, dstI)
	for k := range r1 {
		den := r2[k]*r2[k] + i2[k]*i2[k]
		re := (r1[k]*r2[k] + i1[k]*i2[k]) / den
		im := (i1[k]*r2[k] - r1[k]*i2[k]) / den
		dr[k] = re
		di[k] = im
	}
}

// CAbs writes the magnitude sqrt(r²+i²) into dst.
func CAbs(r, im, dst []float32) {
	for k := range r {
		dst[k] = math32.Hypot(r[k], im[k])
	}
}

// CSquare writes the squared magnitude r²+i² into dst.
func CSquare(r, im, dst []float32) {
	for k := range r {
		dst[k] = r[k]*r[k] + im[k]*im[k]
	}
}

// CAngle writes the phase angle atan2(i, r) into dst.
func CAngle(r, im, dst []float32) {
	for k := range r {
		dst[k] = math32.Atan2(im[k], r[k])
	}
}
