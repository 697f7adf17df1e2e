// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vec

import "github.com/chewxy/math32"

// Sinc is the normalized sinc sin(πx)/(πx) with Sinc(0) = 1.
func Sinc(x float32) float32 {
	if x == 0 {
		return 1
	}
	return math32.Sin(math32.Pi*x) / (math32.Pi * x)
}

// SincLowPass samples the ideal low-pass impulse response 2·cut·sinc(2·cut·x)
// at the points in v. cut is the cutoff as a fraction of the sample rate.
func SincLowPass(v []float32, cut float32, dst []float32) {
	d := dest(v, dst)
	for i, x := range v {
		d[i] = 2 * cut * Sinc(2*cut*x)
	}
}

// SincHighPass samples the ideal high-pass impulse response
// sinc(x) − 2·cut·sinc(2·cut·x).
func SincHighPass(v []float32, cut float32, dst []float32) {
	d := dest(v, dst)
	for i, x := range v {
		d[i] = Sinc(x) - 2*cut*Sinc(2*cut*x)
	}
}

// SincBandPass samples the ideal band-pass impulse response between cut1 and
// cut2.
func SincBandPass(v []float32, cut1, cut2 float32, dst []float32) {
	d := dest(v, dst)
	for i, x := range v {
		d[i] = 2*cut2*Sinc(2*cut2*x) - 2*cut1*Sinc(2*cut1*x)
	}
}

// SincBandStop samples the ideal band-stop impulse response between cut1 and
// cut2.
func SincBandStop(v []float32, cut1, cut2 float32, dst []float32) {
	d := dest(v, dst)
	for i, x := range v {
		d[i] = Sinc(x) - 2*cut2*Sinc(2*cut2*x) + 2*cut1*Sinc(2*cut1*x)
	}
}
