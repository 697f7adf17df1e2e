// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vec

import "github.com/chewxy/math32"

// MinMaxScale rescales v into [0, 1].
func MinMaxScale(v, dst []float32) {
	d := dest(v, dst)
	_, mn := Min(v)
	_, mx := Max(v)
	det := mx - mn
	if det == 0 {
		det = 1
	}
	for i, x := range v {
		d[i] = (x - mn) / det
	}
}

// MaxAbsScale rescales v by its largest absolute value.
func MaxAbsScale(v, dst []float32) {
	d := dest(v, dst)
	mx := Norm(v, 0)
	if mx == 0 {
		mx = 1
	}
	for i, x := range v {
		d[i] = x / mx
	}
}

// CenterScale subtracts the mean.
func CenterScale(v, dst []float32) {
	d := dest(v, dst)
	mean := Mean(v)
	for i, x := range v {
		d[i] = x - mean
	}
}

// StandScale subtracts the mean and divides by the standard deviation.
func StandScale(v, dst []float32) {
	d := dest(v, dst)
	mean := Mean(v)
	var ss float64
	for _, x := range v {
		dx := float64(x - mean)
		ss += dx * dx
	}
	sd := float32(math32.Sqrt(float32(ss / float64(len(v)))))
	if sd == 0 {
		sd = 1
	}
	for i, x := range v {
		d[i] = (x - mean) / sd
	}
}

// Normalize divides v by its p-norm (p = 0 selects the infinity norm).
func Normalize(v []float32, p int, dst []float32) {
	d := dest(v, dst)
	nrm := Norm(v, p)
	if nrm == 0 {
		nrm = 1
	}
	for i, x := range v {
		d[i] = x / nrm
	}
}

// PowerToDB converts a power vector to dB relative to its own maximum,
// clamped below at min (min >= 0 selects the usual -80 floor).
func PowerToDB(p []float32, min float32, dst []float32) {
	d := dest(p, dst)
	if min >= 0 {
		min = -80
	}
	_, mx := Max(p)
	for i, x := range p {
		v := 10 * math32.Log10(x/mx)
		if v < min {
			v = min
		}
		d[i] = v
	}
}

// MagToDB converts a magnitude vector to dB relative to fftLength, clamped
// below at min.
func MagToDB(m []float32, fftLength int, min float32, dst []float32) {
	d := dest(m, dst)
	if min >= 0 {
		min = -80
	}
	fl := float32(fftLength)
	for i, x := range m {
		v := 20 * math32.Log10(x/fl)
		if v < min {
			v = min
		}
		d[i] = v
	}
}

// PreEmphasis applies the one-tap high-pass y[i] = x[i] − coef·x[i−1].
// The usual coefficient is 0.97.
func PreEmphasis(v []float32, coef float32, dst []float32) {
	d := dest(v, dst)
	prev := v[0]
	d[0] = v[0]
	for i := 1; i < len(v); i++ {
		cur := v[i]
		d[i] = cur - coef*prev
		prev = cur
	}
}
