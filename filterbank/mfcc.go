// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filterbank

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// MFCC computes cepstral coefficients from a frame of log filter-bank
// energies via the type-II discrete cosine transform. The zeroth coefficient
// is replaced with the log energy. nCoefs is typically about half the band
// count (13 for a 26-band mel bank).
func MFCC(logEnergies []float32, nCoefs int) []float32 {
	n := len(logEnergies)
	if nCoefs > n {
		nCoefs = n
	}
	src := make([]float64, n)
	for i, v := range logEnergies {
		src[i] = float64(v)
	}
	dct := fourier.NewDCT(n)
	out := dct.Transform(nil, src)

	el0 := out[0]
	out[0] = math.Log(1 + el0*el0)

	coefs := make([]float32, nCoefs)
	for i := 0; i < nCoefs; i++ {
		coefs[i] = float32(out[i])
	}
	return coefs
}
