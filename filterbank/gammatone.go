// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filterbank

import (
	"math"

	"github.com/emer/spectral/vec"
)

// gammatone 4th-order filter model:
//
//	g(t) = a·t^(n-1)·e^(-2πbt)·cos(2πfc·t + p), b = 1.019·erb(fc)
//
// realized as a cascade of four second-order sections, the canonical Slaney
// digital derivation with the root variants ±√(3±√8). Gain normalization is
// done in double precision; single precision cancels catastrophically at low
// center frequencies.

// sos is one second-order section: b numerator, a denominator.
type sos struct {
	b [3]float64
	a [3]float64
}

// GammatoneCoefficients derives the 4-section cascade for each band center.
func GammatoneCoefficients(freBand []float32, samplate int) [][4]sos {
	t := 1.0 / float64(samplate)
	pv := math.Sqrt(3 + math.Pow(2, 1.5))
	nv := math.Sqrt(3 - math.Pow(2, 1.5))

	out := make([][4]sos, len(freBand))
	for i, f := range freBand {
		fre := float64(f)
		erb := (fre/9.26449 + 24.7) * 2 * math.Pi * 1.019
		arg := fre * 2 * math.Pi * t
		v := -t * math.Exp(-t*erb)

		cosA := math.Cos(arg)
		sinA := math.Sin(arg)

		cR := math.Cos(4 * math.Pi * t * fre)
		cI := math.Sin(4 * math.Pi * t * fre)
		gR := 2 * t * math.Exp(-erb*t) * math.Cos(2*math.Pi*t*fre)
		gI := 2 * t * math.Exp(-erb*t) * math.Sin(2*math.Pi*t*fre)

		b1 := -2 * cosA / math.Exp(erb*t)
		b2 := math.Exp(-2 * t * erb)

		k := [4]float64{
			cosA + pv*sinA,
			cosA - pv*sinA,
			cosA + nv*sinA,
			cosA - nv*sinA,
		}

		// gain: product of the four zero factors over the pole factor^4
		gain := 1.0
		for _, kk := range k {
			r := -2*t*cR + gR*kk
			im := -2*t*cI + gI*kk
			gain *= math.Sqrt(r*r + im*im)
		}
		r5 := -2/math.Exp(2*t*erb) - 2*cR + 2*(1+cR)/math.Exp(t*erb)
		i5 := -2*cI + 2*cI/math.Exp(t*erb)
		den := r5*r5 + i5*i5
		gain /= den * den

		var cascade [4]sos
		for s := 0; s < 4; s++ {
			a1 := v * k[s]
			sec := sos{
				b: [3]float64{t, a1, 0},
				a: [3]float64{1, b1, b2},
			}
			if s == 0 {
				sec.b[0] /= gain
				sec.b[1] /= gain
				sec.b[2] /= gain
			}
			cascade[s] = sec
		}
		out[i] = cascade
	}
	return out
}

// sosMagnitude evaluates the magnitude response of the cascade at len
// equally spaced bins of a length-fftLength spectrum.
func sosMagnitude(cascade [4]sos, fftLength, length int, dst []float32) {
	for i := 0; i < length; i++ {
		w := 2 * math.Pi * float64(i) / float64(fftLength)
		mag := 1.0
		for _, sec := range cascade {
			nr, ni := polyResponse(sec.b[:], w)
			dr, di := polyResponse(sec.a[:], w)
			num := math.Hypot(nr, ni)
			den := math.Hypot(dr, di)
			mag *= num / den
		}
		dst[i] = float32(mag)
	}
}

// polyResponse evaluates sum c_j e^(-jwj).
func polyResponse(c []float64, w float64) (float64, float64) {
	var re, im float64
	for j, cj := range c {
		re += math.Cos(-w*float64(j)) * cj
		im += math.Sin(-w*float64(j)) * cj
	}
	return re, im
}

// gammatoneBank fills the bank rows with the cascade magnitude responses and
// doubles the interior bins of the one-sided spectrum.
func gammatoneBank(m []float32, num, mLength, fftLength, samplate int, pseudo bool, normal NormalType, freBand []float32) {
	coefs := GammatoneCoefficients(freBand, samplate)
	for i := 0; i < num; i++ {
		sosMagnitude(coefs[i], fftLength, mLength, m[i*mLength:(i+1)*mLength])
	}

	if normal == NormalArea || normal == NormalBandWidth {
		weights := make([]float32, num)
		if normal == NormalArea {
			if !pseudo {
				// one-sided: count interior bins twice
				for i := 0; i < num; i++ {
					row := m[i*mLength : (i+1)*mLength]
					weights[i] = row[0] + row[mLength-1] + 2*vec.Sum(row[1:mLength-1])
				}
			} else {
				vec.MatSumRows(m, num, mLength, weights)
			}
		} else {
			for i := 0; i < num; i++ {
				weights[i] = 1.019 * 24.7 * (0.00437*freBand[i] + 1) / 2
			}
		}
		vec.MatDivRows(m, num, mLength, weights)
	}

	for i := 0; i < num; i++ {
		row := m[i*mLength : (i+1)*mLength]
		for j := 1; j < mLength-1; j++ {
			row[j] *= 2
		}
	}
}
