// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package filterbank builds the frequency-domain weight tables shared by the
// spectral transforms: perceptual auditory banks, the nonstationary Gabor
// window sets and the analytic wavelet kernels.
package filterbank

import (
	"errors"

	"github.com/chewxy/math32"

	"github.com/emer/spectral/scale"
	"github.com/emer/spectral/vec"
)

// Sentinel errors for bank construction.
var (
	ErrParamRange        = errors.New("parameter out of range")
	ErrDomainRequirement = errors.New("domain requirement not met")
)

// StyleType selects the band shape of an auditory bank.
type StyleType int

const (
	StyleSlaney StyleType = iota
	StyleETSI
	StyleGammatone
	StylePoint
	StyleRect
	StyleHann
	StyleHamm
	StyleBlackman
	StyleBohman
	StyleKaiser
	StyleGauss

	StyleN
)

var styleNames = []string{"Slaney", "ETSI", "Gammatone", "Point", "Rect",
	"Hann", "Hamm", "Blackman", "Bohman", "Kaiser", "Gauss"}

func (t StyleType) String() string {
	if t < 0 || int(t) >= len(styleNames) {
		return "Unknown"
	}
	return styleNames[t]
}

// NormalType selects the row normalization of a bank.
type NormalType int

const (
	NormalNone NormalType = iota
	NormalArea
	NormalBandWidth

	NormalN
)

var normalNames = []string{"None", "Area", "BandWidth"}

func (t NormalType) String() string {
	if t < 0 || int(t) >= len(normalNames) {
		return "Unknown"
	}
	return normalNames[t]
}

// reviseEdges pre-adjusts (lowFre, highFre) for the chosen axis so num bands
// are exactly representable. ref is the axis reference (binPerOctave or
// linear bin spacing); returns the possibly updated ref.
func reviseEdges(num int, scaleType scale.Type, lowFre, highFre float32,
	samplate, refLength, binPerOctave int, includesEdges bool) (float32, float32, float32) {
	var ref float32
	switch scaleType {
	case scale.Octave:
		ref = 12
		if binPerOctave >= 4 && binPerOctave <= 48 {
			ref = float32(binPerOctave)
		}
		lowFre, highFre = scale.ReviseOctave(num, lowFre, highFre, int(ref), includesEdges)
	case scale.LogChroma:
		ref = 12
		if binPerOctave >= 12 && binPerOctave%12 == 0 {
			ref = float32(binPerOctave)
		}
		lowFre, highFre = scale.ReviseOctave(num, lowFre, highFre, int(ref), includesEdges)
	case scale.Linear:
		ref = float32(samplate) / float32(refLength)
		lowFre, highFre = scale.ReviseLinear(num, lowFre, highFre, ref, includesEdges)
	case scale.Linspace:
		lowFre, highFre = scale.ReviseLinspace(num, lowFre, highFre, includesEdges)
	case scale.LogSpace:
		lowFre, highFre = scale.ReviseLogSpace(num, lowFre, highFre, includesEdges)
	}
	return lowFre, highFre, ref
}

// bandEdges lays num+det band positions evenly on the axis between the
// (already revised) corner frequencies, maps them back to Hz and projects
// them onto FFT bins. det is 0 when the bank's bands include their own edges
// and 2 otherwise. slaney selects the first-exceeding-linear-bin projection
// rule instead of rounding.
func bandEdges(num, det, fftLength, samplate int, lowFre, highFre float32,
	scaleType scale.Type, ref float32, slaney bool) ([]float32, []int) {
	low := scaleType.Forward(lowFre, ref)
	high := scaleType.Forward(highFre, ref)

	freBand := vec.Linspace(low, high, num+det)
	for i, v := range freBand {
		freBand[i] = scaleType.Inverse(v, ref)
	}

	binBand := make([]int, num+det)
	if !slaney {
		for i, f := range freBand {
			binBand[i] = int(math32.Round(float32(fftLength) * f / float32(samplate)))
			if binBand[i] < 0 {
				binBand[i] = 0
			}
		}
	} else {
		// linear grid stops short of samplate to avoid the wrap bin
		lin := vec.Linspace(0, float32(samplate)-float32(samplate)/float32(fftLength), fftLength)
		for i := 0; i < num+det; i++ {
			for j, f := range lin {
				if f > freBand[i] {
					binBand[i] = j
					break
				}
			}
		}
	}
	return freBand, binBand
}
