// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filterbank

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"
	"github.com/emer/etable/etensor"

	"github.com/emer/spectral/scale"
	"github.com/emer/spectral/vec"
)

// WaveletType enumerates the analytic wavelet families.
type WaveletType int

const (
	Morse WaveletType = iota
	Morlet
	Bump
	Paul
	DOG
	Mexican
	Hermit
	Ricker

	WaveletN
)

var waveletNames = []string{"Morse", "Morlet", "Bump", "Paul", "DOG",
	"Mexican", "Hermit", "Ricker"}

func (t WaveletType) String() string {
	if t < 0 || int(t) >= len(waveletNames) {
		return "Unknown"
	}
	return waveletNames[t]
}

// WaveletDefaults returns the default (gamma, beta) shape parameters of a
// family.
func WaveletDefaults(t WaveletType) (float32, float32) {
	switch t {
	case Morlet:
		return 6, 2
	case Bump:
		return 5, 0.6
	case Paul:
		return 4, 20
	case DOG:
		return 2, 2
	case Mexican:
		return 3, 2
	case Hermit:
		return 5, 2
	case Ricker:
		return 4, 20
	default: // Morse
		return 3, 20
	}
}

// WaveletCenterFreq returns the dimensionless spectral peak of the family at
// the given shape parameters.
func WaveletCenterFreq(t WaveletType, gamma, beta float32) float32 {
	switch t {
	case Morlet, Bump, Ricker:
		return gamma
	case Paul:
		return gamma + 0.5
	case DOG:
		return math32.Sqrt(gamma + 0.5)
	case Mexican:
		return math32.Sqrt(2 + 0.5)
	case Hermit:
		return gamma + 1
	default: // Morse: (beta/gamma)^(1/gamma)
		return math32.Exp(1 / gamma * (math32.Log(beta) - math32.Log(gamma)))
	}
}

// Wavelet builds a num × (dataLength+2·padLength) matrix of frequency-domain
// wavelet kernels. Row 0 holds the smallest scale (highest band); the
// returned freBand/binBand run in ascending frequency, as everywhere else.
func Wavelet(num, dataLength, samplate, padLength int,
	wavelet WaveletType, gamma, beta float32,
	scaleType scale.Type, lowFre, highFre float32, binPerOctave int) (*etensor.Float32, []float32, []int, error) {
	if num < 1 || dataLength < 2 {
		return nil, nil, nil, fmt.Errorf("wavelet bank: num %d dataLength %d: %w",
			num, dataLength, ErrParamRange)
	}
	if wavelet < 0 || wavelet >= WaveletN {
		return nil, nil, nil, fmt.Errorf("wavelet bank: type %d: %w", int(wavelet), ErrParamRange)
	}

	wLength := dataLength + 2*padLength

	lowFre, highFre, ref := reviseEdges(num, scaleType, lowFre, highFre,
		samplate, dataLength, binPerOctave, false)
	freBand, binBand := bandEdges(num, 2, dataLength, samplate, lowFre, highFre,
		scaleType, ref, false)

	cf := WaveletCenterFreq(wavelet, gamma, beta)

	// digital frequency axis over [0, 2π) mirrored negative about π
	wArr := make([]float32, wLength)
	for i := 0; i <= wLength/2; i++ {
		wArr[i] = float32(i) * 2 * math32.Pi / float32(wLength)
	}
	for i, j := wLength/2+1, wLength/2-1; i < wLength && j >= 0; i, j = i+1, j-1 {
		wArr[i] = -wArr[j]
	}

	// scales in descending band order: row 0 is the highest band
	sArr := make([]float32, num)
	for i, j := num, 0; i >= 1; i, j = i-1, j+1 {
		f := freBand[i]
		if f < 1e-6 {
			f = 1e-6
		}
		sArr[j] = cf / (f / float32(samplate) * 2 * math32.Pi)
	}

	bank := etensor.NewFloat32([]int{num, wLength}, nil, nil)
	m := bank.Values
	vec.Outer(sArr, wArr, m)

	switch wavelet {
	case Morse:
		factor := math32.Exp(-beta*math32.Log(cf) + math32.Pow(cf, gamma))
		kernel(m, func(x float32) float32 {
			return 2 * factor * math32.Exp(beta*math32.Log(x)-math32.Pow(x, gamma))
		})
	case Morlet:
		kernel(m, func(x float32) float32 {
			return 2 * math32.Exp(-(x-cf)*(x-cf)/beta)
		})
	case Bump:
		const eps = 1e-6
		for i, x := range m {
			u := (x - cf) / beta
			if math32.Abs(u) < 1-eps {
				v := 2 * math32.E * math32.Exp(-1/(1-u*u))
				if math32.IsNaN(v) {
					v = 0
				}
				m[i] = v
			} else {
				m[i] = 0
			}
		}
	case Paul:
		factor := paulFactor(gamma)
		kernel64(m, func(x float64) float64 {
			return factor * math.Pow(x, float64(gamma)) * math.Exp(-x)
		})
	case DOG, Mexican:
		g := gamma
		if wavelet == Mexican {
			g = 2
		}
		factor := dogFactor(g)
		kernel64(m, func(x float64) float64 {
			return factor * math.Pow(x, float64(g)) * math.Exp(-x*x/float64(beta))
		})
	case Hermit:
		factor := 2 / math.Sqrt(float64(gamma)) * math.Pow(math.Pi, -0.25)
		kernel64(m, func(x float64) float64 {
			u := x - float64(gamma)
			return factor * u * (1 + u) * math.Exp(-u*u/float64(beta))
		})
	case Ricker:
		factor := 2 / math.Sqrt(math.Pi)
		g := float64(gamma)
		kernel64(m, func(x float64) float64 {
			return factor * x * x / (g * g * g) * math.Exp(-x*x/(g*g))
		})
	}

	return bank, freBand[1 : 1+num], binBand[1 : 1+num], nil
}

// kernel applies f to the strictly positive frequencies, zeroing the rest.
func kernel(m []float32, f func(float32) float32) {
	for i, x := range m {
		if x > 0 {
			m[i] = f(x)
		} else {
			m[i] = 0
		}
	}
}

func kernel64(m []float32, f func(float64) float64) {
	for i, x := range m {
		if x > 0 {
			m[i] = float32(f(float64(x)))
		} else {
			m[i] = 0
		}
	}
}

// paulFactor is 2^m/sqrt(m·(2m−1)!) with the factorial reduced in float64.
func paulFactor(gamma float32) float64 {
	p := int(math32.Round(gamma))
	prod := 1.0
	for i := 2*p - 1; i >= 2; i-- {
		prod *= float64(i)
	}
	return math.Pow(2, float64(p)) / math.Sqrt(float64(p)*prod)
}

// dogFactor is −(i^m)/sqrt(Γ(m+1/2)) with the sign resolved to a real
// constant.
func dogFactor(gamma float32) float64 {
	p := int(math32.Round(gamma))
	factor := -1.0 / math.Sqrt(vec.Gamma(float64(p)+0.5))
	if (p/2)%2 == 1 {
		factor = -factor
	}
	return factor
}
