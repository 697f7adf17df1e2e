// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package window generates the analysis windows used throughout the module.
// Every window comes in a symmetric form and a periodic form; the periodic
// form is the symmetric window of length+1 with the last sample dropped.
package window

import (
	"github.com/chewxy/math32"

	"github.com/emer/spectral/vec"
)

// Type enumerates the supported window shapes.
type Type int

const (
	Rect Type = iota
	Hann
	Hamm
	Blackman
	Kaiser
	Bartlett
	Triang
	Flattop
	Gauss
	BlackmanHarris
	BlackmanNuttall
	BartlettHann
	Bohman
	Tukey

	TypeN
)

var typeNames = []string{"Rect", "Hann", "Hamm", "Blackman", "Kaiser",
	"Bartlett", "Triang", "Flattop", "Gauss", "BlackmanHarris",
	"BlackmanNuttall", "BartlettHann", "Bohman", "Tukey"}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "Unknown"
	}
	return typeNames[t]
}

// Default shape parameters: Kaiser beta, Gauss alpha, Tukey alpha.
const (
	DefaultKaiserBeta = 5.0
	DefaultGaussAlpha = 2.5
	DefaultTukeyAlpha = 0.5
)

// Create builds a window of the given length. periodic selects the DFT-even
// form. Shape-parameterized windows use their defaults; see CreateParam.
func Create(t Type, length int, periodic bool) []float32 {
	return CreateParam(t, length, periodic, -1)
}

// CreateParam builds a window with an explicit shape parameter: Kaiser beta,
// Gauss alpha or Tukey alpha. A negative param selects the default; Tukey
// accepts an explicit 0 (rectangular).
func CreateParam(t Type, length int, periodic bool, param float32) []float32 {
	if length <= 0 {
		return nil
	}
	if length == 1 {
		return []float32{1}
	}
	n := length
	if periodic {
		n = length + 1
	}
	w := symmetric(t, n, param)
	return w[:length]
}

// symmetric evaluates the symmetric window of length n >= 2.
func symmetric(t Type, n int, param float32) []float32 {
	w := make([]float32, n)
	den := float32(n - 1)
	switch t {
	case Hann:
		for i := range w {
			w[i] = 0.5 - 0.5*math32.Cos(2*math32.Pi*float32(i)/den)
		}
	case Hamm:
		for i := range w {
			w[i] = 0.54 - 0.46*math32.Cos(2*math32.Pi*float32(i)/den)
		}
	case Blackman:
		for i := range w {
			c := 2 * math32.Pi * float32(i) / den
			w[i] = 0.42 - 0.5*math32.Cos(c) + 0.08*math32.Cos(2*c)
		}
	case BlackmanHarris:
		fourTerm(w, 0.35875, 0.48829, 0.14128, 0.01168)
	case BlackmanNuttall:
		fourTerm(w, 0.3635819, 0.4891775, 0.1365995, 0.0106411)
	case Flattop:
		for i := range w {
			c := 2 * math32.Pi * float32(i) / den
			w[i] = 0.21557895 - 0.41663158*math32.Cos(c) +
				0.277263158*math32.Cos(2*c) -
				0.083578947*math32.Cos(3*c) +
				0.006947368*math32.Cos(4*c)
		}
	case Bartlett:
		for i := range w {
			x := 2 * float32(i) / den
			if x > 1 {
				x = 2 - x
			}
			w[i] = x
		}
	case BartlettHann:
		for i := range w {
			x := float32(i)/den - 0.5
			w[i] = 0.62 - 0.48*math32.Abs(x) + 0.38*math32.Cos(2*math32.Pi*x)
		}
	case Triang:
		// denominators differ by parity so the end samples stay non-zero
		det, add := float32(0.5), 0
		if n&1 == 1 {
			det, add = 1, 1
		}
		for i := range w {
			x := 2 * (float32(i) + det) / float32(n+add)
			if x > 1 {
				x = 2 - x
			}
			w[i] = x
		}
	case Bohman:
		for i := range w {
			x := math32.Abs(-1 + 2*float32(i)/den)
			w[i] = (1-x)*math32.Cos(math32.Pi*x) + math32.Sin(math32.Pi*x)/math32.Pi
		}
	case Kaiser:
		beta := param
		if beta <= 0 {
			beta = DefaultKaiserBeta
		}
		den0 := besselI0(beta)
		for i := range w {
			x := 2*float32(i)/den - 1
			w[i] = besselI0(beta*math32.Sqrt(1-x*x)) / den0
		}
	case Gauss:
		alpha := param
		if alpha <= 0 {
			alpha = DefaultGaussAlpha
		}
		for i := range w {
			x := 2 * alpha * (float32(i) - den/2) / den
			w[i] = math32.Exp(-0.5 * x * x)
		}
	case Tukey:
		alpha := param
		if param < 0 || param > 1 {
			alpha = DefaultTukeyAlpha
		}
		if alpha == 0 {
			for i := range w {
				w[i] = 1
			}
			return w
		}
		if alpha == 1 {
			return symmetric(Hann, n, 0)
		}
		xs := vec.Linspace(0, 1, n)
		for i, x := range xs {
			switch {
			case x < alpha/2:
				w[i] = 0.5 * (1 + math32.Cos(2*math32.Pi/alpha*(x-alpha/2)))
			case x < 1-alpha/2:
				w[i] = 1
			default:
				w[i] = 0.5 * (1 + math32.Cos(2*math32.Pi/alpha*(x-1+alpha/2)))
			}
		}
	default: // Rect
		for i := range w {
			w[i] = 1
		}
	}
	return w
}

func fourTerm(w []float32, a0, a1, a2, a3 float32) {
	den := float32(len(w) - 1)
	for i := range w {
		c := 2 * math32.Pi * float32(i) / den
		w[i] = a0 - a1*math32.Cos(c) + a2*math32.Cos(2*c) - a3*math32.Cos(3*c)
	}
}

// besselI0 is the zeroth-order modified Bessel function of the first kind,
// via the truncated 16-term power series.
func besselI0(a float32) float32 {
	sum := float32(1)
	b := a / 2
	num := float32(1)
	den := float32(1)
	for k := 1; k < 16; k++ {
		num *= b
		den *= float32(k)
		mid := num / den
		sum += mid * mid
	}
	return sum
}

// ForFFT builds the analysis window used in front of an FFT: the periodic
// form, except for the shapes that are only defined symmetric.
func ForFFT(t Type, length int) []float32 {
	switch t {
	case Bartlett, Triang, BartlettHann, Bohman:
		return Create(t, length, false)
	default:
		return Create(t, length, true)
	}
}

// KaiserOrder estimates the Kaiser design order and beta for a transition
// from passband edge w1 to stopband edge w2 (both as fractions of Nyquist in
// (0, 1)) with the target attenuation in dB.
func KaiserOrder(w1, w2, atten float32) (int, float32) {
	if w1 <= 0 || w1 >= 1 || w2 <= 0 || w2 >= 1 {
		return 0, 0
	}
	order := int(math32.Ceil((atten - 7.95) / (math32.Pi * 2.285 * math32.Abs(w1-w2))))
	var beta float32
	if atten > 50 {
		beta = 0.1102 * (atten - 8.7)
	} else if atten >= 21 {
		beta = 0.5842*math32.Pow(atten-21, 0.4) + 0.07886*(atten-21)
	}
	return order, beta
}
