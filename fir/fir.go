// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fir designs finite impulse response filters by the window method:
// ideal sinc sampling, windowing, and gain normalization. High-pass and
// band-stop designs require an even order so the response stays symmetric
// about a whole tap.
package fir

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/emer/spectral/vec"
	"github.com/emer/spectral/window"
)

// ErrDomainRequirement reports a design rejected on a structural constraint.
var ErrDomainRequirement = errors.New("domain requirement not met")

// BandType selects the filter response.
type BandType int

const (
	LowPass BandType = iota
	HighPass
	BandPass
	BandStop
)

// Design designs an order-N filter (N+1 taps) with the given window type and
// cutoffs, each a fraction of the sample rate. cut2 is ignored for low/high
// pass. A negative winParam selects the window default.
func Design(order int, bandType BandType, cut1, cut2 float32, winType window.Type, winParam float32, noScale bool) ([]float32, error) {
	win := window.CreateParam(winType, order+1, false, winParam)
	return DesignWith(order, bandType, cut1, cut2, win, noScale)
}

// DesignWith designs with explicit window samples (order+1 of them).
func DesignWith(order int, bandType BandType, cut1, cut2 float32, win []float32, noScale bool) ([]float32, error) {
	if bandType == HighPass || bandType == BandStop {
		if order%2 != 0 {
			return nil, fmt.Errorf("fir: %v order %d must be even: %w", bandType, order, ErrDomainRequirement)
		}
	}

	b := vec.Linspace(-float32(order)/2, float32(order)/2, order+1)
	switch bandType {
	case LowPass:
		vec.SincLowPass(b, cut1, nil)
	case HighPass:
		vec.SincHighPass(b, cut1, nil)
	case BandPass:
		vec.SincBandPass(b, cut1, cut2, nil)
	case BandStop:
		vec.SincBandStop(b, cut1, cut2, nil)
	}
	vec.Mul(b, win, nil)

	if !noScale {
		switch bandType {
		case LowPass, BandStop:
			// unity gain at DC
			vec.DivValue(b, vec.Sum(b), nil)
		case HighPass:
			scalePassband(b, 0.5)
		case BandPass:
			scalePassband(b, (cut1+cut2)/2)
		}
	}
	return b, nil
}

// scalePassband normalizes for unity gain at the given frequency (as a
// fraction of the sample rate).
func scalePassband(b []float32, freq float32) {
	var r, im float32
	for i, x := range b {
		r += math32.Cos(2*math32.Pi*float32(i)*freq) * x
		im += -math32.Sin(2*math32.Pi*float32(i)*freq) * x
	}
	vec.DivValue(b, math32.Hypot(r, im), nil)
}

func (t BandType) String() string {
	switch t {
	case LowPass:
		return "LowPass"
	case HighPass:
		return "HighPass"
	case BandPass:
		return "BandPass"
	default:
		return "BandStop"
	}
}

// Smooth1 returns the odd-order first-derivative smoothing kernel used for
// delta features.
func Smooth1(order int) ([]float32, error) {
	if order&1 == 0 {
		return nil, fmt.Errorf("fir: smooth order %d must be odd: %w", order, ErrDomainRequirement)
	}
	arr := make([]float32, order+1)
	m := order / 2
	var v1 float32
	for i := 1; i <= m; i++ {
		v1 += float32(i * i)
	}
	for i, j := m, 0; i >= -m; i, j = i-1, j+1 {
		arr[j] = float32(i) / v1
	}
	return arr, nil
}

// Mean returns the length-order moving average kernel.
func Mean(order int) []float32 {
	return vec.NewValue(order, 1/float32(order))
}

// Filter runs the direct-form difference equation
// y[i] = Σ b[j]·x[i−j] − Σ a[k+1]·y[i−k−1], with a[0] assumed 1.
func Filter(b, a, x, y []float32) {
	y[0] = b[0] * x[0]
	for i := 1; i < len(x); i++ {
		var acc float32
		for j := 0; j < len(b) && j <= i; j++ {
			acc += b[j] * x[i-j]
		}
		for k := 0; k < len(a)-1 && k < i; k++ {
			acc -= a[k+1] * y[i-k-1]
		}
		y[i] = acc
	}
}

// Delta computes delta features over an odd-order smoothing kernel.
func Delta(x []float32, order int, dst []float32) error {
	b, err := Smooth1(order)
	if err != nil {
		return err
	}
	Filter(b, []float32{1}, x, dst)
	return nil
}
