// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vocoder implements spectrogram resynthesis with unwrapped-phase
// advance, and the time-stretch / pitch-shift pipeline composed from it.
package vocoder

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/emer/etable/etensor"

	"github.com/emer/spectral/vec"
)

// ErrParamRange reports a parameter outside its domain.
var ErrParamRange = errors.New("parameter out of range")

// PhaseVocoder maps a timeLength × fftLength STFT to ⌈timeLength/rate⌉
// output frames: magnitudes linearly interpolated between neighboring input
// frames, phases advanced by the expected per-hop increment plus the wrapped
// deviation, the negative half filled by Hermitian symmetry.
func PhaseVocoder(srcR, srcI *etensor.Float32, slideLength int, rate float32,
	dstR, dstI *etensor.Float32) error {
	if rate <= 0 {
		return fmt.Errorf("vocoder: rate %g: %w", rate, ErrParamRange)
	}
	nLength := srcR.Dim(0)
	mLength := srcR.Dim(1)
	fLen := mLength/2 + 1
	tLen := int(math32.Ceil(float32(nLength) / rate))

	dstR.SetShape([]int{tLen, mLength}, nil, []string{"time", "freq"})
	dstI.SetShape([]int{tLen, mLength}, nil, []string{"time", "freq"})

	// expected phase advance per hop for each bin
	phiArr := vec.Linspace(0, math32.Pi*float32(slideLength), fLen)

	phase := make([]float32, fLen)
	vec.CAngle(srcR.Values[:fLen], srcI.Values[:fLen], phase)

	zero := make([]float32, fLen)
	mag1 := make([]float32, fLen)
	mag2 := make([]float32, fLen)
	ang1 := make([]float32, fLen)
	ang2 := make([]float32, fLen)

	for i := 0; i < tLen; i++ {
		t := float32(i) * rate
		k := int(math32.Floor(t))
		alpha := t - math32.Floor(t)

		r1, i1 := zero, zero
		if k < nLength {
			r1 = srcR.Values[k*mLength : k*mLength+fLen]
			i1 = srcI.Values[k*mLength : k*mLength+fLen]
		}
		r2, i2 := zero, zero
		if k+1 < nLength {
			r2 = srcR.Values[(k+1)*mLength : (k+1)*mLength+fLen]
			i2 = srcI.Values[(k+1)*mLength : (k+1)*mLength+fLen]
		}

		vec.CAbs(r1, i1, mag1)
		vec.CAbs(r2, i2, mag2)

		outR := dstR.Values[i*mLength : (i+1)*mLength]
		outI := dstI.Values[i*mLength : (i+1)*mLength]
		for j := 0; j < fLen; j++ {
			mag := (1-alpha)*mag1[j] + alpha*mag2[j]
			outR[j] = mag * math32.Cos(phase[j])
			outI[j] = mag * math32.Sin(phase[j])
		}
		// Hermitian fill of the negative half
		for j, l := fLen, mLength/2-1; j < mLength; j, l = j+1, l-1 {
			outR[j] = outR[l]
			outI[j] = -outI[l]
		}

		// advance the accumulator by the wrapped deviation from the
		// nominal increment
		vec.CAngle(r2, i2, ang1)
		vec.CAngle(r1, i1, ang2)
		for j := 0; j < fLen; j++ {
			dev := ang1[j] - ang2[j] - phiArr[j]
			dev -= 2 * math32.Pi * math32.Round(dev/(2*math32.Pi))
			phase[j] += phiArr[j] + dev
		}
	}
	return nil
}
