// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filterbank

import (
	"fmt"

	"github.com/emer/etable/etensor"

	"github.com/emer/spectral/scale"
	"github.com/emer/spectral/vec"
	"github.com/emer/spectral/window"
)

// Auditory builds a perceptual bandpass weight matrix of num rows over the
// positive half spectrum (fftLength/2+1 columns, or fftLength when pseudo is
// set). It returns the matrix together with the band center frequencies and
// their FFT bin indices.
func Auditory(num, fftLength, samplate int, pseudo bool,
	scaleType scale.Type, style StyleType, normal NormalType,
	lowFre, highFre float32, binPerOctave int) (*etensor.Float32, []float32, []int, error) {
	if num < 1 || fftLength < 2 || samplate < 1 {
		return nil, nil, nil, fmt.Errorf("filterbank: num %d fftLength %d samplate %d: %w",
			num, fftLength, samplate, ErrParamRange)
	}
	if scaleType < 0 || scaleType >= scale.TypeN {
		return nil, nil, nil, fmt.Errorf("filterbank: scale %d: %w", int(scaleType), ErrParamRange)
	}

	// gammatone bands carry their own edges; every other style reserves a
	// guard position on each side
	includesEdges := style == StyleGammatone
	det, offset := 2, 1
	if includesEdges {
		det, offset = 0, 0
	}

	lowFre, highFre, ref := reviseEdges(num, scaleType, lowFre, highFre,
		samplate, fftLength, binPerOctave, includesEdges)

	freBand, binBand := bandEdges(num, det, fftLength, samplate, lowFre, highFre,
		scaleType, ref, style == StyleSlaney)

	mLength := fftLength/2 + 1
	if pseudo {
		mLength = fftLength
	}
	bank := etensor.NewFloat32([]int{num, mLength}, nil, nil)

	switch {
	case scaleType == scale.Linear:
		linearBank(bank.Values, num, mLength, binBand)
	case style == StyleSlaney:
		slaneyBank(bank.Values, num, mLength, fftLength, samplate, normal, freBand, binBand)
	case style == StyleETSI:
		etsiBank(bank.Values, num, mLength, normal, freBand, binBand)
	case style == StyleGammatone:
		gammatoneBank(bank.Values, num, mLength, fftLength, samplate, pseudo, normal, freBand)
	default:
		windowBank(bank.Values, num, mLength, style, normal, freBand, binBand)
	}

	return bank, freBand[offset : offset+num], binBand[offset : offset+num], nil
}

// linearBank marks a single bin per band; the linear axis has no shaped
// passband.
func linearBank(m []float32, num, mLength int, binBand []int) {
	for i := 1; i < num+1; i++ {
		binBand[i]--
		m[(i-1)*mLength+binBand[i]] = 1
	}
}

// etsiBank fills triangles in bin space.
func etsiBank(m []float32, num, mLength int, normal NormalType, freBand []float32, binBand []int) {
	for i := 1; i < num+1; i++ {
		left, cur, right := binBand[i-1], binBand[i], binBand[i+1]
		row := m[(i-1)*mLength : i*mLength]
		if cur > left {
			for j := left; j <= cur; j++ {
				row[j] = float32(j-left) / float32(cur-left)
			}
		}
		for j := cur + 1; j <= right; j++ {
			row[j] = float32(right-j) / float32(right-cur)
		}
	}
	normalizeBank(m, num, mLength, normal, freBand)
}

// slaneyBank fills triangles in Hz space over the linear frequency grid.
func slaneyBank(m []float32, num, mLength, fftLength, samplate int, normal NormalType, freBand []float32, binBand []int) {
	lin := vec.Linspace(0, float32(samplate)-float32(samplate)/float32(fftLength), fftLength)
	widths := make([]float32, num+1)
	for i := 0; i <= num; i++ {
		widths[i] = freBand[i+1] - freBand[i]
	}
	for i := 0; i < num; i++ {
		row := m[i*mLength : (i+1)*mLength]
		for j := binBand[i]; j <= binBand[i+1]-1; j++ {
			row[j] = (lin[j] - freBand[i]) / widths[i]
		}
		for j := binBand[i+1]; j <= binBand[i+2]-1; j++ {
			row[j] = (freBand[i+2] - lin[j]) / widths[i+1]
		}
	}
	normalizeBank(m, num, mLength, normal, freBand)
}

// windowBank places scaled window profiles between adjacent band edges.
func windowBank(m []float32, num, mLength int, style StyleType, normal NormalType, freBand []float32, binBand []int) {
	for i := 1; i < num+1; i++ {
		left, cur, right := binBand[i-1], binBand[i], binBand[i+1]
		row := m[(i-1)*mLength : i*mLength]
		switch style {
		case StylePoint:
			row[cur] = 1
		case StyleRect:
			for j := left; j <= right; j++ {
				row[j] = 1
			}
		default:
			if cur > left {
				w := styleWindow(style, 2*(cur-left)+1)
				for j, k := left, 0; j <= cur; j, k = j+1, k+1 {
					row[j] = w[k]
				}
			}
			if right > cur {
				w := styleWindow(style, 2*(right-cur)+1)
				half := (2*(right-cur) + 1) / 2
				for j, k := cur+1, half+1; j <= right; j, k = j+1, k+1 {
					row[j] = w[k]
				}
			}
		}
	}
	normalizeBank(m, num, mLength, normal, freBand)
}

// styleWindow maps a window-shaped style onto its symmetric window.
func styleWindow(style StyleType, length int) []float32 {
	switch style {
	case StyleHann:
		return window.Create(window.Hann, length, false)
	case StyleHamm:
		return window.Create(window.Hamm, length, false)
	case StyleBlackman:
		return window.Create(window.Blackman, length, false)
	case StyleBohman:
		return window.Create(window.Bohman, length, false)
	case StyleKaiser:
		return window.Create(window.Kaiser, length, false)
	default:
		return window.Create(window.Gauss, length, false)
	}
}

// normalizeBank applies Area or BandWidth row normalization. freBand still
// carries the guard edges, so freBand[k+2]-freBand[k] spans one band.
func normalizeBank(m []float32, num, mLength int, normal NormalType, freBand []float32) {
	if normal != NormalArea && normal != NormalBandWidth {
		return
	}
	weights := make([]float32, num)
	if normal == NormalArea {
		vec.MatSumRows(m, num, mLength, weights)
	} else {
		for i := 0; i < num; i++ {
			weights[i] = (freBand[i+2] - freBand[i]) / 2
		}
	}
	vec.MatDivRows(m, num, mLength, weights)
}
