// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filterbank

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/emer/spectral/scale"
	"github.com/emer/spectral/vec"
	"github.com/emer/spectral/window"
)

// NSGTBankType selects the window-length rule of a nonstationary Gabor bank.
type NSGTBankType int

const (
	// NSGTEfficient uses symmetric windows sized to twice the larger
	// half-bandwidth, keeping low bands from bleeding into earlier ones.
	NSGTEfficient NSGTBankType = iota
	// NSGTStandard uses periodic windows spanning the full bandwidth, the
	// textbook construction.
	NSGTStandard
)

// NSGTBank is a frequency-adaptive window set: one window per band with its
// own length and spectrum offset, packed into a flat buffer.
type NSGTBank struct {
	Num     int
	Windows []float32 // packed window samples, Σ Lengths
	Lengths []int     // per-band window length
	Offsets []int     // per-band start bin (center − length/2, clamped at 0)
	FreBand []float32 // band center frequencies
	BinBand []int     // band center bins

	MaxLength   int
	TotalLength int
}

// NSGT builds the window set for num bands over a length-dataLength spectrum.
// Gammatone has no windowed counterpart here and is rejected.
func NSGT(num, dataLength, samplate, minLength int, bankType NSGTBankType,
	scaleType scale.Type, style StyleType, normal NormalType,
	lowFre, highFre float32, binPerOctave int) (*NSGTBank, error) {
	if num < 1 || dataLength < 2 || minLength < 1 {
		return nil, fmt.Errorf("nsgt bank: num %d dataLength %d minLength %d: %w",
			num, dataLength, minLength, ErrParamRange)
	}
	if style == StyleGammatone {
		return nil, fmt.Errorf("nsgt bank: gammatone style: %w", ErrDomainRequirement)
	}

	lowFre, highFre, ref := reviseEdges(num, scaleType, lowFre, highFre,
		samplate, dataLength, binPerOctave, false)
	freBand, binBand := bandEdges(num, 2, dataLength, samplate, lowFre, highFre,
		scaleType, ref, false)

	lengths := make([]int, num)
	for i := 0; i < num; i++ {
		left, cur, right := binBand[i], binBand[i+1], binBand[i+2]
		if bankType == NSGTStandard {
			lengths[i] = right - left + 1
		} else {
			if right-left >= 1 {
				v := cur - left
				if right-cur > v {
					v = right - cur
				}
				lengths[i] = 2*v + 1
			}
		}
		if lengths[i] < minLength {
			lengths[i] = minLength
		}
	}

	total := vec.SumInt(lengths)
	bank := &NSGTBank{
		Num:         num,
		Windows:     make([]float32, total),
		Lengths:     lengths,
		Offsets:     make([]int, num),
		FreBand:     append([]float32(nil), freBand[1:1+num]...),
		BinBand:     append([]int(nil), binBand[1:1+num]...),
		MaxLength:   vec.MaxInt(lengths),
		TotalLength: total,
	}

	periodic := bankType == NSGTStandard
	index := 0
	for i := 0; i < num; i++ {
		ln := lengths[i]
		off := binBand[i+1] - ln/2
		if off < 0 {
			off = 0
		}
		bank.Offsets[i] = off

		w := nsgtWindow(style, ln, periodic)
		if normal == NormalBandWidth {
			vec.DivValue(w, math32.Sqrt(float32(ln)), nil)
		}
		copy(bank.Windows[index:], w)
		index += ln
	}
	return bank, nil
}

// Window returns the window samples of band k.
func (b *NSGTBank) Window(k int) []float32 {
	start := 0
	for i := 0; i < k; i++ {
		start += b.Lengths[i]
	}
	return b.Windows[start : start+b.Lengths[k]]
}

// nsgtWindow maps bank styles onto windows; the triangle styles keep their
// Hz-space and bin-space flavors.
func nsgtWindow(style StyleType, length int, periodic bool) []float32 {
	switch style {
	case StyleSlaney:
		return window.Create(window.Triang, length, periodic)
	case StyleETSI:
		return window.Create(window.Bartlett, length, periodic)
	case StyleHann:
		return window.Create(window.Hann, length, periodic)
	case StyleHamm:
		return window.Create(window.Hamm, length, periodic)
	case StyleBlackman:
		return window.Create(window.Blackman, length, periodic)
	case StyleBohman:
		return window.Create(window.Bohman, length, periodic)
	case StyleKaiser:
		return window.Create(window.Kaiser, length, periodic)
	case StyleGauss:
		return window.Create(window.Gauss, length, periodic)
	default:
		return vec.NewValue(length, 1)
	}
}
