// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scale maps between frequency in Hz and the perceptual or musical
// axes the filter banks are laid out on. Every axis carries an exact inverse.
package scale

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// ErrEdgeOverflow reports that a requested (num, lowFre, spacing) combination
// would place a band edge above the Nyquist frequency.
var ErrEdgeOverflow = errors.New("band edge above nyquist")

// Type enumerates the frequency axes.
type Type int

const (
	Linear Type = iota
	Linspace
	Mel
	Bark
	Erb
	Octave
	LogSpace
	LogChroma

	TypeN
)

var typeNames = []string{"Linear", "Linspace", "Mel", "Bark", "Erb",
	"Octave", "LogSpace", "LogChroma"}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "Unknown"
	}
	return typeNames[t]
}

// FreqToMel converts frequency to mel scale.
func FreqToMel(fre float32) float32 {
	return 2595 * math32.Log10(1+fre/700)
}

// MelToFreq converts mel scale to frequency.
func MelToFreq(mel float32) float32 {
	return 700 * (math32.Pow(10, mel/2595) - 1)
}

// FreqToBark converts frequency to the bark scale, with the piecewise
// corrections below 2 bark and above 20.1 bark.
func FreqToBark(fre float32) float32 {
	bark := 26.81*fre/(1960+fre) - 0.53
	if bark < 2 {
		bark += 0.15 * (2 - bark)
	} else if bark > 20.1 {
		bark += 0.22 * (bark - 20.1)
	}
	return bark
}

// BarkToFreq converts bark scale to frequency.
func BarkToFreq(bark float32) float32 {
	if bark < 2 {
		bark = (bark - 0.3) / 0.85
	} else if bark > 20.1 {
		bark = (bark + 4.422) / 1.22
	}
	return 1960 * (bark + 0.53) / (26.28 - bark)
}

// erbA is the ERB-rate scale factor, close to 1000*ln(10)/(24.7*4.37) ≈ 21.33
const erbA = 21.3654

// FreqToErb converts frequency to the equivalent-rectangular-bandwidth scale.
func FreqToErb(fre float32) float32 {
	return erbA * math32.Log10(1+fre*0.004368)
}

// ErbToFreq converts erb scale to frequency.
func ErbToFreq(erb float32) float32 {
	return (math32.Pow(10, erb/erbA) - 1) / 0.004368
}

// FreqToOctave converts frequency to the octave bin index relative to A4,
// round(binPerOctave*log2(f/440)).
func FreqToOctave(fre float32, binPerOctave float32) float32 {
	return math32.Round(binPerOctave * math32.Log2(fre/440))
}

// OctaveToFreq converts an octave bin index back to frequency.
func OctaveToFreq(value float32, binPerOctave float32) float32 {
	return math32.Pow(2, value/binPerOctave) * 440
}

// FreqToLogSpace converts frequency to the continuous log2 axis relative to
// A4.
func FreqToLogSpace(fre float32) float32 {
	return math32.Log2(fre / 440)
}

// LogSpaceToFreq converts the log2 axis back to frequency.
func LogSpaceToFreq(value float32) float32 {
	return math32.Pow(2, value) * 440
}

// FreqToLinear converts frequency to the bin index of a linear axis with the
// given bin spacing.
func FreqToLinear(fre float32, detFre float32) float32 {
	return math32.Round(fre / detFre)
}

// LinearToFreq converts a linear bin index back to frequency.
func LinearToFreq(value float32, detFre float32) float32 {
	return value * detFre
}

// FreqToMidi converts frequency to the nearest midi note number.
func FreqToMidi(fre float32) int {
	return int(math32.Round(12*math32.Log2(fre/440) + 69))
}

// MidiToFreq converts a midi note number to frequency.
func MidiToFreq(midi int) float32 {
	return math32.Pow(2, float32(midi-69)/12) * 440
}

// Forward maps frequency onto the axis. ref carries the axis reference:
// binPerOctave for Octave/LogChroma, the bin spacing for Linear, unused
// otherwise.
func (t Type) Forward(fre, ref float32) float32 {
	switch t {
	case Linear:
		return FreqToLinear(fre, ref)
	case Mel:
		return FreqToMel(fre)
	case Bark:
		return FreqToBark(fre)
	case Erb:
		return FreqToErb(fre)
	case Octave, LogChroma:
		return FreqToOctave(fre, ref)
	case LogSpace:
		return FreqToLogSpace(fre)
	default: // Linspace
		return fre
	}
}

// Inverse maps an axis value back to frequency.
func (t Type) Inverse(value, ref float32) float32 {
	switch t {
	case Linear:
		return LinearToFreq(value, ref)
	case Mel:
		return MelToFreq(value)
	case Bark:
		return BarkToFreq(value)
	case Erb:
		return ErbToFreq(value)
	case Octave, LogChroma:
		return OctaveToFreq(value, ref)
	case LogSpace:
		return LogSpaceToFreq(value)
	default:
		return value
	}
}

// ReviseOctave adjusts (lowFre, highFre) so num bands sit exactly on the
// octave grid. includesEdges is true for banks whose bands already carry
// their own edges (gammatone); otherwise a guard position is reserved on each
// side.
func ReviseOctave(num int, lowFre, highFre float32, binPerOctave int, includesEdges bool) (float32, float32) {
	det, offset := 0, 0
	if !includesEdges {
		det, offset = 2, 1
	}
	low := FreqToOctave(lowFre, float32(binPerOctave)) - float32(offset)
	high := low + float32(num-1+det)
	return OctaveToFreq(low, float32(binPerOctave)), OctaveToFreq(high, float32(binPerOctave))
}

// ReviseLinear adjusts (lowFre, highFre) onto the linear bin grid with
// spacing detFre.
func ReviseLinear(num int, lowFre, highFre, detFre float32, includesEdges bool) (float32, float32) {
	det, offset := 0, 0
	if !includesEdges {
		det, offset = 2, 1
	}
	low := math32.Round(lowFre/detFre) - float32(offset)
	high := low + float32(num-1+det)
	return low * detFre, high * detFre
}

// ReviseLinspace widens (lowFre, highFre) by one band spacing on each side
// when guard edges are needed.
func ReviseLinspace(num int, lowFre, highFre float32, includesEdges bool) (float32, float32) {
	if includesEdges {
		return lowFre, highFre
	}
	det := (highFre - lowFre) / float32(num-1)
	return lowFre - det, highFre + det
}

// ReviseLogSpace widens (lowFre, highFre) by one log2 spacing on each side
// when guard edges are needed.
func ReviseLogSpace(num int, lowFre, highFre float32, includesEdges bool) (float32, float32) {
	if includesEdges {
		return lowFre, highFre
	}
	low := FreqToLogSpace(lowFre)
	high := FreqToLogSpace(highFre)
	det := (high - low) / float32(num-1)
	return LogSpaceToFreq(low - det), LogSpaceToFreq(high + det)
}

// ReviseMidi adjusts (lowFre, highFre) onto the midi note grid.
func ReviseMidi(num int, lowFre, highFre float32, includesEdges bool) (float32, float32) {
	det, offset := 0, 0
	if !includesEdges {
		det, offset = 2, 1
	}
	low := float32(FreqToMidi(lowFre) - offset)
	high := low + float32(num-1+det)
	return MidiToFreq(int(low)), MidiToFreq(int(high))
}

// CheckNyquist verifies a revised high edge stays at or below samplate/2.
func CheckNyquist(highFre float32, samplate int) error {
	if highFre > float32(samplate)/2 {
		return fmt.Errorf("high edge %.2f at samplate %d: %w", highFre, samplate, ErrEdgeOverflow)
	}
	return nil
}
