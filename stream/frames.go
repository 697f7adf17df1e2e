// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stream implements the frame manager shared by the pitch estimators
// and the phase-vocoder pipeline: a tail-buffer protocol carrying the
// residue between calls, and an elastic active buffer the frames are
// materialized from.
//
// The contract: for any split of a stream into chunks fed with continue
// mode on, the concatenated per-chunk frames equal the single-shot frames of
// the whole stream, with the last sub-slide residue deferred to future
// calls.
package stream

import (
	"errors"
	"fmt"
)

// ErrParamRange reports a construction parameter outside its domain.
var ErrParamRange = errors.New("parameter out of range")

// FrameEngine slices a sample stream into overlapping frames of FFTLength
// samples every SlideLength.
type FrameEngine struct {
	FFTLength   int
	SlideLength int
	IsContinue  bool

	tail    []float32 // FFTLength capacity
	tailLen int       // may be negative: samples to skip from the next input

	active    []float32
	activeLen int

	timeLength int
}

// NewFrameEngine creates a frame engine. A slide larger than the frame is
// allowed (gapped analysis); the tail length then goes negative between
// calls.
func NewFrameEngine(fftLength, slideLength int, isContinue bool) (*FrameEngine, error) {
	if fftLength < 1 || slideLength < 1 {
		return nil, fmt.Errorf("stream: fftLength %d slideLength %d: %w",
			fftLength, slideLength, ErrParamRange)
	}
	return &FrameEngine{
		FFTLength:   fftLength,
		SlideLength: slideLength,
		IsContinue:  isContinue,
		tail:        make([]float32, fftLength),
	}, nil
}

// TimeLength returns the number of frames a Push of dataLength samples
// would emit, counting the current tail.
func (e *FrameEngine) TimeLength(dataLength int) int {
	total := dataLength
	if e.IsContinue {
		total += e.tailLen
	}
	if total < e.FFTLength {
		return 0
	}
	return (total-e.FFTLength)/e.SlideLength + 1
}

// Push absorbs a chunk and returns the number of frames now available
// through Frame. Zero frames means the input was consumed into the tail
// buffer (stream underflow; not an error).
func (e *FrameEngine) Push(data []float32) int {
	dataLength := len(data)
	total := dataLength
	if e.IsContinue {
		total += e.tailLen
	}

	if total < e.FFTLength {
		// underflow: accumulate and wait for more
		if e.IsContinue {
			if e.tailLen >= 0 {
				copy(e.tail[e.tailLen:], data)
			} else if -e.tailLen < dataLength {
				copy(e.tail, data[-e.tailLen:])
			}
		}
		e.tailLen = total
		e.timeLength = 0
		return 0
	}

	timeLen := (total-e.FFTLength)/e.SlideLength + 1
	nextTail := (total-e.FFTLength)%e.SlideLength + (e.FFTLength - e.SlideLength)

	if total > len(e.active) || len(e.active) > 2*total {
		e.active = make([]float32, total+e.FFTLength)
	}

	e.activeLen = 0
	if e.IsContinue && e.tailLen < 0 {
		copy(e.active, data[-e.tailLen:])
		e.activeLen = dataLength + e.tailLen
	} else {
		if e.IsContinue && e.tailLen > 0 {
			copy(e.active, e.tail[:e.tailLen])
			e.activeLen = e.tailLen
		}
		copy(e.active[e.activeLen:], data)
		e.activeLen += dataLength
	}

	if e.IsContinue {
		if nextTail > 0 {
			copy(e.tail, e.active[e.activeLen-nextTail:e.activeLen])
		}
		e.tailLen = nextTail
	} else {
		e.tailLen = 0
	}

	e.timeLength = timeLen
	return timeLen
}

// Frame returns frame i of the last Push, a borrowed slice of the active
// buffer valid until the next Push.
func (e *FrameEngine) Frame(i int) []float32 {
	start := i * e.SlideLength
	return e.active[start : start+e.FFTLength]
}

// FrameCount returns the frame count of the last Push.
func (e *FrameEngine) FrameCount() int { return e.timeLength }

// Reset clears the tail so the next Push starts a fresh stream.
func (e *FrameEngine) Reset() {
	e.tailLen = 0
	e.timeLength = 0
}
