// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stransform

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/chewxy/math32"
	"github.com/emer/etable/etensor"

	"github.com/emer/spectral/fft"
	"github.com/emer/spectral/vec"
)

// FST executes the S-transform through a dyadic partition of the spectrum:
// one shifted forward FFT, per-segment inverse FFTs, and a reorder into the
// (fftLength/2+1) × fftLength time-frequency plane through a precomputed
// index map.
type FST struct {
	fftLength int
	radix2Exp int

	fftObj  *fft.FFT
	segFFTs []*fft.FFT // exps radix2Exp-2 down to 1

	norm float32 // 1/sqrt(fftLength)

	lenArr   []int   // 2*radix2Exp dyadic segment lengths
	indexMap []int32 // (fftLength/2+1) × fftLength reorder map

	realArr1 []float32
	imagArr1 []float32

	realArr2 []float32
	imagArr2 []float32

	curData []float32 // ifftshift cache
}

// NewFST builds a fast S-transform. radix2Exp must be at least 3 (8 samples).
func NewFST(radix2Exp int, debug bool) (*FST, error) {
	if radix2Exp < 3 || radix2Exp > 30 {
		return nil, fmt.Errorf("fst: radix2Exp %d: %w", radix2Exp, ErrParamRange)
	}
	fftLength := 1 << radix2Exp
	fftObj, err := fft.NewFFT(radix2Exp)
	if err != nil {
		return nil, err
	}
	f := &FST{
		fftLength: fftLength,
		radix2Exp: radix2Exp,
		fftObj:    fftObj,
		norm:      1 / math32.Sqrt(float32(fftLength)),
		realArr1:  make([]float32, fftLength),
		imagArr1:  make([]float32, fftLength),
		realArr2:  make([]float32, fftLength),
		imagArr2:  make([]float32, fftLength),
		curData:   make([]float32, fftLength),
	}
	f.segFFTs = make([]*fft.FFT, radix2Exp-2)
	for i, j := radix2Exp-2, 0; i >= 1; i, j = i-1, j+1 {
		f.segFFTs[j], _ = fft.NewFFT(i)
	}
	f.initPartition()
	f.initReassign()

	if debug {
		log.Debug("fst", "fftLength", fftLength, "segments", len(f.lenArr))
	}
	return f, nil
}

// initPartition lays out the 2n dyadic segment lengths: a descending run
// 1, 2^(n−2), …, 4, 2 mirrored about three unit segments at the center, the
// whole summing to 2^n.
func (f *FST) initPartition() {
	n := 2 * f.radix2Exp
	lenArr := make([]int, n)
	lenArr[0] = 1
	lenArr[n/2-1] = 1
	lenArr[n/2] = 1
	for i, e := 1, f.radix2Exp-2; i < n/2-1; i, e = i+1, e-1 {
		lenArr[i] = 1 << e
	}
	for i, e := n/2+1, 0; i < n; i, e = i+1, e+1 {
		lenArr[i] = 1 << e
	}
	f.lenArr = lenArr
}

// initReassign precomputes the index map M[i][j]: row fftLength/2 − b holds
// positive-frequency bin b, columns follow the owning segment's time-local
// order.
func (f *FST) initReassign() {
	n := f.fftLength
	m := make([]int32, (n/2+1)*n)
	value := int32(0)
	used := 0
	for i := 0; i < 2*f.radix2Exp; i++ {
		len1 := f.lenArr[i]
		len2 := n / len1
		used += len1
		index1 := n - used
		for j := 0; j < len1; j++ {
			index2 := len2 * j
			for k := index1; k < index1+len1; k++ {
				if k < n/2+1 {
					row := m[k*n:]
					for l := index2; l < index2+len2; l++ {
						row[l] = value
					}
				}
			}
			value++
		}
	}
	f.indexMap = m
}

// FFTLength returns the transform length.
func (f *FST) FFTLength() int { return f.fftLength }

// Transform computes the fast S-transform over the analysis bins
// [minIndex, maxIndex], filling dstR/dstI as (maxIndex−minIndex+1) ×
// fftLength planes. Indices are clamped to [0, fftLength/2]; a pair with
// minIndex > maxIndex falls back to the full half spectrum.
func (f *FST) Transform(data []float32, minIndex, maxIndex int, dstR, dstI *etensor.Float32) error {
	n := f.fftLength
	if len(data) != n {
		return fmt.Errorf("fst: data length %d want %d: %w", len(data), n, ErrParamRange)
	}
	if minIndex < 0 {
		minIndex = 0
	}
	if maxIndex > n/2 {
		maxIndex = n / 2
	}
	if minIndex > maxIndex {
		minIndex = 0
		maxIndex = n / 2
	}

	// ifftshift, forward, fftshift
	copy(f.curData, data[n/2:])
	copy(f.curData[n/2:], data[:n/2])
	f.fftObj.Forward(f.curData, nil, f.realArr2, f.imagArr2)
	fftshift(f.realArr2, f.realArr1)
	fftshift(f.imagArr2, f.imagArr1)
	vec.MulValue(f.realArr1, f.norm, nil)
	vec.MulValue(f.imagArr1, f.norm, nil)

	// per-segment inverse with local shifts, in place over the spectrum
	index := 1
	for i, j := 1, 0; i < f.radix2Exp-1; i, j = i+1, j+1 {
		f.segment(index, f.lenArr[i], f.segFFTs[j])
		index += f.lenArr[i]
	}
	index += 3
	for i, j := f.radix2Exp+2, f.radix2Exp-3; i < 2*f.radix2Exp; i, j = i+1, j-1 {
		f.segment(index, f.lenArr[i], f.segFFTs[j])
		index += f.lenArr[i]
	}

	// reorder through the index map
	rows := maxIndex - minIndex + 1
	dstR.SetShape([]int{rows, n}, nil, []string{"freq", "time"})
	dstI.SetShape([]int{rows, n}, nil, []string{"freq", "time"})
	for i, k := n/2-minIndex, 0; i >= n/2-maxIndex; i, k = i-1, k+1 {
		mrow := f.indexMap[i*n : (i+1)*n]
		outR := dstR.Values[k*n : (k+1)*n]
		outI := dstI.Values[k*n : (k+1)*n]
		for j, idx := range mrow {
			outR[j] = f.realArr1[idx]
			outI[j] = f.imagArr1[idx]
		}
	}
	return nil
}

// segment runs ifftshift → inverse FFT → √len scaling → fftshift over one
// dyadic slice of the shifted spectrum, in place.
func (f *FST) segment(index, length int, plan *fft.FFT) {
	half := length / 2
	copy(f.realArr2[:length], f.realArr1[index:index+length])
	copy(f.imagArr2[:length], f.imagArr1[index:index+length])
	copy(f.realArr1[index:], f.realArr2[half:length])
	copy(f.realArr1[index+half:], f.realArr2[:half])
	copy(f.imagArr1[index:], f.imagArr2[half:length])
	copy(f.imagArr1[index+half:], f.imagArr2[:half])

	plan.Inverse(f.realArr1[index:index+length], f.imagArr1[index:index+length],
		f.realArr2[:length], f.imagArr2[:length])

	nrm := math32.Sqrt(float32(length))
	vec.MulValue(f.realArr2[:length], nrm, nil)
	vec.MulValue(f.imagArr2[:length], nrm, nil)

	copy(f.realArr1[index:], f.realArr2[half:length])
	copy(f.realArr1[index+half:], f.realArr2[:half])
	copy(f.imagArr1[index:], f.imagArr2[half:length])
	copy(f.imagArr1[index+half:], f.imagArr2[:half])
}

// fftshift swaps the halves of src into dst.
func fftshift(src, dst []float32) {
	n := len(src)
	copy(dst, src[n/2:])
	copy(dst[n/2:], src[:n/2])
}
