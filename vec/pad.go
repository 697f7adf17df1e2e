// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vec

// PadMode selects how samples beyond the signal boundary are synthesized.
type PadMode int

const (
	// PadReflect mirrors across the boundary without repeating the edge
	// sample: [a b c d] -> c b | a b c d | c b.
	PadReflect PadMode = iota
	// PadWrap repeats the signal periodically.
	PadWrap
	// PadSymmetric mirrors across the boundary repeating the edge sample.
	PadSymmetric
	// PadEdge repeats the boundary sample.
	PadEdge
	// PadConstant fills with a fixed value.
	PadConstant
)

// Pad extends v by left and right samples on each side per the mode and
// returns the padded copy. value is only used by PadConstant.
func Pad(v []float32, left, right int, mode PadMode, value float32) []float32 {
	n := len(v)
	out := make([]float32, left+n+right)
	copy(out[left:], v)
	for j := 0; j < left; j++ {
		out[left-1-j] = padSample(v, -1-j, mode, value)
	}
	for j := 0; j < right; j++ {
		out[left+n+j] = padSample(v, n+j, mode, value)
	}
	return out
}

func padSample(v []float32, i int, mode PadMode, value float32) float32 {
	n := len(v)
	switch mode {
	case PadReflect:
		// period of the reflected extension is 2n-2
		if n == 1 {
			return v[0]
		}
		p := 2*n - 2
		i = ((i % p) + p) % p
		if i >= n {
			i = p - i
		}
		return v[i]
	case PadWrap:
		return v[((i%n)+n)%n]
	case PadSymmetric:
		p := 2 * n
		i = ((i % p) + p) % p
		if i >= n {
			i = p - 1 - i
		}
		return v[i]
	case PadEdge:
		if i < 0 {
			return v[0]
		}
		return v[n-1]
	default:
		return value
	}
}
