// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vec is the numeric substrate shared by every transform in this
// module: elementwise float32 ops with an optional destination (nil dst means
// in place on the first argument), split-array complex helpers, padding,
// reductions, matrix multiply and peak picking.
package vec

import (
	"math"

	"github.com/chewxy/math32"
)

// dest resolves the optional destination convention: a nil dst aliases src.
func dest(src, dst []float32) []float32 {
	if dst == nil {
		return src
	}
	return dst
}

// New returns a zeroed vector of the given length.
func New(n int) []float32 {
	return make([]float32, n)
}

// NewValue returns a vector of the given length with every element set to v.
func NewValue(n int, v float32) []float32 {
	arr := make([]float32, n)
	for i := range arr {
		arr[i] = v
	}
	return arr
}

// Linspace fills n evenly spaced samples over [start, stop].
func Linspace(start, stop float32, n int) []float32 {
	arr := make([]float32, n)
	if n == 1 {
		arr[0] = start
		return arr
	}
	step := (stop - start) / float32(n-1)
	for i := range arr {
		arr[i] = start + float32(i)*step
	}
	return arr
}

// Arange fills values start, start+step, ... below stop.
func Arange(start, stop, step float32) []float32 {
	n := int(math32.Ceil((stop - start) / step))
	if n < 0 {
		n = 0
	}
	arr := make([]float32, n)
	for i := range arr {
		arr[i] = start + float32(i)*step
	}
	return arr
}

func Abs(v, dst []float32) {
	d := dest(v, dst)
	for i, x := range v {
		d[i] = math32.Abs(x)
	}
}

func Neg(v, dst []float32) {
	d := dest(v, dst)
	for i, x := range v {
		d[i] = -x
	}
}

func Floor(v, dst []float32) {
	d := dest(v, dst)
	for i, x := range v {
		d[i] = math32.Floor(x)
	}
}

func Ceil(v, dst []float32) {
	d := dest(v, dst)
	for i, x := range v {
		d[i] = math32.Ceil(x)
	}
}

func Round(v, dst []float32) {
	d := dest(v, dst)
	for i, x := range v {
		d[i] = math32.Round(x)
	}
}

func Cos(v, dst []float32) {
	d := dest(v, dst)
	for i, x := range v {
		d[i] = math32.Cos(x)
	}
}

func Sin(v, dst []float32) {
	d := dest(v, dst)
	for i, x := range v {
		d[i] = math32.Sin(x)
	}
}

func Tan(v, dst []float32) {
	d := dest(v, dst)
	for i, x := range v {
		d[i] = math32.Tan(x)
	}
}

func Acos(v, dst []float32) {
	d := dest(v, dst)
	for i, x := range v {
		d[i] = math32.Acos(x)
	}
}

func Asin(v, dst []float32) {
	d := dest(v, dst)
	for i, x := range v {
		d[i] = math32.Asin(x)
	}
}

func Atan(v, dst []float32) {
	d := dest(v, dst)
	for i, x := range v {
		d[i] = math32.Atan(x)
	}
}

func Exp(v, dst []float32) {
	d := dest(v, dst)
	for i, x := range v {
		d[i] = math32.Exp(x)
	}
}

func Exp2(v, dst []float32) {
	d := dest(v, dst)
	for i, x := range v {
		d[i] = math32.Exp2(x)
	}
}

func Sqrt(v, dst []float32) {
	d := dest(v, dst)
	for i, x := range v {
		d[i] = math32.Sqrt(x)
	}
}

func Log(v, dst []float32) {
	d := dest(v, dst)
	for i, x := range v {
		d[i] = math32.Log(x)
	}
}

func Log2(v, dst []float32) {
	d := dest(v, dst)
	for i, x := range v {
		d[i] = math32.Log2(x)
	}
}

func Log10(v, dst []float32) {
	d := dest(v, dst)
	for i, x := range v {
		d[i] = math32.Log10(x)
	}
}

// LogCompress computes ln(gamma*x + beta) elementwise.
func LogCompress(v []float32, gamma, beta float32, dst []float32) {
	d := dest(v, dst)
	for i, x := range v {
		d[i] = math32.Log(gamma*x + beta)
	}
}

// Log10Compress computes log10(gamma*x + beta) elementwise.
func Log10Compress(v []float32, gamma, beta float32, dst []float32) {
	d := dest(v, dst)
	for i, x := range v {
		d[i] = math32.Log10(gamma*x + beta)
	}
}

func Add(a, b, dst []float32) {
	d := dest(a, dst)
	for i := range a {
		d[i] = a[i] + b[i]
	}
}

func Sub(a, b, dst []float32) {
	d := dest(a, dst)
	for i := range a {
		d[i] = a[i] - b[i]
	}
}

func Mul(a, b, dst []float32) {
	d := dest(a, dst)
	for i := range a {
		d[i] = a[i] * b[i]
	}
}

func Div(a, b, dst []float32) {
	d := dest(a, dst)
	for i := range a {
		d[i] = a[i] / b[i]
	}
}

func AddValue(v []float32, value float32, dst []float32) {
	d := dest(v, dst)
	for i, x := range v {
		d[i] = x + value
	}
}

func MulValue(v []float32, value float32, dst []float32) {
	d := dest(v, dst)
	for i, x := range v {
		d[i] = x * value
	}
}

func DivValue(v []float32, value float32, dst []float32) {
	d := dest(v, dst)
	for i, x := range v {
		d[i] = x / value
	}
}

// Sum returns the sum of v, accumulated in float64.
func Sum(v []float32) float32 {
	var s float64
	for _, x := range v {
		s += float64(x)
	}
	return float32(s)
}

// Mean returns the arithmetic mean of v.
func Mean(v []float32) float32 {
	if len(v) == 0 {
		return 0
	}
	return Sum(v) / float32(len(v))
}

// Max returns the index and value of the largest element, skipping NaNs.
func Max(v []float32) (int, float32) {
	idx := -1
	mx := float32(math32.Inf(-1))
	for i, x := range v {
		if math32.IsNaN(x) {
			continue
		}
		if idx < 0 || x > mx {
			idx, mx = i, x
		}
	}
	return idx, mx
}

// Min returns the index and value of the smallest element, skipping NaNs.
func Min(v []float32) (int, float32) {
	idx := -1
	mn := float32(math32.Inf(1))
	for i, x := range v {
		if math32.IsNaN(x) {
			continue
		}
		if idx < 0 || x < mn {
			idx, mn = i, x
		}
	}
	return idx, mn
}

// MaxInt returns the largest value in an int slice.
func MaxInt(v []int) int {
	mx := 0
	for i, x := range v {
		if i == 0 || x > mx {
			mx = x
		}
	}
	return mx
}

// SumInt returns the sum of an int slice.
func SumInt(v []int) int {
	s := 0
	for _, x := range v {
		s += x
	}
	return s
}

// Norm returns the vector p-norm. p of 0 selects the infinity norm, 1 the
// absolute sum, 2 the euclidean norm.
func Norm(v []float32, p int) float32 {
	var s float64
	switch p {
	case 0:
		for _, x := range v {
			a := math.Abs(float64(x))
			if a > s {
				s = a
			}
		}
		return float32(s)
	case 1:
		for _, x := range v {
			s += math.Abs(float64(x))
		}
		return float32(s)
	default:
		for _, x := range v {
			s += float64(x) * float64(x)
		}
		return float32(math.Sqrt(s))
	}
}

// Interp does piecewise-linear interpolation of (xs, ys) sample points at x,
// clamping outside the sampled range.
func Interp(x float32, xs, ys []float32) float32 {
	n := len(xs)
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[n-1] {
		return ys[n-1]
	}
	for i := 1; i < n; i++ {
		if x <= xs[i] {
			t := (x - xs[i-1]) / (xs[i] - xs[i-1])
			return ys[i-1] + t*(ys[i]-ys[i-1])
		}
	}
	return ys[n-1]
}
