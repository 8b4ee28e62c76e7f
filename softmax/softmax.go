// Copyright 2025 topdown-kernels Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package softmax provides numerically-stable softmax kernels, scalar and
// SIMD-vectorized.
package softmax

import (
	stdmath "math"

	"github.com/ajroetker/go-highway/hwy"
	"github.com/ajroetker/go-highway/hwy/contrib/math"
)

// Scalar computes softmax(input) into output with the max-subtraction
// trick for numerical stability:
//
//	softmax(x_i) = exp(x_i - max(x)) / sum(exp(x_j - max(x)))
//
// The baseline variant: three sequential passes, scalar exp.
func Scalar[T hwy.Floats](input, output []T) {
	size := min(len(input), len(output))
	if size == 0 {
		return
	}

	maxVal := input[0]
	for _, v := range input[1:size] {
		if v > maxVal {
			maxVal = v
		}
	}

	var sum T
	for i := range size {
		e := T(stdmath.Exp(float64(input[i] - maxVal)))
		output[i] = e
		sum += e
	}

	inv := T(1.0) / sum
	for i := range size {
		output[i] *= inv
	}
}

// Softmax is the vectorized variant: SIMD exp and sum with scalar tails.
// Same three passes and the same max-subtraction as Scalar.
func Softmax[T hwy.Floats](input, output []T) {
	size := min(len(input), len(output))
	if size == 0 {
		return
	}

	maxVal := input[0]
	for _, v := range input[1:size] {
		if v > maxVal {
			maxVal = v
		}
	}

	lanes := hwy.MaxLanes[T]()
	vMax := hwy.Set(maxVal)
	sumAcc := hwy.Zero[T]()
	var i int
	for i = 0; i+lanes <= size; i += lanes {
		e := math.BaseExpVec(hwy.Sub(hwy.Load(input[i:]), vMax))
		hwy.Store(e, output[i:])
		sumAcc = hwy.Add(sumAcc, e)
	}
	sum := hwy.ReduceSum(sumAcc)
	for ; i < size; i++ {
		e := T(stdmath.Exp(float64(input[i] - maxVal)))
		output[i] = e
		sum += e
	}

	vInv := hwy.Set(T(1.0) / sum)
	for i = 0; i+lanes <= size; i += lanes {
		hwy.Store(hwy.Mul(hwy.Load(output[i:]), vInv), output[i:])
	}
	inv := T(1.0) / sum
	for ; i < size; i++ {
		output[i] *= inv
	}
}

// InPlace applies Softmax over x, overwriting it.
func InPlace[T hwy.Floats](x []T) {
	Softmax(x, x)
}
