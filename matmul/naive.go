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

package matmul

import "github.com/ajroetker/go-highway/hwy"

// Naive computes C = A * B with the textbook i/j/k triple loop.
// C[i,j] = sum(A[i,p] * B[p,j]) for p in 0..K-1, accumulated in ascending
// p order with separate multiply and add roundings.
//
// Every element of B is loaded with stride N in the inner loop, so this
// variant is memory-bound for matrices larger than L1. It is the trusted
// reference the optimized variants are tested against.
func Naive[T hwy.Floats](a, b, c []T, m, n, k int) {
	if m <= 0 || n <= 0 {
		return
	}
	checkOperands(a, b, c, m, n, k)
	zeroOut(c[:m*n])
	if k <= 0 {
		return
	}

	for i := range m {
		for j := range n {
			var sum T
			for p := range k {
				sum += a[i*k+p] * b[p*n+j]
			}
			c[i*n+j] = sum
		}
	}
}

// Reordered computes C = A * B with the i/k/j loop order.
//
// Hoisting k above j turns the innermost loop into a unit-stride walk over
// one row of B and one row of C. Same arithmetic, same results for each
// element's k order, dramatically better cache behavior than Naive.
func Reordered[T hwy.Floats](a, b, c []T, m, n, k int) {
	if m <= 0 || n <= 0 {
		return
	}
	checkOperands(a, b, c, m, n, k)
	zeroOut(c[:m*n])
	if k <= 0 {
		return
	}

	for i := range m {
		cRow := c[i*n : i*n+n]
		for p := range k {
			aip := a[i*k+p]
			bRow := b[p*n : p*n+n]
			for j, bv := range bRow {
				cRow[j] += aip * bv
			}
		}
	}
}

// checkOperands validates slice lengths against the matrix dimensions.
// Violations are caller bugs and panic; degenerate (non-positive)
// dimensions skip the corresponding check.
func checkOperands[T hwy.Floats](a, b, c []T, m, n, k int) {
	if m > 0 && k > 0 && len(a) < m*k {
		panic("matmul: A slice too short")
	}
	if k > 0 && n > 0 && len(b) < k*n {
		panic("matmul: B slice too short")
	}
	if m > 0 && n > 0 && len(c) < m*n {
		panic("matmul: C slice too short")
	}
}

// zeroOut zeroes a slice using SIMD stores with a scalar tail.
func zeroOut[T hwy.Floats](c []T) {
	vZero := hwy.Zero[T]()
	lanes := vZero.NumLanes()
	var idx int
	for idx = 0; idx+lanes <= len(c); idx += lanes {
		hwy.Store(vZero, c[idx:])
	}
	for ; idx < len(c); idx++ {
		c[idx] = 0
	}
}
