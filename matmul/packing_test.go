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

import (
	"testing"

	"github.com/ajroetker/go-highway/hwy"
)

// unpackRHS inverts the packed layout rule:
// packed[(g*kLen + p)*nr + c] = B[k0+p, j0 + g*nr + c].
func unpackRHS(packed []float32, n, k0, kEnd, j0, jEnd, nr int) []float32 {
	kLen := kEnd - k0
	width := jEnd - j0
	out := make([]float32, kLen*width)
	for j := 0; j < width; j++ {
		g, c := j/nr, j%nr
		for p := range kLen {
			out[p*width+j] = packed[(g*kLen+p)*nr+c]
		}
	}
	return out
}

// TestPackRHSRoundTrip packs a sub-rectangle and reconstructs it via the
// layout rule. Integer-valued data, so equality is exact.
func TestPackRHSRoundTrip(t *testing.T) {
	k, n := 10, 17
	b := make([]float32, k*n)
	for i := range b {
		b[i] = float32(i) // integers-as-floats: no rounding ambiguity
	}

	cases := []struct {
		name               string
		k0, kEnd, j0, jEnd int
	}{
		{"full-width group", 0, 10, 0, 8},
		{"interior tile", 2, 7, 4, 12},
		{"ragged columns", 3, 9, 8, 17},
		{"single column", 0, 10, 16, 17},
	}

	for _, nr := range []int{4, hwy.Zero[float32]().NumLanes()} {
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				kLen := tc.kEnd - tc.k0
				groups := (tc.jEnd - tc.j0 + nr - 1) / nr
				packed := make([]float32, groups*kLen*nr)

				packRHS(b, packed, n, tc.k0, tc.kEnd, tc.j0, tc.jEnd, nr)

				got := unpackRHS(packed, n, tc.k0, tc.kEnd, tc.j0, tc.jEnd, nr)
				width := tc.jEnd - tc.j0
				for p := range kLen {
					for j := range width {
						want := b[(tc.k0+p)*n+tc.j0+j]
						if got[p*width+j] != want {
							t.Fatalf("nr=%d B[%d,%d]: got %v, want %v",
								nr, tc.k0+p, tc.j0+j, got[p*width+j], want)
						}
					}
				}
			})
		}
	}
}

// TestPackRHSZeroPadding checks the ragged last group's unused lanes are
// written with zeros, not leftovers.
func TestPackRHSZeroPadding(t *testing.T) {
	const nr = 4
	k, n := 3, 6
	b := make([]float32, k*n)
	for i := range b {
		b[i] = float32(i + 1)
	}

	// Columns [4,6): one group of width 2, padded to 4.
	kLen := 3
	packed := make([]float32, kLen*nr)
	for i := range packed {
		packed[i] = -1 // sentinel that padding must overwrite
	}

	packRHS(b, packed, n, 0, 3, 4, 6, nr)

	for p := range kLen {
		for c := 2; c < nr; c++ {
			if packed[p*nr+c] != 0 {
				t.Errorf("padding lane packed[%d] = %v, want 0", p*nr+c, packed[p*nr+c])
			}
		}
	}
}

// TestPackRHSVecMatchesScalar: the SIMD packer must be byte-identical to
// the scalar one when nr equals the lane count.
func TestPackRHSVecMatchesScalar(t *testing.T) {
	nr := hwy.Zero[float32]().NumLanes()
	k, n := 9, 3*nr+1
	b := make([]float32, k*n)
	for i := range b {
		b[i] = float32(i % 89)
	}

	kLen := 7
	groups := (n + nr - 1) / nr
	want := make([]float32, groups*kLen*nr)
	got := make([]float32, groups*kLen*nr)

	packRHS(b, want, n, 1, 8, 0, n, nr)
	packRHSVec(b, got, n, 1, 8, 0, n, nr)

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("packed[%d]: vec %v, scalar %v", i, got[i], want[i])
		}
	}
}

// TestPackRHSIdempotent: packing the same tile twice yields identical
// bytes.
func TestPackRHSIdempotent(t *testing.T) {
	const nr = 4
	k, n := 8, 12
	b := make([]float32, k*n)
	for i := range b {
		b[i] = float32(i%13) * 0.5
	}

	first := make([]float32, 2*8*nr)
	second := make([]float32, 2*8*nr)
	packRHS(b, first, n, 0, 8, 2, 10, nr)
	packRHS(b, second, n, 0, 8, 2, 10, nr)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("packed[%d] differs across identical pack calls", i)
		}
	}
}

// TestMicroKernelRaggedDirect drives the ragged-edge kernel with a
// hand-packed 2x2 problem padded into a 4-wide panel.
func TestMicroKernelRaggedDirect(t *testing.T) {
	// A = [[1, 2], [3, 4]], B = [[5, 6], [7, 8]]
	// C = [[19, 22], [43, 50]]
	a := []float32{1, 2, 3, 4}
	// Packed B for nr=4, kLen=2, columns 0..1 active, lanes 2..3 padded.
	panel := []float32{5, 6, 0, 0, 7, 8, 0, 0}

	c := make([]float32, 2*2)
	microKernelRagged(a, panel, c, 2, 2, 0, 0, 0, 2, 2, 2, 4)

	want := []float32{19, 22, 43, 50}
	for i := range want {
		if c[i] != want[i] {
			t.Errorf("c[%d] = %v, want %v", i, c[i], want[i])
		}
	}
}

// TestScalarMicroKernelDirect drives the fixed 4x4 scalar kernel against a
// hand-computed block, including accumulation into non-zero C.
func TestScalarMicroKernelDirect(t *testing.T) {
	const m, n, k = 4, 4, 2
	// A[i,p] = i + p + 1
	a := []float32{
		1, 2,
		2, 3,
		3, 4,
		4, 5,
	}
	// B[p,j] = 10*(p+1) + j, packed for nr=4: row p then row p+1.
	panel := []float32{
		10, 11, 12, 13,
		20, 21, 22, 23,
	}

	c := make([]float32, m*n)
	for i := range c {
		c[i] = 1 // prior k-tile contribution
	}
	scalarMicroKernel4(a, panel, c, k, n, 0, 0, 0, 2)

	for i := range m {
		for j := range n {
			want := float32(1) // the prior contribution
			for p := range k {
				want += a[i*k+p] * panel[p*4+j]
			}
			if c[i*n+j] != want {
				t.Errorf("c[%d,%d] = %v, want %v", i, j, c[i*n+j], want)
			}
		}
	}
}
