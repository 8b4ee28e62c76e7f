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

// DefaultTile is the default blocking size. Three 64x64 float32 tiles
// (A, B, C) occupy 48KB, fitting the 64KB L1d of Graviton-class cores.
const DefaultTile = 64

// Blocked computes C = A * B with cache tiling, B-panel packing and a
// register-blocked SIMD micro-kernel, using the default tile size.
//
//   - A is M x K (row-major, read-only)
//   - B is K x N (row-major, read-only)
//   - C is M x N (row-major, zeroed at entry, then accumulated in place)
//
// Preconditions (caller responsibility, checked only as slice-length
// panics): len(a) >= m*k, len(b) >= k*n, len(c) >= m*n. Non-positive
// dimensions are degenerate, not errors: m <= 0 or n <= 0 returns without
// touching C; k <= 0 leaves C zeroed, consistent with an empty sum.
//
// For all i,j the result is the float sum over p of A[i,p]*B[p,j],
// accumulated with k-tiles ascending and p ascending within each tile.
// Repeated calls with identical inputs are bit-identical. The vectorized
// kernel contracts each multiply-add into a single-rounding FMA, so
// results may differ from a separate-rounding scalar reference in the
// last bit.
func Blocked[T hwy.Floats](a, b, c []T, m, n, k int) {
	BlockedTile(a, b, c, m, n, k, DefaultTile)
}

// BlockedTile is Blocked with an explicit tile size. tile must be
// positive; multiples of the vector width avoid ragged micro-panels
// inside full tiles. Allocates a fresh Scratch for the call.
func BlockedTile[T hwy.Floats](a, b, c []T, m, n, k, tile int) {
	if tile <= 0 {
		panic("matmul: tile size must be positive")
	}
	BlockedWithScratch(a, b, c, m, n, k, tile, NewScratch[T](tile))
}

// BlockedWithScratch is Blocked with a caller-provided scratch region,
// for callers that amortize the packed-panel allocation across calls.
// The scratch grows if it is too small for tile.
func BlockedWithScratch[T hwy.Floats](a, b, c []T, m, n, k, tile int, s *Scratch[T]) {
	if tile <= 0 {
		panic("matmul: tile size must be positive")
	}
	if s == nil {
		s = NewScratch[T](tile)
	} else {
		s.ensure(tile)
	}
	if m <= 0 || n <= 0 {
		return
	}
	checkOperands(a, b, c, m, n, k)
	zeroOut(c[:m*n])
	if k <= 0 {
		return
	}

	if kernelStrategy == StrategyScalar {
		blockedScalar(a, b, c, m, n, k, tile, s.panel)
		return
	}
	blockedVec(a, b, c, m, n, k, tile, s.panel)
}

// blockedVec drives the vectorized kernel.
//
// Loop order is j-tile, then k-tile, then i-tile: B does not depend on i,
// so one packed panel serves every i-tile sweep and the packer runs
// exactly once per (j-tile, k-tile) pair. With k-tiles in the middle, C
// blocks accumulate tile contributions in ascending k order.
func blockedVec[T hwy.Floats](a, b, c []T, m, n, k, tile int, panel []T) {
	nr := hwy.Zero[T]().NumLanes()

	for jc := 0; jc < n; jc += tile {
		jEnd := min(jc+tile, n)
		for pc := 0; pc < k; pc += tile {
			pEnd := min(pc+tile, k)
			kLen := pEnd - pc

			packRHSVec(b, panel, n, pc, pEnd, jc, jEnd, nr)

			for ic := 0; ic < m; ic += tile {
				iEnd := min(ic+tile, m)

				var i int
				for i = ic; i+4 <= iEnd; i += 4 {
					off := 0
					var j int
					for j = jc; j+nr <= jEnd; j += nr {
						microKernel4(a, panel[off:], c, k, n, i, j, pc, kLen)
						off += kLen * nr
					}
					if j < jEnd {
						microKernelRagged(a, panel[off:], c, k, n, i, j, pc, kLen, 4, jEnd-j, nr)
					}
				}
				if rows := iEnd - i; rows > 0 {
					off := 0
					var j int
					for j = jc; j+nr <= jEnd; j += nr {
						microKernelRows(a, panel[off:], c, k, n, i, j, pc, kLen, rows)
						off += kLen * nr
					}
					if j < jEnd {
						microKernelRagged(a, panel[off:], c, k, n, i, j, pc, kLen, rows, jEnd-j, nr)
					}
				}
			}
		}
	}
}

// blockedScalar drives the pure-scalar 4x4 kernel. Identical tiling and
// packing discipline to blockedVec with a fixed micro-panel width, so the
// scalar strategy is a first-class, independently testable path rather
// than a degraded special case.
func blockedScalar[T hwy.Floats](a, b, c []T, m, n, k, tile int, panel []T) {
	const nr = scalarPanelWidth

	for jc := 0; jc < n; jc += tile {
		jEnd := min(jc+tile, n)
		for pc := 0; pc < k; pc += tile {
			pEnd := min(pc+tile, k)
			kLen := pEnd - pc

			packRHS(b, panel, n, pc, pEnd, jc, jEnd, nr)

			for ic := 0; ic < m; ic += tile {
				iEnd := min(ic+tile, m)

				var i int
				for i = ic; i+4 <= iEnd; i += 4 {
					off := 0
					var j int
					for j = jc; j+nr <= jEnd; j += nr {
						scalarMicroKernel4(a, panel[off:], c, k, n, i, j, pc, kLen)
						off += kLen * nr
					}
					if j < jEnd {
						microKernelRagged(a, panel[off:], c, k, n, i, j, pc, kLen, 4, jEnd-j, nr)
					}
				}
				if rows := iEnd - i; rows > 0 {
					off := 0
					var j int
					for j = jc; j < jEnd; j += nr {
						width := min(nr, jEnd-j)
						microKernelRagged(a, panel[off:], c, k, n, i, j, pc, kLen, rows, width, nr)
						off += kLen * nr
					}
				}
			}
		}
	}
}
