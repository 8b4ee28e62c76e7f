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

// Tiled computes C = A * B with 2D cache tiling and a scalar inner loop.
//
// The iteration space is walked in tile x tile blocks so that one A tile,
// one B tile and one C tile fit a cache level at a time (3 * tile^2 * 4
// bytes for float32). Within a tile the loop order is i/k/j, so the inner
// loop streams one row of B and one row of C.
//
// Tile bounds are [t0, min(t0+tile, dim)); ragged edges need no special
// casing here because the inner loop is scalar.
func Tiled[T hwy.Floats](a, b, c []T, m, n, k, tile int) {
	if tile <= 0 {
		panic("matmul: tile size must be positive")
	}
	if m <= 0 || n <= 0 {
		return
	}
	checkOperands(a, b, c, m, n, k)
	zeroOut(c[:m*n])
	if k <= 0 {
		return
	}

	for i0 := 0; i0 < m; i0 += tile {
		iEnd := min(i0+tile, m)
		for j0 := 0; j0 < n; j0 += tile {
			jEnd := min(j0+tile, n)
			width := jEnd - j0
			for p0 := 0; p0 < k; p0 += tile {
				pEnd := min(p0+tile, k)
				for i := i0; i < iEnd; i++ {
					cRow := c[i*n+j0 : i*n+j0+width]
					for p := p0; p < pEnd; p++ {
						aip := a[i*k+p]
						bRow := b[p*n+j0 : p*n+j0+width]
						for j, bv := range bRow {
							cRow[j] += aip * bv
						}
					}
				}
			}
		}
	}
}
