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

// microKernel4 computes a 4-row x 1-vector block of C over one k-tile.
//
// panel points at the start of this block's micro-panel: packed B values
// for columns j..j+lanes-1, rows p0..p0+kLen-1, one vector per row entry.
// A is read scalar-at-a-time (only B is packed).
//
// The four accumulators are initialized by loading the current C block, so
// earlier k-tiles' contributions fold in first and the per-element
// summation stays in ascending k order across tiles. They live in vector
// registers for the whole kLen loop; four independent FMA chains let the
// out-of-order core overlap their latencies.
//
// hwy.MulAdd lowers to a fused multiply-add: one rounding step per
// operation, which can differ from a separate multiply-then-add in the
// last bit.
func microKernel4[T hwy.Floats](a, panel, c []T, k, n, i, j, p0, kLen int) {
	lanes := hwy.Zero[T]().NumLanes()

	acc0 := hwy.Load(c[(i+0)*n+j:])
	acc1 := hwy.Load(c[(i+1)*n+j:])
	acc2 := hwy.Load(c[(i+2)*n+j:])
	acc3 := hwy.Load(c[(i+3)*n+j:])

	aRow0 := (i + 0) * k
	aRow1 := (i + 1) * k
	aRow2 := (i + 2) * k
	aRow3 := (i + 3) * k

	idx := 0
	for p := p0; p < p0+kLen; p++ {
		vB := hwy.Load(panel[idx:])
		idx += lanes

		acc0 = hwy.MulAdd(hwy.Set(a[aRow0+p]), vB, acc0)
		acc1 = hwy.MulAdd(hwy.Set(a[aRow1+p]), vB, acc1)
		acc2 = hwy.MulAdd(hwy.Set(a[aRow2+p]), vB, acc2)
		acc3 = hwy.MulAdd(hwy.Set(a[aRow3+p]), vB, acc3)
	}

	hwy.Store(acc0, c[(i+0)*n+j:])
	hwy.Store(acc1, c[(i+1)*n+j:])
	hwy.Store(acc2, c[(i+2)*n+j:])
	hwy.Store(acc3, c[(i+3)*n+j:])
}

// microKernelRows is the ragged-row variant of microKernel4 for the
// remainder rows when m is not a multiple of 4 (rows in 1..3). Same packed
// panel, one accumulator chain per remaining row.
func microKernelRows[T hwy.Floats](a, panel, c []T, k, n, i, j, p0, kLen, rows int) {
	lanes := hwy.Zero[T]().NumLanes()

	for r := range rows {
		acc := hwy.Load(c[(i+r)*n+j:])
		aRow := (i + r) * k

		idx := 0
		for p := p0; p < p0+kLen; p++ {
			acc = hwy.MulAdd(hwy.Set(a[aRow+p]), hwy.Load(panel[idx:]), acc)
			idx += lanes
		}

		hwy.Store(acc, c[(i+r)*n+j:])
	}
}

// microKernelRagged handles the last, narrower-than-nr column group when n
// is not a multiple of the vector width. It reuses the zero-padded packed
// panel but accumulates in scalar, strict ascending-k order, touching only
// the width active columns of C. Shared by the vector and scalar kernels.
func microKernelRagged[T hwy.Floats](a, panel, c []T, k, n, i, j, p0, kLen, rows, width, nr int) {
	for r := range rows {
		cRow := (i+r)*n + j
		aRow := (i+r)*k + p0
		for col := range width {
			acc := c[cRow+col]
			for p := range kLen {
				acc += a[aRow+p] * panel[p*nr+col]
			}
			c[cRow+col] = acc
		}
	}
}

// scalarMicroKernel4 is the pure-scalar twin of microKernel4 with a fixed
// 4x4 block, used by the scalar kernel strategy. Accumulators live in
// local arrays the compiler keeps in registers; multiply and add round
// separately (no FMA contract).
func scalarMicroKernel4[T hwy.Floats](a, panel, c []T, k, n, i, j, p0, kLen int) {
	var acc [4][scalarPanelWidth]T
	for r := range 4 {
		copy(acc[r][:], c[(i+r)*n+j:(i+r)*n+j+scalarPanelWidth])
	}

	idx := 0
	for p := p0; p < p0+kLen; p++ {
		var bRow [scalarPanelWidth]T
		copy(bRow[:], panel[idx:idx+scalarPanelWidth])
		idx += scalarPanelWidth

		for r := range 4 {
			arp := a[(i+r)*k+p]
			for col := range scalarPanelWidth {
				acc[r][col] += arp * bRow[col]
			}
		}
	}

	for r := range 4 {
		copy(c[(i+r)*n+j:(i+r)*n+j+scalarPanelWidth], acc[r][:])
	}
}
