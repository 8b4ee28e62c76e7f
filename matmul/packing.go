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

// packRHS copies B[k0:kEnd, j0:jEnd) into packed micro-panel-major layout.
//
// Input B is K x N row-major with true row stride n (the tile edges are
// ragged, so the stride is the full matrix width, not the tile width).
//
// The packed layout holds, for each group of nr consecutive columns, all
// rows k0..kEnd-1 of that group contiguously, nr values per row entry:
//
//	packed[(g*kLen + (p-k0))*nr + c] = B[p, j0 + g*nr + c]
//
// where g indexes column groups and kLen = kEnd - k0. This turns the
// micro-kernel's stride-n B loads into one sequential read.
//
// If the column range is not a multiple of nr, the last group is
// zero-padded in the unused lanes. The micro-kernel computes over the
// padded lanes (multiplying by zero) and writes back only active columns.
//
// Packing is deterministic: the same (B, ranges) produce byte-identical
// output, and the only side effect is writing packed[:groups*kLen*nr].
func packRHS[T hwy.Floats](b, packed []T, n, k0, kEnd, j0, jEnd, nr int) {
	idx := 0
	j := j0
	for ; j+nr <= jEnd; j += nr {
		for p := k0; p < kEnd; p++ {
			row := p*n + j
			for c := range nr {
				packed[idx+c] = b[row+c]
			}
			idx += nr
		}
	}
	if j < jEnd {
		width := jEnd - j
		for p := k0; p < kEnd; p++ {
			row := p*n + j
			for c := range width {
				packed[idx+c] = b[row+c]
			}
			for c := width; c < nr; c++ {
				packed[idx+c] = 0
			}
			idx += nr
		}
	}
}

// packRHSVec is packRHS with SIMD copies for the full column groups.
// Requires nr to equal the vector lane count; ragged last group falls back
// to the scalar path. Produces output byte-identical to packRHS.
func packRHSVec[T hwy.Floats](b, packed []T, n, k0, kEnd, j0, jEnd, nr int) {
	idx := 0
	j := j0
	for ; j+nr <= jEnd; j += nr {
		for p := k0; p < kEnd; p++ {
			hwy.Store(hwy.Load(b[p*n+j:]), packed[idx:])
			idx += nr
		}
	}
	if j < jEnd {
		width := jEnd - j
		for p := k0; p < kEnd; p++ {
			row := p*n + j
			for c := range width {
				packed[idx+c] = b[row+c]
			}
			for c := width; c < nr; c++ {
				packed[idx+c] = 0
			}
			idx += nr
		}
	}
}
