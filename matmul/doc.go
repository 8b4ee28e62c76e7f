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

// Package matmul provides a family of dense matrix multiplication kernels,
// from the textbook triple loop up to a cache-blocked, register-tiled,
// SIMD-accelerated implementation with B-panel packing.
//
// All kernels compute C = A * B over flat row-major float slices:
//
//	// A is MxK, B is KxN, C is MxN
//	a := make([]float32, M*K)
//	b := make([]float32, K*N)
//	c := make([]float32, M*N)
//
//	matmul.Blocked(a, b, c, M, N, K)
//
// The variants form a performance ladder:
//
//   - Naive: i/j/k triple loop, strided B access. The trusted reference.
//   - Reordered: i/k/j order, unit-stride B walk in the inner loop.
//   - Tiled: 2D cache tiling, scalar inner loop.
//   - Blocked: tiling plus B-panel packing and a 4-row register-blocked
//     SIMD micro-kernel (go-highway fused multiply-add).
//
// Blocked selects a vectorized or pure-scalar kernel once at startup based
// on the go-highway dispatch level; set HWY_NO_SIMD to force the scalar path.
//
// The kernels are single-threaded and run to completion. A Scratch (the
// packed B panel) is private to one call; concurrent callers must use
// BlockedWithScratch with one Scratch per goroutine.
package matmul
