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

// Strategy identifies which micro-kernel family Blocked uses.
type Strategy int

const (
	// StrategyVector uses go-highway SIMD vectors in the micro-kernel.
	StrategyVector Strategy = iota

	// StrategyScalar uses the pure-Go 4x4 micro-kernel. Selected when no
	// SIMD level is available (or HWY_NO_SIMD forces the scalar dispatch).
	StrategyScalar
)

// String returns a human-readable name for the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyVector:
		return "vector"
	case StrategyScalar:
		return "scalar"
	default:
		return "unknown"
	}
}

// kernelStrategy is chosen once at startup from the go-highway dispatch
// level. Emulated vectors are slower than plain scalar code, so the scalar
// kernel is the better fallback when no real SIMD is present.
var kernelStrategy = pickStrategy()

func pickStrategy() Strategy {
	if hwy.CurrentLevel() == hwy.DispatchScalar {
		return StrategyScalar
	}
	return StrategyVector
}

// CurrentStrategy reports the micro-kernel strategy Blocked will use.
func CurrentStrategy() Strategy {
	return kernelStrategy
}

// smallMatrixThreshold is the op count (m*n*k) below which blocking
// overhead outweighs its cache benefit and the streaming variant wins.
const smallMatrixThreshold = 64 * 64 * 64

// MatMul computes C = A * B, selecting a variant by problem size:
// the streaming Reordered kernel for small problems, Blocked with the
// default tile otherwise.
func MatMul[T hwy.Floats](a, b, c []T, m, n, k int) {
	if m <= 0 || n <= 0 || k <= 0 || m*n*k < smallMatrixThreshold {
		Reordered(a, b, c, m, n, k)
		return
	}
	Blocked(a, b, c, m, n, k)
}
