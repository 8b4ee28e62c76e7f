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

// Package bench provides the small timing and data-generation helpers
// shared by the benchmark CLI: deterministic pseudo-fills, checksums, and
// a repeat-until-duration runner with FLOP/s derivation.
package bench

import "time"

// Result holds one timed run: how many repetitions completed and the
// total elapsed wall time.
type Result struct {
	Reps    int
	Elapsed time.Duration
}

// Run invokes fn repeatedly until at least minDuration has elapsed,
// always running it at least once. A non-positive minDuration times a
// single invocation.
func Run(minDuration time.Duration, fn func()) Result {
	start := time.Now()
	reps := 0
	for {
		fn()
		reps++
		if elapsed := time.Since(start); elapsed >= minDuration {
			return Result{Reps: reps, Elapsed: elapsed}
		}
	}
}

// PerRep returns the average wall time of one repetition.
func (r Result) PerRep() time.Duration {
	if r.Reps == 0 {
		return 0
	}
	return r.Elapsed / time.Duration(r.Reps)
}

// GFLOPS derives billions of floating-point operations per second from
// the per-repetition operation count.
func (r Result) GFLOPS(flopsPerRep float64) float64 {
	secs := r.Elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return flopsPerRep * float64(r.Reps) / secs / 1e9
}

// FillMod writes the deterministic pseudo-fill dst[i] = (i % mod) * scale.
// The same fill the equivalence tests use, so CLI checksums are
// comparable across variants and runs.
func FillMod(dst []float32, mod int, scale float32) {
	for i := range dst {
		dst[i] = float32(i%mod) * scale
	}
}

// Checksum sums a slice in float64. Printed by the CLI so obviously-wrong
// kernels are caught even outside the test suite.
func Checksum(xs []float32) float64 {
	var sum float64
	for _, v := range xs {
		sum += float64(v)
	}
	return sum
}
