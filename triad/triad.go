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

// Package triad implements the STREAM triad kernel a[i] = b[i] + s*c[i],
// the classic memory-bandwidth probe: three streams, two flops per
// element, no reuse.
package triad

import "github.com/ajroetker/go-highway/hwy"

// Scalar is the baseline triad over the common prefix of the slices.
func Scalar[T hwy.Floats](a, b, c []T, s T) {
	n := min(len(a), len(b), len(c))
	for i := range n {
		a[i] = b[i] + s*c[i]
	}
}

// Triad is the vectorized variant: one fused multiply-add per vector,
// scalar tail for the remainder.
func Triad[T hwy.Floats](a, b, c []T, s T) {
	n := min(len(a), len(b), len(c))
	lanes := hwy.MaxLanes[T]()
	vs := hwy.Set(s)

	var i int
	for i = 0; i+lanes <= n; i += lanes {
		hwy.Store(hwy.MulAdd(vs, hwy.Load(c[i:]), hwy.Load(b[i:])), a[i:])
	}
	for ; i < n; i++ {
		a[i] = b[i] + s*c[i]
	}
}
