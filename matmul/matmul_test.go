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
	"fmt"
	"math"
	"testing"

	"github.com/ajroetker/go-highway/hwy"
)

// fillMod writes the deterministic pseudo-fill dst[i] = (i % mod) * scale.
func fillMod(dst []float32, mod int, scale float32) {
	for i := range dst {
		dst[i] = float32(i%mod) * scale
	}
}

// requireClose checks got against want element-wise within a relative
// tolerance (floored at the absolute tolerance for near-zero references).
func requireClose(t *testing.T, got, want []float32, relTol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		tol := relTol * math.Max(1, math.Abs(float64(want[i])))
		if diff := math.Abs(float64(got[i] - want[i])); diff > tol {
			t.Fatalf("c[%d] = %g, want %g (diff %g > tol %g)", i, got[i], want[i], diff, tol)
		}
	}
}

func runVariant(name string, a, b, c []float32, m, n, k, tile int) {
	switch name {
	case "reordered":
		Reordered(a, b, c, m, n, k)
	case "tiled":
		Tiled(a, b, c, m, n, k, tile)
	case "blocked":
		BlockedTile(a, b, c, m, n, k, tile)
	default:
		panic("unknown variant " + name)
	}
}

func TestBlockedSmall(t *testing.T) {
	// 2x3 * 3x2 = 2x2, computed by hand.
	a := []float32{1, 2, 3, 4, 5, 6}
	b := []float32{7, 8, 9, 10, 11, 12}
	c := make([]float32, 4)
	want := []float32{58, 64, 139, 154}

	Blocked(a, b, c, 2, 2, 3)

	for i := range c {
		if math.Abs(float64(c[i]-want[i])) > 1e-5 {
			t.Errorf("c[%d] = %f, want %f", i, c[i], want[i])
		}
	}
}

// TestVariantsMatchNaive exercises every optimized variant against the
// naive reference across dimensions chosen to hit non-multiple-of-tile and
// non-multiple-of-4 edges.
func TestVariantsMatchNaive(t *testing.T) {
	t.Logf("dispatch: %s, strategy: %s", hwy.CurrentName(), CurrentStrategy())

	dims := []struct{ m, n, k int }{
		{1, 1, 1},
		{3, 3, 3},
		{4, 4, 4},
		{5, 5, 5},
		{63, 63, 63},
		{64, 64, 64},
		{65, 65, 65},
		{127, 127, 127},
		{128, 128, 128},
		{129, 129, 129},
		{5, 127, 64},
		{129, 63, 4},
		{4, 65, 128},
		{1, 129, 67},
	}

	for _, d := range dims {
		a := make([]float32, d.m*d.k)
		b := make([]float32, d.k*d.n)
		fillMod(a, 97, 0.01)
		fillMod(b, 89, 0.01)

		want := make([]float32, d.m*d.n)
		Naive(a, b, want, d.m, d.n, d.k)

		for _, variant := range []string{"reordered", "tiled", "blocked"} {
			name := fmt.Sprintf("%s/%dx%dx%d", variant, d.m, d.n, d.k)
			t.Run(name, func(t *testing.T) {
				c := make([]float32, d.m*d.n)
				runVariant(variant, a, b, c, d.m, d.n, d.k, DefaultTile)
				requireClose(t, c, want, 1e-4)
			})
		}
	}
}

func TestBlockedDeterminism(t *testing.T) {
	m, n, k := 65, 127, 63
	a := make([]float32, m*k)
	b := make([]float32, k*n)
	fillMod(a, 97, 0.01)
	fillMod(b, 89, 0.01)

	c1 := make([]float32, m*n)
	c2 := make([]float32, m*n)
	Blocked(a, b, c1, m, n, k)
	Blocked(a, b, c2, m, n, k)

	for i := range c1 {
		if c1[i] != c2[i] {
			t.Fatalf("c[%d] differs between identical calls: %v vs %v", i, c1[i], c2[i])
		}
	}
}

func TestBlockedDegenerateDims(t *testing.T) {
	a := make([]float32, 16)
	b := make([]float32, 16)
	fillMod(a, 97, 0.01)
	fillMod(b, 89, 0.01)

	t.Run("m=0 leaves C untouched", func(t *testing.T) {
		c := []float32{7, 7, 7, 7}
		Blocked(a, b, c, 0, 2, 2)
		for i, v := range c {
			if v != 7 {
				t.Errorf("c[%d] = %v, want sentinel 7", i, v)
			}
		}
	})

	t.Run("n=0 leaves C untouched", func(t *testing.T) {
		c := []float32{7, 7, 7, 7}
		Blocked(a, b, c, 2, 0, 2)
		for i, v := range c {
			if v != 7 {
				t.Errorf("c[%d] = %v, want sentinel 7", i, v)
			}
		}
	})

	t.Run("k=0 zeroes C", func(t *testing.T) {
		c := []float32{7, 7, 7, 7}
		Blocked(a, b, c, 2, 2, 0)
		for i, v := range c {
			if v != 0 {
				t.Errorf("c[%d] = %v, want 0 (empty sum)", i, v)
			}
		}
	})
}

// TestBlockedTileSizes verifies tile-size invariance: different tiles
// change summation grouping, so results are tolerance-close to the
// reference rather than bit-identical across tile sizes.
func TestBlockedTileSizes(t *testing.T) {
	m, n, k := 100, 130, 75
	a := make([]float32, m*k)
	b := make([]float32, k*n)
	fillMod(a, 97, 0.01)
	fillMod(b, 89, 0.01)

	want := make([]float32, m*n)
	Naive(a, b, want, m, n, k)

	for _, tile := range []int{16, 20, 32, 64, 128} {
		t.Run(fmt.Sprintf("tile=%d", tile), func(t *testing.T) {
			c := make([]float32, m*n)
			BlockedTile(a, b, c, m, n, k, tile)
			requireClose(t, c, want, 1e-4)
		})
	}
}

// TestBlockedPinnedScenario pins the 128x128x128 result against values
// computed once by the sequential float32 reference.
func TestBlockedPinnedScenario(t *testing.T) {
	const size = 128
	a := make([]float32, size*size)
	b := make([]float32, size*size)
	fillMod(a, 97, 0.01) // A[i,k] = ((i*128+k) % 97) * 0.01
	fillMod(b, 89, 0.01) // B[k,j] = ((k*128+j) % 89) * 0.01

	want := make([]float32, size*size)
	Naive(a, b, want, size, size, size)

	c := make([]float32, size*size)
	BlockedTile(a, b, c, size, size, size, 64)

	for i := range c {
		if diff := math.Abs(float64(c[i] - want[i])); diff > 1e-3 {
			t.Fatalf("c[%d] = %g, want %g (abs diff %g > 1e-3)", i, c[i], want[i], diff)
		}
	}

	// Reference values precomputed with strict ascending-k float32
	// accumulation (product rounded, then added).
	const wantFirst = 22.2559013
	const wantLast = 29.1936035
	if diff := math.Abs(float64(c[0]) - wantFirst); diff > 1e-3 {
		t.Errorf("C[0,0] = %g, want %g", c[0], wantFirst)
	}
	if diff := math.Abs(float64(c[size*size-1]) - wantLast); diff > 1e-3 {
		t.Errorf("C[127,127] = %g, want %g", c[size*size-1], wantLast)
	}
}

// TestScalarStrategy runs the pure-scalar kernel directly, so the fallback
// path is covered regardless of the host's dispatch level.
func TestScalarStrategy(t *testing.T) {
	dims := []struct{ m, n, k int }{
		{4, 4, 4},
		{65, 63, 127},
		{128, 128, 128},
		{3, 129, 5},
	}
	for _, d := range dims {
		t.Run(fmt.Sprintf("%dx%dx%d", d.m, d.n, d.k), func(t *testing.T) {
			a := make([]float32, d.m*d.k)
			b := make([]float32, d.k*d.n)
			fillMod(a, 97, 0.01)
			fillMod(b, 89, 0.01)

			want := make([]float32, d.m*d.n)
			Naive(a, b, want, d.m, d.n, d.k)

			c := make([]float32, d.m*d.n)
			zeroOut(c)
			panel := make([]float32, ((DefaultTile+3)/4)*4*DefaultTile)
			blockedScalar(a, b, c, d.m, d.n, d.k, DefaultTile, panel)

			requireClose(t, c, want, 1e-4)
		})
	}
}

// TestVectorStrategy runs the vector kernel directly for the same
// coverage symmetry.
func TestVectorStrategy(t *testing.T) {
	m, n, k := 65, 63, 127
	a := make([]float32, m*k)
	b := make([]float32, k*n)
	fillMod(a, 97, 0.01)
	fillMod(b, 89, 0.01)

	want := make([]float32, m*n)
	Naive(a, b, want, m, n, k)

	nr := hwy.Zero[float32]().NumLanes()
	groups := (DefaultTile + nr - 1) / nr
	panel := make([]float32, groups*nr*DefaultTile)

	c := make([]float32, m*n)
	zeroOut(c)
	blockedVec(a, b, c, m, n, k, DefaultTile, panel)

	requireClose(t, c, want, 1e-4)
}

func TestBlockedFloat64(t *testing.T) {
	m, n, k := 33, 65, 17
	a := make([]float64, m*k)
	b := make([]float64, k*n)
	for i := range a {
		a[i] = float64(i%97) * 0.01
	}
	for i := range b {
		b[i] = float64(i%89) * 0.01
	}

	want := make([]float64, m*n)
	Naive(a, b, want, m, n, k)

	c := make([]float64, m*n)
	Blocked(a, b, c, m, n, k)

	for i := range c {
		if diff := math.Abs(c[i] - want[i]); diff > 1e-10*math.Max(1, math.Abs(want[i])) {
			t.Fatalf("c[%d] = %g, want %g", i, c[i], want[i])
		}
	}
}

func TestMatMulAuto(t *testing.T) {
	for _, size := range []int{8, 96} {
		t.Run(fmt.Sprintf("%d", size), func(t *testing.T) {
			a := make([]float32, size*size)
			b := make([]float32, size*size)
			fillMod(a, 97, 0.01)
			fillMod(b, 89, 0.01)

			want := make([]float32, size*size)
			Naive(a, b, want, size, size, size)

			c := make([]float32, size*size)
			MatMul(a, b, c, size, size, size)
			requireClose(t, c, want, 1e-4)
		})
	}
}

func TestBlockedShortSlicePanics(t *testing.T) {
	cases := []struct {
		name    string
		a, b, c []float32
	}{
		{"short A", make([]float32, 3), make([]float32, 4), make([]float32, 4)},
		{"short B", make([]float32, 4), make([]float32, 3), make([]float32, 4)},
		{"short C", make([]float32, 4), make([]float32, 4), make([]float32, 3)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic on undersized slice")
				}
			}()
			Blocked(tc.a, tc.b, tc.c, 2, 2, 2)
		})
	}
}

func TestBadTilePanics(t *testing.T) {
	a := make([]float32, 4)
	b := make([]float32, 4)
	c := make([]float32, 4)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on non-positive tile")
		}
	}()
	BlockedTile(a, b, c, 2, 2, 2, 0)
}

func TestScratchReuse(t *testing.T) {
	m, n, k := 65, 65, 65
	a := make([]float32, m*k)
	b := make([]float32, k*n)
	fillMod(a, 97, 0.01)
	fillMod(b, 89, 0.01)

	want := make([]float32, m*n)
	Blocked(a, b, want, m, n, k)

	s := NewScratch[float32](32)
	c := make([]float32, m*n)
	// Scratch grows when reused with a larger tile.
	BlockedWithScratch(a, b, c, m, n, k, DefaultTile, s)

	for i := range c {
		if c[i] != want[i] {
			t.Fatalf("c[%d] = %v, want %v (scratch reuse must not change results)", i, c[i], want[i])
		}
	}
}
