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

package main

import (
	"fmt"
	"time"

	"github.com/ajroetker/go-highway/hwy"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/topdownlabs/kernels/bench"
	"github.com/topdownlabs/kernels/matmul"
)

var (
	matmulM       int
	matmulN       int
	matmulK       int
	matmulTile    int
	matmulVariant string
	matmulMinDur  time.Duration
)

var matmulCmd = &cobra.Command{
	Use:   "matmul",
	Short: "Dense float32 matrix multiply benchmark (C = A x B)",
	RunE:  runMatmul,
}

func init() {
	f := matmulCmd.Flags()
	f.IntVarP(&matmulM, "rows", "m", 1024, "rows of A and C")
	f.IntVarP(&matmulN, "cols", "n", 1024, "columns of B and C")
	f.IntVarP(&matmulK, "depth", "k", 1024, "columns of A, rows of B")
	f.IntVar(&matmulTile, "tile", matmul.DefaultTile, "cache tile size for tiled and blocked variants")
	f.StringVar(&matmulVariant, "variant", "blocked", "kernel variant: naive, reordered, tiled or blocked")
	f.DurationVar(&matmulMinDur, "min-duration", 2*time.Second, "keep repeating until this much wall time has elapsed")
	rootCmd.AddCommand(matmulCmd)
}

func runMatmul(cmd *cobra.Command, args []string) error {
	if matmulM <= 0 || matmulN <= 0 || matmulK <= 0 {
		return errors.Errorf("matmul: dimensions must be positive, got m=%d n=%d k=%d", matmulM, matmulN, matmulK)
	}
	if matmulTile <= 0 {
		return errors.Errorf("matmul: tile must be positive, got %d", matmulTile)
	}

	m, n, k := matmulM, matmulN, matmulK
	a := make([]float32, m*k)
	b := make([]float32, k*n)
	c := make([]float32, m*n)
	bench.FillMod(a, 97, 0.01)
	bench.FillMod(b, 89, 0.01)

	scratch := matmul.NewScratch[float32](matmulTile)

	var fn func()
	switch matmulVariant {
	case "naive":
		fn = func() { matmul.Naive(a, b, c, m, n, k) }
	case "reordered":
		fn = func() { matmul.Reordered(a, b, c, m, n, k) }
	case "tiled":
		fn = func() { matmul.Tiled(a, b, c, m, n, k, matmulTile) }
	case "blocked":
		fn = func() { matmul.BlockedWithScratch(a, b, c, m, n, k, matmulTile, scratch) }
	default:
		return errors.Errorf("matmul: unknown variant %q (want naive, reordered, tiled or blocked)", matmulVariant)
	}

	klog.V(1).Infof("matmul %dx%dx%d variant=%s tile=%d dispatch=%s strategy=%s",
		m, n, k, matmulVariant, matmulTile, hwy.CurrentName(), matmul.CurrentStrategy())

	bufBytes := uint64(len(a)+len(b)+len(c)) * 4
	fmt.Printf("matmul %s: %s x %s x %s (%s of buffers)\n",
		matmulVariant, humanize.Comma(int64(m)), humanize.Comma(int64(n)), humanize.Comma(int64(k)),
		humanize.Bytes(bufBytes))

	res := timedRun("matmul "+matmulVariant, matmulMinDur, fn)

	flops := 2 * float64(m) * float64(n) * float64(k)
	fmt.Printf("  reps:     %d\n", res.Reps)
	fmt.Printf("  per rep:  %v\n", res.PerRep().Round(time.Microsecond))
	fmt.Printf("  GFLOPS:   %.2f\n", res.GFLOPS(flops))
	fmt.Printf("  checksum: C[0]=%.7g C[last]=%.7g\n", c[0], c[m*n-1])
	return nil
}
