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

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/topdownlabs/kernels/bench"
	"github.com/topdownlabs/kernels/triad"
)

var (
	triadSize   int
	triadScale  float32
	triadMinDur time.Duration
)

var triadCmd = &cobra.Command{
	Use:   "triad",
	Short: "STREAM triad bandwidth benchmark (a = b + s*c)",
	RunE:  runTriad,
}

func init() {
	f := triadCmd.Flags()
	f.IntVar(&triadSize, "size", 1<<24, "elements per array")
	f.Float32Var(&triadScale, "scale", 3.0, "scalar multiplier s")
	f.DurationVar(&triadMinDur, "min-duration", 2*time.Second, "keep repeating until this much wall time has elapsed")
	rootCmd.AddCommand(triadCmd)
}

func runTriad(cmd *cobra.Command, args []string) error {
	if triadSize <= 0 {
		return errors.Errorf("triad: size must be positive, got %d", triadSize)
	}

	n := triadSize
	a := make([]float32, n)
	b := make([]float32, n)
	c := make([]float32, n)
	bench.FillMod(b, 89, 0.01)
	bench.FillMod(c, 97, 0.01)

	// One read of b, one read of c, one write of a per element.
	repBytes := float64(n) * 3 * 4
	fmt.Printf("triad: %s elements per array (%s total)\n",
		humanize.Comma(int64(n)), humanize.Bytes(uint64(n)*3*4))

	resScalar := timedRun("triad scalar", triadMinDur, func() {
		triad.Scalar(a, b, c, triadScale)
	})
	resVector := timedRun("triad vector", triadMinDur, func() {
		triad.Triad(a, b, c, triadScale)
	})

	perScalar := resScalar.PerRep()
	perVector := resVector.PerRep()
	fmt.Printf("  scalar: %v/pass, %.2f GB/s\n",
		perScalar.Round(time.Microsecond), repBytes/perScalar.Seconds()/1e9)
	fmt.Printf("  vector: %v/pass, %.2f GB/s (%.2fx)\n",
		perVector.Round(time.Microsecond), repBytes/perVector.Seconds()/1e9,
		perScalar.Seconds()/perVector.Seconds())
	fmt.Printf("  checksum: %.6g\n", bench.Checksum(a))
	return nil
}
