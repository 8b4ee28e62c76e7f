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
	"k8s.io/klog/v2"

	"github.com/topdownlabs/kernels/bench"
	"github.com/topdownlabs/kernels/softmax"
)

var (
	softmaxSize   int
	softmaxMinDur time.Duration
)

var softmaxCmd = &cobra.Command{
	Use:   "softmax",
	Short: "Numerically stable softmax over a single row",
	RunE:  runSoftmax,
}

func init() {
	f := softmaxCmd.Flags()
	f.IntVar(&softmaxSize, "size", 4096, "row length")
	f.DurationVar(&softmaxMinDur, "min-duration", 2*time.Second, "keep repeating until this much wall time has elapsed")
	rootCmd.AddCommand(softmaxCmd)
}

func runSoftmax(cmd *cobra.Command, args []string) error {
	if softmaxSize <= 0 {
		return errors.Errorf("softmax: size must be positive, got %d", softmaxSize)
	}

	n := softmaxSize
	input := make([]float32, n)
	scalarOut := make([]float32, n)
	vectorOut := make([]float32, n)
	bench.FillMod(input, 97, 0.01)

	fmt.Printf("softmax: row of %s elements (%s)\n",
		humanize.Comma(int64(n)), humanize.Bytes(uint64(n)*4))

	resScalar := timedRun("softmax scalar", softmaxMinDur, func() {
		softmax.Scalar(input, scalarOut)
	})
	resVector := timedRun("softmax vector", softmaxMinDur, func() {
		softmax.Softmax(input, vectorOut)
	})

	perScalar := resScalar.PerRep()
	perVector := resVector.PerRep()
	fmt.Printf("  scalar: %v/row, %.1f Melem/s\n",
		perScalar.Round(time.Nanosecond), float64(n)/perScalar.Seconds()/1e6)
	fmt.Printf("  vector: %v/row, %.1f Melem/s (%.2fx)\n",
		perVector.Round(time.Nanosecond), float64(n)/perVector.Seconds()/1e6,
		perScalar.Seconds()/perVector.Seconds())

	var maxDiff float64
	for i := range scalarOut {
		d := float64(scalarOut[i] - vectorOut[i])
		if d < 0 {
			d = -d
		}
		if d > maxDiff {
			maxDiff = d
		}
	}
	klog.V(1).Infof("softmax: max |scalar-vector| = %g", maxDiff)
	fmt.Printf("  checksum: sum=%.6f (want 1), max diff=%.3g\n", bench.Checksum(vectorOut), maxDiff)
	return nil
}
