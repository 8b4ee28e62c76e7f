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

// Command topdown-bench times the kernel variants in this repository and
// reports wall time, FLOP/s or bandwidth, and result checksums.
//
// Usage:
//
//	topdown-bench matmul -m 1024 -n 1024 -k 1024 --variant blocked
//	topdown-bench particles --layout both
//	topdown-bench triad --size 16777216
//	topdown-bench info
package main

import (
	goflag "flag"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/topdownlabs/kernels/bench"
)

var rootCmd = &cobra.Command{
	Use:           "topdown-bench",
	Short:         "Micro-benchmarks for the topdown-kernels numeric kernels",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func main() {
	klog.InitFlags(nil)
	rootCmd.PersistentFlags().AddGoFlagSet(goflag.CommandLine)
	defer klog.Flush()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// timedRun repeats fn until minDur elapses, drawing a progress bar scaled
// to the requested duration. A non-positive minDur times a single run
// without a bar.
func timedRun(label string, minDur time.Duration, fn func()) bench.Result {
	if minDur <= 0 {
		return bench.Run(0, fn)
	}

	bar := progressbar.NewOptions64(minDur.Milliseconds(),
		progressbar.OptionSetDescription(label),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)

	start := time.Now()
	reps := 0
	for {
		fn()
		reps++
		elapsed := time.Since(start)
		_ = bar.Set64(min(elapsed.Milliseconds(), minDur.Milliseconds()))
		if elapsed >= minDur {
			_ = bar.Finish()
			return bench.Result{Reps: reps, Elapsed: elapsed}
		}
	}
}
