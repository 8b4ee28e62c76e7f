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
	"runtime"

	"github.com/ajroetker/go-highway/hwy"
	"github.com/spf13/cobra"
	"golang.org/x/sys/cpu"

	"github.com/topdownlabs/kernels/matmul"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Report the SIMD dispatch level and CPU feature flags",
	Run:   runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	fmt.Printf("platform:        %s/%s, %d CPUs\n", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	fmt.Printf("dispatch:        %s (%d-bit vectors)\n", hwy.CurrentName(), hwy.CurrentWidth())
	fmt.Printf("float32 lanes:   %d\n", hwy.MaxLanes[float32]())
	fmt.Printf("float64 lanes:   %d\n", hwy.MaxLanes[float64]())
	fmt.Printf("matmul strategy: %s\n", matmul.CurrentStrategy())

	switch runtime.GOARCH {
	case "amd64":
		fmt.Printf("cpu features:    AVX=%v AVX2=%v FMA=%v AVX512F=%v AVX512VL=%v\n",
			cpu.X86.HasAVX, cpu.X86.HasAVX2, cpu.X86.HasFMA,
			cpu.X86.HasAVX512F, cpu.X86.HasAVX512VL)
	case "arm64":
		fmt.Printf("cpu features:    ASIMD=%v FP=%v ASIMDHP=%v SVE=%v\n",
			cpu.ARM64.HasASIMD, cpu.ARM64.HasFP, cpu.ARM64.HasASIMDHP, cpu.ARM64.HasSVE)
	}
}
