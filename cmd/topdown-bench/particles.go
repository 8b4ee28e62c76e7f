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

	"github.com/topdownlabs/kernels/particles"
)

var (
	particlesCount  int
	particlesDT     float32
	particlesLayout string
	particlesMinDur time.Duration
)

var particlesCmd = &cobra.Command{
	Use:   "particles",
	Short: "Particle position update, AoS versus SoA layout",
	RunE:  runParticles,
}

func init() {
	f := particlesCmd.Flags()
	f.IntVarP(&particlesCount, "count", "n", 1<<20, "number of particles")
	f.Float32Var(&particlesDT, "dt", 0.001, "time step per update")
	f.StringVar(&particlesLayout, "layout", "both", "layout to benchmark: aos, soa or both")
	f.DurationVar(&particlesMinDur, "min-duration", 2*time.Second, "keep repeating until this much wall time has elapsed")
	rootCmd.AddCommand(particlesCmd)
}

func runParticles(cmd *cobra.Command, args []string) error {
	if particlesCount <= 0 {
		return errors.Errorf("particles: count must be positive, got %d", particlesCount)
	}
	switch particlesLayout {
	case "aos", "soa", "both":
	default:
		return errors.Errorf("particles: unknown layout %q (want aos, soa or both)", particlesLayout)
	}

	n := particlesCount
	// The update touches positions and velocities only: 24 bytes per
	// particle per rep, regardless of layout.
	hotBytes := float64(n) * 24

	fmt.Printf("particles: %s particles, dt=%g\n", humanize.Comma(int64(n)), particlesDT)

	if particlesLayout == "aos" || particlesLayout == "both" {
		ps := make([]particles.Particle, n)
		particles.FillDeterministic(ps)
		klog.V(1).Infof("particles aos: %s resident", humanize.Bytes(uint64(n)*60))

		res := timedRun("particles aos", particlesMinDur, func() {
			particles.UpdateAoS(ps, particlesDT)
		})
		reportParticles("AoS", res.PerRep(), hotBytes, particles.ChecksumAoS(ps))
	}

	if particlesLayout == "soa" || particlesLayout == "both" {
		soa := particles.NewSoA(n)
		soa.FillDeterministic()
		klog.V(1).Infof("particles soa: %s resident", humanize.Bytes(uint64(n)*60))

		res := timedRun("particles soa", particlesMinDur, func() {
			soa.UpdatePositions(particlesDT)
		})
		reportParticles("SoA", res.PerRep(), hotBytes, soa.Checksum())
	}
	return nil
}

func reportParticles(layout string, perRep time.Duration, hotBytes, checksum float64) {
	gbs := hotBytes / perRep.Seconds() / 1e9
	fmt.Printf("  %s: %v/update, %.2f GB/s effective, checksum=%.6g\n",
		layout, perRep.Round(time.Microsecond), gbs, checksum)
}
