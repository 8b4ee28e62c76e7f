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

// Package particles contains the particle position-update kernel in both
// array-of-structures and structure-of-arrays layouts.
//
// The hot loop touches only positions and velocities: 24 of the 60 bytes
// in each AoS record. The SoA layout keeps the six hot arrays in separate
// allocations, so every loaded cache line is fully useful data, and the
// update vectorizes cleanly.
package particles

import "github.com/ajroetker/go-highway/hwy"

// Particle is the array-of-structures record. Only the position and
// velocity fields are touched by the update kernel; the rest ride along
// in the same cache lines.
type Particle struct {
	X, Y, Z    float32
	VX, VY, VZ float32

	Mass, Charge, Temperature float32
	Pressure, Energy, Density float32
	SpinX, SpinY, SpinZ       float32
}

// UpdateAoS advances positions by one dt step over the AoS layout.
func UpdateAoS(ps []Particle, dt float32) {
	for i := range ps {
		ps[i].X += ps[i].VX * dt
		ps[i].Y += ps[i].VY * dt
		ps[i].Z += ps[i].VZ * dt
	}
}

// SoA is the structure-of-arrays layout: one slice per field.
type SoA struct {
	X, Y, Z    []float32
	VX, VY, VZ []float32

	Mass, Charge, Temperature []float32
	Pressure, Energy, Density []float32
	SpinX, SpinY, SpinZ       []float32
}

// NewSoA allocates all field arrays for n particles.
func NewSoA(n int) *SoA {
	return &SoA{
		X: make([]float32, n), Y: make([]float32, n), Z: make([]float32, n),
		VX: make([]float32, n), VY: make([]float32, n), VZ: make([]float32, n),
		Mass: make([]float32, n), Charge: make([]float32, n), Temperature: make([]float32, n),
		Pressure: make([]float32, n), Energy: make([]float32, n), Density: make([]float32, n),
		SpinX: make([]float32, n), SpinY: make([]float32, n), SpinZ: make([]float32, n),
	}
}

// Len returns the particle count.
func (p *SoA) Len() int { return len(p.X) }

// FillDeterministic seeds the fields with the reproducible values used by
// the benchmarks, so AoS and SoA runs produce comparable checksums.
func (p *SoA) FillDeterministic() {
	for i := range p.X {
		f := float32(i)
		p.X[i] = f * 0.1
		p.Y[i] = f * 0.2
		p.Z[i] = f * 0.3
		p.VX[i] = 1.0
		p.VY[i] = 2.0
		p.VZ[i] = 3.0
		p.Mass[i] = 1.0
		p.Charge[i] = 0.5
		p.Temperature[i] = 300.0
		p.Pressure[i] = 101325.0
		p.Density[i] = 1.0
	}
}

// FillDeterministic seeds an AoS slice with the same values as
// (*SoA).FillDeterministic.
func FillDeterministic(ps []Particle) {
	for i := range ps {
		f := float32(i)
		ps[i] = Particle{
			X: f * 0.1, Y: f * 0.2, Z: f * 0.3,
			VX: 1.0, VY: 2.0, VZ: 3.0,
			Mass: 1.0, Charge: 0.5, Temperature: 300.0,
			Pressure: 101325.0, Density: 1.0,
		}
	}
}

// UpdatePositions advances positions by one dt step using SIMD
// fused multiply-add per axis, with a scalar tail.
func (p *SoA) UpdatePositions(dt float32) {
	axpy(p.X, p.VX, dt)
	axpy(p.Y, p.VY, dt)
	axpy(p.Z, p.VZ, dt)
}

// UpdatePositionsScalar is the scalar twin of UpdatePositions, kept as
// the comparison baseline. Separate multiply and add roundings, so it can
// differ from the FMA path in the last bit.
func (p *SoA) UpdatePositionsScalar(dt float32) {
	for i := range p.X {
		p.X[i] += p.VX[i] * dt
		p.Y[i] += p.VY[i] * dt
		p.Z[i] += p.VZ[i] * dt
	}
}

// axpy computes dst[i] += v[i] * s over the full slice.
func axpy(dst, v []float32, s float32) {
	lanes := hwy.MaxLanes[float32]()
	vs := hwy.Set(s)

	var i int
	for i = 0; i+lanes <= len(dst); i += lanes {
		acc := hwy.MulAdd(hwy.Load(v[i:]), vs, hwy.Load(dst[i:]))
		hwy.Store(acc, dst[i:])
	}
	for ; i < len(dst); i++ {
		dst[i] += v[i] * s
	}
}

// Checksum sums x+y+z over all particles in float64, matching the
// benchmark's verification output.
func (p *SoA) Checksum() float64 {
	var sum float64
	for i := range p.X {
		sum += float64(p.X[i]) + float64(p.Y[i]) + float64(p.Z[i])
	}
	return sum
}

// ChecksumAoS is Checksum over the AoS layout.
func ChecksumAoS(ps []Particle) float64 {
	var sum float64
	for i := range ps {
		sum += float64(ps[i].X) + float64(ps[i].Y) + float64(ps[i].Z)
	}
	return sum
}
