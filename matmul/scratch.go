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

import "github.com/ajroetker/go-highway/hwy"

// scalarPanelWidth is the micro-panel column width for the scalar kernel
// strategy: the 4x4 register block.
const scalarPanelWidth = 4

// panelWidth returns the packed micro-panel column width for the current
// kernel strategy: the vector lane count, or 4 for the scalar strategy.
func panelWidth[T hwy.Floats]() int {
	if kernelStrategy == StrategyScalar {
		return scalarPanelWidth
	}
	return hwy.Zero[T]().NumLanes()
}

// Scratch holds the packed B panel reused across all (j-tile, k-tile)
// pairs of one Blocked call. It is sized once for the maximum tile and
// never grows during a call; ragged edge tiles use a sub-region.
//
// A Scratch is private to one kernel invocation at a time. It is not safe
// for concurrent use: callers parallelizing over tiles must allocate one
// Scratch per goroutine.
type Scratch[T hwy.Floats] struct {
	panel []T
	tile  int
}

// NewScratch allocates scratch for Blocked calls with the given tile size.
// The panel is sized to whole micro-panels: ceil(tile/nr) * nr * tile
// elements, where nr is the micro-panel width.
func NewScratch[T hwy.Floats](tile int) *Scratch[T] {
	if tile <= 0 {
		panic("matmul: tile size must be positive")
	}
	s := &Scratch[T]{}
	s.ensure(tile)
	return s
}

// ensure makes the panel large enough for the given tile size,
// reallocating only when a caller reuses the Scratch with a larger tile.
func (s *Scratch[T]) ensure(tile int) {
	nr := panelWidth[T]()
	groups := (tile + nr - 1) / nr
	need := groups * nr * tile
	if len(s.panel) < need {
		s.panel = make([]T, need)
	}
	if tile > s.tile {
		s.tile = tile
	}
}
