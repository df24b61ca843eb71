// Package alloc implements the deterministic array write-port allocator
// of §4.7: for every non-payload array, assign each writing module a
// distinct port index by enumerating writers in the frozen
// InteractionMatrix's insertion order.
package alloc

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/assassyn-lang/assassyn/pkg/analysis"
	"github.com/assassyn-lang/assassyn/pkg/diag"
	"github.com/assassyn-lang/assassyn/pkg/ir"
)

// PortMap is the deterministic Module -> port-index assignment for one
// array, alongside a reverse lookup by index.
type PortMap struct {
	byModule map[*ir.Module]uint
	byIndex  []*ir.Module
}

// Port returns the write-port index assigned to m, or (0, false) if m
// never writes this array.
func (p *PortMap) Port(m *ir.Module) (uint, bool) {
	idx, ok := p.byModule[m]
	return idx, ok
}

// Writer returns the module assigned port index idx.
func (p *PortMap) Writer(idx uint) (*ir.Module, bool) {
	if int(idx) >= len(p.byIndex) {
		return nil, false
	}

	return p.byIndex[idx], true
}

// Count returns the number of distinct write ports assigned.
func (p *PortMap) Count() int { return len(p.byIndex) }

// AllocateWritePorts assigns write-port indices for every non-payload
// array matrix observed a write to, writing the result into each
// Array's own WritePorts field in addition to returning it. Payload
// arrays (memory backing stores) get no per-module port index here:
// the SRAM blackbox exposes a single write interface that pkg/assembly
// arbitrates across writer modules the same way it arbitrates FIFO
// push sites across callers, rather than giving each writer its own
// dedicated port.
func AllocateWritePorts(matrix *analysis.InteractionMatrix) map[*ir.Array]*PortMap {
	out := map[*ir.Array]*PortMap{}

	for _, arr := range matrix.Arrays() {
		if arr.IsPayload {
			continue
		}

		pm := &PortMap{byModule: map[*ir.Module]uint{}}
		seen := bitset.New(0)

		var next uint

		for _, w := range matrix.ArrayWrites(arr) {
			if _, already := pm.byModule[w.Module]; already {
				continue
			}

			idx := next
			next++

			if seen.Test(uint(idx)) {
				panic(diag.New(diag.Internal,
					"write-port allocator: index %d already assigned for array %q", idx, arr.Name))
			}

			seen.Set(uint(idx))

			pm.byModule[w.Module] = idx
			pm.byIndex = append(pm.byIndex, w.Module)
		}

		if uint(len(pm.byIndex)) != seen.Count() {
			panic(diag.New(diag.Internal,
				"write-port allocator: counter/bitset disagreement for array %q", arr.Name))
		}

		arr.WritePorts = pm.byModule
		out[arr] = pm
	}

	return out
}
