package ir

import "github.com/assassyn-lang/assassyn/pkg/dtype"

// ArrayOwner discriminates an Array's declared owner.
type ArrayOwner int

// The three owner kinds an Array may have.
const (
	OwnerNone ArrayOwner = iota
	OwnerModule
	OwnerMemory
)

// Array is a register file (or memory payload array): a sized, typed
// storage with deterministic write-port assignment (§4.7) and per-read-site
// read-port numbering (§4.5).
type Array struct {
	Name        string
	ElementType *dtype.DType
	Size        uint
	// Init holds the reset initializer, one entry per element; nil or
	// short entries default to zero (§6 register-file interface).
	Init []*int64
	// OwnerKind/OwnerModule describe ownership (data model invariant b).
	OwnerKind   ArrayOwner
	OwnerModule *Module
	// IsPayload marks an array as a memory payload array, emitted by the
	// SRAM blackbox generator rather than the generic register-file
	// emitter.
	IsPayload bool
	// WritePorts is the deterministic Module -> port-index map assigned
	// by the allocator (pkg/alloc); empty until the allocator runs, and
	// read-only thereafter.
	WritePorts map[*Module]uint
}

// NewArray constructs a non-payload array of the given element type and
// size.
func NewArray(name string, elem *dtype.DType, size uint) *Array {
	return &Array{Name: name, ElementType: elem, Size: size}
}

// AddrWidth returns the number of bits needed to address this array's
// elements, or zero when Size == 1 (Open Question 2: size-1 arrays are
// addressless everywhere).
func (a *Array) AddrWidth() uint {
	if a.Size <= 1 {
		return 0
	}

	w := uint(0)
	for n := a.Size - 1; n > 0; n >>= 1 {
		w++
	}

	return w
}
