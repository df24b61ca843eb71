package ir

import "github.com/assassyn-lang/assassyn/pkg/dtype"

// Port is a named, typed FIFO head declared on a Pipeline module. Its depth
// is the maximum explicit depth declared by any push targeting it
// (pkg/builder tracks the running maximum as push sites are constructed),
// defaulting to DefaultFIFODepth when no push ever specifies one.
type Port struct {
	Name  string
	DType *dtype.DType
	Owner *Module
	depth uint
}

// DefaultFIFODepth is used when no push site specifies an explicit depth.
const DefaultFIFODepth = 2

// NewPort declares a new input port on owner.
func NewPort(owner *Module, name string, t *dtype.DType) *Port {
	p := &Port{Name: name, DType: t, Owner: owner}
	owner.AddPort(p)

	return p
}

// Depth returns this port's FIFO depth: the maximum explicit depth declared
// by any push into it, or DefaultFIFODepth if none was ever specified.
func (p *Port) Depth() uint {
	if p.depth == 0 {
		return DefaultFIFODepth
	}

	return p.depth
}

// DeclareDepth raises this port's depth to at least n, tracking the
// maximum explicit depth declared by any push site (§3 Port/FIFO).
func (p *Port) DeclareDepth(n uint) {
	if n > p.depth {
		p.depth = n
	}
}
