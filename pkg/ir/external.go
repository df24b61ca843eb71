package ir

import "github.com/assassyn-lang/assassyn/pkg/dtype"

// PortDirection is the declared direction of one foreign-module port.
type PortDirection int

// The two port directions a foreign HDL block may declare.
const (
	DirIn PortDirection = iota
	DirOut
)

// ExternalPort describes one declared port of a foreign HDL block.
type ExternalPort struct {
	Name      string
	Dir       PortDirection
	DType     *dtype.DType
	Signed    bool
	WantClock bool
	WantReset bool
}

// ExternalClass describes one foreign HDL module definition: the source
// file it was declared against and its port list. Two ExternalIntrinsic
// instantiations sharing the same source file and module name share a
// single ExternalClass (discovered by pkg/extern).
type ExternalClass struct {
	SourceFile string
	ModuleName string
	Ports      []ExternalPort
}

// Port looks up a declared port by name.
func (c *ExternalClass) Port(name string) (ExternalPort, bool) {
	for _, p := range c.Ports {
		if p.Name == name {
			return p, true
		}
	}

	return ExternalPort{}, false
}
