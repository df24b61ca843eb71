package ir

// System is a named container of modules, arrays, and a reference to the
// driver. A System is frozen once Builder.End() returns it; nothing past
// that point mutates it other than the deterministic, write-once metadata
// attached by later phases (array write-port assignment, expression
// names).
type System struct {
	Name    string
	Modules []*Module
	Driver  *Module
	Arrays  []*Array
	frozen  bool
}

// NewSystem constructs an empty, unfrozen system.
func NewSystem(name string) *System {
	return &System{Name: name}
}

// AddModule registers a module with the system, recording the Driver
// reference specially.
func (s *System) AddModule(m *Module) {
	s.Modules = append(s.Modules, m)
	if m.Kind == Driver {
		s.Driver = m
	}
}

// AddArray registers an array with the system.
func (s *System) AddArray(a *Array) {
	s.Arrays = append(s.Arrays, a)
}

// Freeze marks the system as immutable. Idempotent.
func (s *System) Freeze() {
	s.frozen = true
}

// Frozen reports whether Freeze has been called.
func (s *System) Frozen() bool {
	return s.frozen
}

// Downstreams returns every Downstream module, in declaration order.
func (s *System) Downstreams() []*Module {
	var out []*Module

	for _, m := range s.Modules {
		if m.Kind == Downstream {
			out = append(out, m)
		}
	}

	return out
}

// Pipelines returns every Pipeline module, in declaration order.
func (s *System) Pipelines() []*Module {
	var out []*Module

	for _, m := range s.Modules {
		if m.Kind == Pipeline {
			out = append(out, m)
		}
	}

	return out
}
