// Package extern implements the external-HDL registry described by §4.6:
// tracking foreign-block classes, instance ownership, and cross-module
// reads of instance outputs, so pkg/lower and pkg/emit can wire wrappers
// without re-walking the IR.
package extern

import (
	"github.com/assassyn-lang/assassyn/pkg/diag"
	"github.com/assassyn-lang/assassyn/pkg/ir"
)

// classKey identifies a foreign module class by its declared identity.
type classKey struct {
	sourceFile string
	moduleName string
}

// CrossRead records a consumer module reading an output port of an
// instance owned by a different (producer) module.
type CrossRead struct {
	Consumer *ir.Module
	Producer *ir.Module
	Instance *ir.ExternalIntrinsic
	Port     string
	Index    *uint
}

// Registry collects external-HDL classes, instance ownership, and
// cross-module output reads during the single analysis walk (§4.5),
// frozen alongside the InteractionMatrix it rides along with.
type Registry struct {
	classes    map[classKey]*ir.ExternalClass
	classOrder []classKey
	owners     map[*ir.ExternalIntrinsic]*ir.Module
	instOrder  []*ir.ExternalIntrinsic
	crossReads []CrossRead
	frozen     bool
}

// NewRegistry constructs an empty, unfrozen registry.
func NewRegistry() *Registry {
	return &Registry{
		classes: map[classKey]*ir.ExternalClass{},
		owners:  map[*ir.ExternalIntrinsic]*ir.Module{},
	}
}

// Observe inspects one expression from module m's body, recording it if
// it is external-HDL related. Called once per expression during the
// analysis walk (pkg/analysis.Run), in body order.
func (r *Registry) Observe(m *ir.Module, e ir.Expr) {
	switch n := e.(type) {
	case *ir.ExternalIntrinsic:
		key := classKey{n.Class.SourceFile, n.Class.ModuleName}

		if _, ok := r.classes[key]; !ok {
			r.classes[key] = n.Class
			r.classOrder = append(r.classOrder, key)
		}

		r.owners[n] = m
		r.instOrder = append(r.instOrder, n)
	case *ir.ExternalOutputRead:
		producer, ok := r.owners[n.Instance]
		if ok && producer != m {
			r.crossReads = append(r.crossReads, CrossRead{
				Consumer: m,
				Producer: producer,
				Instance: n.Instance,
				Port:     n.Port,
				Index:    n.Index,
			})
		}
	}
}

// Freeze finalizes the registry, validating Open Question 5: an
// ExternalSV instance owned by a Driver module is legal only if none of
// its input arguments come from a FIFO pop (the async-call handshake
// signal). Returns every violation found; the caller aborts emission on
// any non-empty result.
func (r *Registry) Freeze() []error {
	r.frozen = true

	var errs []error

	for _, inst := range r.instOrder {
		owner := r.owners[inst]
		if owner.Kind != ir.Driver {
			continue
		}

		for _, arg := range inst.Args {
			if e, ok := arg.(ir.Expr); ok && e.Opcode() == ir.OpFIFOPop {
				errs = append(errs, diag.New(diag.TypeMismatch,
					"external instance %q in driver module %q reads a FIFO pop result, "+
						"which participates in an async-call handshake", inst.Class.ModuleName, owner.Name))
			}
		}
	}

	return errs
}

// Classes returns every distinct external class observed, in first-seen
// order.
func (r *Registry) Classes() []*ir.ExternalClass {
	out := make([]*ir.ExternalClass, 0, len(r.classOrder))

	for _, k := range r.classOrder {
		out = append(out, r.classes[k])
	}

	return out
}

// Owner returns the module that instantiated inst.
func (r *Registry) Owner(inst *ir.ExternalIntrinsic) (*ir.Module, bool) {
	m, ok := r.owners[inst]
	return m, ok
}

// CrossReads returns every cross-module instance-output read, in
// first-seen order.
func (r *Registry) CrossReads() []CrossRead {
	out := make([]CrossRead, len(r.crossReads))
	copy(out, r.crossReads)

	return out
}

// Frozen reports whether Freeze has run.
func (r *Registry) Frozen() bool { return r.frozen }
