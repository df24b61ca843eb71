package analysis

import (
	"github.com/assassyn-lang/assassyn/pkg/diag"
	"github.com/assassyn-lang/assassyn/pkg/ir"
)

// Run performs the single read-only analysis pass of §4.5: walk every
// module in sys, in declaration order, then every expression in each
// module's body, in body order, populating a fresh InteractionMatrix.
// The matrix is frozen before returning; errs aggregates any fail-fast
// structural violations plus the embedded external registry's Open
// Question 5 violations. A non-empty errs means the caller must abort
// before pkg/alloc runs.
func Run(sys *ir.System) (*InteractionMatrix, []error) {
	m := newMatrix()

	var errs []error

	for _, mod := range sys.Modules {
		m.moduleOrder = append(m.moduleOrder, mod)

		for _, e := range mod.Body {
			if e.Cond() == nil {
				if _, isMarker := e.(*ir.PushPredicateMarker); !isMarker {
					if _, isPop := e.(*ir.PopPredicateMarker); !isPop {
						errs = append(errs, diag.New(diag.MissingPredicateMetadata,
							"expression %T in module %q has no frozen predicate condition", e, mod.Name))
					}
				}
			}

			m.observe(mod, e)
			m.externals.Observe(mod, e)
			m.observeExposures(mod, e)
		}
	}

	errs = append(errs, m.externals.Freeze()...)
	m.frozen = true

	return m, errs
}

// observe dispatches e into its ledger/bucket by concrete node kind.
func (m *InteractionMatrix) observe(mod *ir.Module, e ir.Expr) {
	switch n := e.(type) {
	case *ir.AsyncCall:
		if _, ok := m.asyncLedger[mod]; !ok {
			m.callerOrder = append(m.callerOrder, mod)
		}

		m.asyncLedger[mod] = append(m.asyncLedger[mod], CallSite{Callee: n.Callee, Cond: n.Cond()})

	case *ir.ArrayWrite:
		b := m.arrayBucketFor(n.Array)
		b.writes = append(b.writes, ArrayWriteSite{Module: mod, Write: n})

	case *ir.ArrayRead:
		n.ReadOrder = m.nextReadOrder
		m.nextReadOrder++

		b := m.arrayBucketFor(n.Array)
		b.reads = append(b.reads, ArrayReadSite{Module: mod, Read: n})

	case *ir.FIFOPush:
		b := m.fifoBucketFor(n.Port)
		b.pushes = append(b.pushes, FIFOPushSite{Module: mod, Push: n})

	case *ir.FIFOPop:
		b := m.fifoBucketFor(n.Port)
		b.pops = append(b.pops, FIFOPopSite{Module: mod, Pop: n})

	case *ir.Finish:
		m.finishes[mod] = append(m.finishes[mod], FinishSite{Module: mod, Finish: n})

	case *ir.Log:
		m.logs[mod] = append(m.logs[mod], LogSite{Module: mod, Log: n})
	}
}

func (m *InteractionMatrix) arrayBucketFor(a *ir.Array) *arrayBucket {
	b, ok := m.arrays[a]
	if !ok {
		b = &arrayBucket{}
		m.arrays[a] = b
		m.arrayOrder = append(m.arrayOrder, a)
	}

	return b
}

func (m *InteractionMatrix) fifoBucketFor(p *ir.Port) *fifoBucket {
	b, ok := m.fifos[p]
	if !ok {
		b = &fifoBucket{}
		m.fifos[p] = b
		m.fifoOrder = append(m.fifoOrder, p)
	}

	return b
}

// observeExposures records a cross-module value exposure for every
// operand of e that is itself an expression owned by a different
// module — the producer-consumer edges pkg/lower needs to synthesize
// "<upstream>_executed" port surfaces (§4.8) and pkg/assembly needs to
// wire producer outputs to consumer inputs (§4.9).
func (m *InteractionMatrix) observeExposures(consumer *ir.Module, e ir.Expr) {
	for _, operand := range e.Operands() {
		producerExpr, ok := operand.(ir.Expr)
		if !ok {
			continue
		}

		producer := producerExpr.Module()
		if producer == nil || producer == consumer {
			continue
		}

		key := exposureKey{producerExprID: producerExpr.ID(), consumer: consumer}
		if m.exposureSeen[key] {
			continue
		}

		m.exposureSeen[key] = true
		m.exposures = append(m.exposures, Exposure{Producer: producer, Consumer: consumer, Value: producerExpr})
	}
}
