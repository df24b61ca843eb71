// Package analysis implements the single read-only analysis pass of
// §4.5: one traversal of every module body, producing a frozen
// InteractionMatrix that pkg/alloc, pkg/lower and pkg/assembly query
// without ever re-walking the IR themselves.
package analysis

import (
	"github.com/assassyn-lang/assassyn/pkg/extern"
	"github.com/assassyn-lang/assassyn/pkg/ir"
	"github.com/assassyn-lang/assassyn/pkg/value"
)

// CallSite is one async-call site: the callee and the predicate active
// when the call was made.
type CallSite struct {
	Callee *ir.Module
	Cond   value.Value
}

// ArrayWriteSite pairs a writer module with its write expression.
type ArrayWriteSite struct {
	Module *ir.Module
	Write  *ir.ArrayWrite
}

// ArrayReadSite pairs a reader module with its read expression.
type ArrayReadSite struct {
	Module *ir.Module
	Read   *ir.ArrayRead
}

type arrayBucket struct {
	writes []ArrayWriteSite
	reads  []ArrayReadSite
}

// FIFOPushSite pairs a producer module with its push expression.
type FIFOPushSite struct {
	Module *ir.Module
	Push   *ir.FIFOPush
}

// FIFOPopSite pairs a consumer module with its pop expression.
type FIFOPopSite struct {
	Module *ir.Module
	Pop    *ir.FIFOPop
}

type fifoBucket struct {
	pushes []FIFOPushSite
	pops   []FIFOPopSite
}

// Exposure records a value produced by one module and consumed by an
// expression belonging to a different module.
type Exposure struct {
	Producer *ir.Module
	Consumer *ir.Module
	Value    ir.Expr
}

// FinishSite pairs a module with one of its Finish expressions.
type FinishSite struct {
	Module *ir.Module
	Finish *ir.Finish
}

// LogSite pairs a module with one of its Log expressions.
type LogSite struct {
	Module *ir.Module
	Log    *ir.Log
}

// InteractionMatrix is the frozen result of one analysis pass. Every
// accessor returns a defensive copy or a read-only view; nothing lets a
// caller mutate the matrix after Run returns it.
type InteractionMatrix struct {
	asyncLedger   map[*ir.Module][]CallSite
	callerOrder   []*ir.Module
	arrays        map[*ir.Array]*arrayBucket
	arrayOrder    []*ir.Array
	fifos         map[*ir.Port]*fifoBucket
	fifoOrder     []*ir.Port
	exposures     []Exposure
	exposureSeen  map[exposureKey]bool
	finishes      map[*ir.Module][]FinishSite
	logs          map[*ir.Module][]LogSite
	moduleOrder   []*ir.Module
	externals     *extern.Registry
	nextReadOrder int
	frozen        bool
}

type exposureKey struct {
	producerExprID uint64
	consumer       *ir.Module
}

func newMatrix() *InteractionMatrix {
	return &InteractionMatrix{
		asyncLedger:  map[*ir.Module][]CallSite{},
		arrays:       map[*ir.Array]*arrayBucket{},
		fifos:        map[*ir.Port]*fifoBucket{},
		exposureSeen: map[exposureKey]bool{},
		finishes:     map[*ir.Module][]FinishSite{},
		logs:         map[*ir.Module][]LogSite{},
		externals:    extern.NewRegistry(),
	}
}

// AsyncCalls returns caller's outgoing call sites, in body order.
func (m *InteractionMatrix) AsyncCalls(caller *ir.Module) []CallSite {
	return append([]CallSite(nil), m.asyncLedger[caller]...)
}

// Callers returns every module that issued at least one async call, in
// first-seen order.
func (m *InteractionMatrix) Callers() []*ir.Module {
	return append([]*ir.Module(nil), m.callerOrder...)
}

// Arrays returns every array with at least one write or read site, in
// first-seen order.
func (m *InteractionMatrix) Arrays() []*ir.Array {
	return append([]*ir.Array(nil), m.arrayOrder...)
}

// ArrayWrites returns a's write sites, in first-seen (= insertion) order.
func (m *InteractionMatrix) ArrayWrites(a *ir.Array) []ArrayWriteSite {
	b, ok := m.arrays[a]
	if !ok {
		return nil
	}

	return append([]ArrayWriteSite(nil), b.writes...)
}

// ArrayReads returns a's read sites, in first-seen order.
func (m *InteractionMatrix) ArrayReads(a *ir.Array) []ArrayReadSite {
	b, ok := m.arrays[a]
	if !ok {
		return nil
	}

	return append([]ArrayReadSite(nil), b.reads...)
}

// FIFOPorts returns every port with at least one push or pop site, in
// first-seen order.
func (m *InteractionMatrix) FIFOPorts() []*ir.Port {
	return append([]*ir.Port(nil), m.fifoOrder...)
}

// FIFOPushes returns p's push sites, in first-seen order.
func (m *InteractionMatrix) FIFOPushes(p *ir.Port) []FIFOPushSite {
	b, ok := m.fifos[p]
	if !ok {
		return nil
	}

	return append([]FIFOPushSite(nil), b.pushes...)
}

// FIFOPops returns p's pop sites, in first-seen order.
func (m *InteractionMatrix) FIFOPops(p *ir.Port) []FIFOPopSite {
	b, ok := m.fifos[p]
	if !ok {
		return nil
	}

	return append([]FIFOPopSite(nil), b.pops...)
}

// Exposures returns every cross-module value exposure, in first-seen
// order.
func (m *InteractionMatrix) Exposures() []Exposure {
	return append([]Exposure(nil), m.exposures...)
}

// ExposuresFor returns the exposures consumed by consumer, in first-seen
// order.
func (m *InteractionMatrix) ExposuresFor(consumer *ir.Module) []Exposure {
	var out []Exposure

	for _, ex := range m.exposures {
		if ex.Consumer == consumer {
			out = append(out, ex)
		}
	}

	return out
}

// Dependencies returns the distinct producer modules that consumer's
// exposures draw from, in first-seen order — the input set for a
// Downstream module's "<upstream>_executed" port surface (§4.8).
func (m *InteractionMatrix) Dependencies(consumer *ir.Module) []*ir.Module {
	seen := map[*ir.Module]bool{}

	var out []*ir.Module

	for _, ex := range m.exposures {
		if ex.Consumer == consumer && !seen[ex.Producer] {
			seen[ex.Producer] = true
			out = append(out, ex.Producer)
		}
	}

	return out
}

// FinishSites returns m's finish sites, in body order.
func (mx *InteractionMatrix) FinishSites(m *ir.Module) []FinishSite {
	return append([]FinishSite(nil), mx.finishes[m]...)
}

// LogSites returns m's log sites, in body order.
func (mx *InteractionMatrix) LogSites(m *ir.Module) []LogSite {
	return append([]LogSite(nil), mx.logs[m]...)
}

// Externals returns the frozen external-HDL registry built alongside
// this matrix.
func (m *InteractionMatrix) Externals() *extern.Registry { return m.externals }

// Frozen reports whether Run has finished building this matrix.
func (m *InteractionMatrix) Frozen() bool { return m.frozen }
