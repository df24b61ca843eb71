// Package naming assigns deterministic, collision-free identifiers to
// every IR expression that lacks an explicit one, per §4.4. It runs after
// the builder has finished producing a System and before analysis, so
// every name downstream passes see is final.
package naming

import (
	"strings"
	"unicode"

	"github.com/assassyn-lang/assassyn/pkg/ir"
	"github.com/assassyn-lang/assassyn/pkg/value"
)

// maxFragmentLen truncates derived names, per §4.4 rule 2.
const maxFragmentLen = 25

// moduleNamer scopes suffix disambiguation to one module (HDL identifiers
// live in module-local namespaces).
type moduleNamer struct {
	used       map[string]bool
	nextSuffix map[string]int
}

func newModuleNamer() *moduleNamer {
	return &moduleNamer{used: map[string]bool{}, nextSuffix: map[string]int{}}
}

// reserve marks name as taken without renaming anything; used for
// expressions that already carry an explicit name.
func (n *moduleNamer) reserve(name string) {
	n.used[strings.ToLower(name)] = true
}

// disambiguate returns base if unused, else base suffixed with _1, _2, …
// (case-insensitively) until free. Idempotent: calling it again with an
// already-assigned name that happens to equal base is a no-op at the
// call site (AssignModule never re-derives a name once one is set).
func (n *moduleNamer) disambiguate(base string) string {
	low := strings.ToLower(base)
	if !n.used[low] {
		n.used[low] = true
		return base
	}

	for {
		n.nextSuffix[low]++

		candidate := base + "_" + itoa(n.nextSuffix[low])
		clow := strings.ToLower(candidate)

		if !n.used[clow] {
			n.used[clow] = true
			return candidate
		}
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	neg := n < 0
	if neg {
		n = -n
	}

	var buf [20]byte

	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}

	if neg {
		i--
		buf[i] = '-'
	}

	return string(buf[i:])
}

// AssignNames walks every module of sys in body order, deriving a name for
// every expression that doesn't already carry an explicit one. Structural
// predicate markers are skipped; they never surface as HDL identifiers.
func AssignNames(sys *ir.System) {
	for _, m := range sys.Modules {
		assignModule(m)
	}
}

func assignModule(m *ir.Module) {
	nm := newModuleNamer()

	for _, e := range m.Body {
		switch e.(type) {
		case *ir.PushPredicateMarker, *ir.PopPredicateMarker:
			continue
		}

		if e.Name() != "" {
			nm.reserve(e.Name())
			continue
		}

		e.SetName(nm.disambiguate(derivePrefix(e)))
	}
}

// derivePrefix computes the unsuffixed name for e per §4.4 rule 2.
func derivePrefix(e ir.Expr) string {
	switch n := e.(type) {
	case *ir.BinaryOp:
		base := operandFragment(n.LHS) + "_" + opcodePrefix[n.Op] + "_" + operandFragment(n.RHS)
		return truncate(base)
	case *ir.UnaryOp:
		return truncate(opcodePrefix[n.Op] + "_" + operandFragment(n.Arg))
	case *ir.Cast:
		return truncate(opcodePrefix[n.Op] + "_" + operandFragment(n.Arg))
	case *ir.ArrayRead:
		return truncate(opcodePrefix[ir.OpArrayRead] + "_" + n.Array.Name)
	case *ir.ArrayWrite:
		return truncate(opcodePrefix[ir.OpArrayWrite] + "_" + n.Array.Name)
	case *ir.FIFOPush:
		return truncate(opcodePrefix[ir.OpFIFOPush] + "_" + n.Port.Name)
	case *ir.FIFOPop:
		return opcodePrefix[ir.OpFIFOPop]
	case *ir.AsyncCall:
		return truncate(opcodePrefix[ir.OpAsyncCall] + "_" + n.Callee.Name)
	case *ir.WireRead:
		return truncate(opcodePrefix[ir.OpWireRead] + "_" + n.WireName)
	case *ir.WireAssign:
		return truncate(opcodePrefix[ir.OpWireAssign] + "_" + n.WireName)
	case *ir.PureIntrinsic:
		return truncate(n.IntrinsicName)
	case *ir.ExternalOutputRead:
		return truncate(opcodePrefix[ir.OpExternalOutputRead] + "_" + n.Port)
	default:
		if p, ok := opcodePrefix[e.Opcode()]; ok {
			return p
		}

		return "v"
	}
}

// operandFragment renders a short identity fragment for an operand:
// another expression's own name, or a literal rendering for a constant.
func operandFragment(v value.Value) string {
	if c, ok := value.AsConst(v); ok {
		return "c" + c.Val.String()
	}

	if e, ok := v.(ir.Expr); ok && e.Name() != "" {
		return e.Name()
	}

	return "v"
}

func truncate(s string) string {
	if len(s) <= maxFragmentLen {
		return s
	}

	return s[:maxFragmentLen]
}

// InstanceName converts a module name into the PascalCase + "Instance"
// form used for HDL module instantiations (§4.4 rule 4), avoiding
// collisions with wire names in the target HDL.
func InstanceName(moduleName string) string {
	parts := strings.FieldsFunc(moduleName, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})

	var b strings.Builder

	for _, p := range parts {
		if p == "" {
			continue
		}

		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}

	b.WriteString("Instance")

	return b.String()
}
