// Package value defines the abstract Value handle shared by constants and
// IR expressions (pkg/ir), and the one concrete constant variant. Operator
// overloading that constructs IR nodes lives in pkg/builder, which is the
// only package permitted to mutate module bodies; this package stays a
// leaf with no knowledge of modules or predicates.
package value

import (
	"fmt"
	"math/big"

	"github.com/assassyn-lang/assassyn/pkg/dtype"
)

// Value is the abstract handle every operand in the IR implements: either a
// Const or an ir.Expr.
type Value interface {
	fmt.Stringer
	// DType returns this value's type.
	DType() *dtype.DType
	// IsConst reports whether this value is a Const (as opposed to an
	// Expr), allowing constant-folding call sites to type-switch cheaply.
	IsConst() bool
}

// Const is an immediate value of a given type.
type Const struct {
	T   *dtype.DType
	Val *big.Int
}

// NewConst constructs a constant, validating it against the type's
// representable range. It deliberately does not memoize by (T, Val):
// pkg/lower renders every Const as an inline literal rather than by
// identity (pkg/lower/value.go's ref()), so two Consts of equal value
// never need to compare equal as pointers.
func NewConst(t *dtype.DType, val *big.Int) (*Const, error) {
	if err := t.CheckRange(val); err != nil {
		return nil, err
	}

	return &Const{T: t, Val: new(big.Int).Set(val)}, nil
}

// MustConst is NewConst but panics on error; convenient for literals in
// frontend DSL code where the width is known statically.
func MustConst(t *dtype.DType, val int64) *Const {
	c, err := NewConst(t, big.NewInt(val))
	if err != nil {
		panic(err)
	}

	return c
}

// DType implementation for the Value interface.
func (c *Const) DType() *dtype.DType { return c.T }

// IsConst implementation for the Value interface.
func (c *Const) IsConst() bool { return true }

// String implementation for fmt.Stringer.
func (c *Const) String() string {
	return fmt.Sprintf("%s(%s)", c.T, c.Val)
}

// AsConst type-asserts v to *Const, returning (nil, false) for an Expr.
func AsConst(v Value) (*Const, bool) {
	c, ok := v.(*Const)
	return c, ok
}
