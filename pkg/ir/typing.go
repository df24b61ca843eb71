package ir

import (
	"github.com/assassyn-lang/assassyn/pkg/diag"
	"github.com/assassyn-lang/assassyn/pkg/dtype"
	"github.com/assassyn-lang/assassyn/pkg/value"
)

func maxWidth(a, b uint) uint {
	if a > b {
		return a
	}

	return b
}

// preferredKind picks the result kind for an arithmetic/bitwise binary op:
// Bits is the "don't know/don't care" kind, so either operand being
// SignedInt/UnsignedInt wins over a Bits operand; two non-Bits operands
// must already agree (mixed-sign arithmetic is the frontend's problem to
// avoid, same as real HDL).
func preferredKind(lhs, rhs *dtype.DType) dtype.Kind {
	if lhs.Kind() != dtype.Bits {
		return lhs.Kind()
	}

	return rhs.Kind()
}

// DeriveBinaryOpType computes the result type of a binary opcode applied to
// lhs and rhs, per §4.1: arithmetic ops take the max width of operands;
// comparisons produce Bits(1); shifts take the width of lhs (signed
// right-shift preserves sign, i.e. keeps lhs's kind).
func DeriveBinaryOpType(op Opcode, lhs, rhs value.Value) (*dtype.DType, error) {
	lt, rt := lhs.DType(), rhs.DType()

	if op.IsComparison() {
		return dtype.BitsT(1), nil
	}

	if op.IsShift() {
		if lt.Kind() == dtype.SignedInt {
			return dtype.SignedIntT(lt.BitWidth()), nil
		}

		return dtype.UnsignedIntT(lt.BitWidth()), nil
	}

	if !lt.IsInteger() && lt.Kind() != dtype.Bits {
		return nil, diag.New(diag.TypeMismatch, "operator %s requires an integer/bits operand, got %s", op, lt)
	}

	if !rt.IsInteger() && rt.Kind() != dtype.Bits {
		return nil, diag.New(diag.TypeMismatch, "operator %s requires an integer/bits operand, got %s", op, rt)
	}

	width := maxWidth(lt.BitWidth(), rt.BitWidth())

	switch preferredKind(lt, rt) {
	case dtype.SignedInt:
		return dtype.SignedIntT(width), nil
	case dtype.UnsignedInt:
		return dtype.UnsignedIntT(width), nil
	default:
		return dtype.BitsT(width), nil
	}
}

// DeriveUnaryOpType computes the result type of a unary opcode; Not/Neg
// both preserve the operand's type.
func DeriveUnaryOpType(op Opcode, arg value.Value) (*dtype.DType, error) {
	t := arg.DType()
	if !t.IsInteger() && t.Kind() != dtype.Bits {
		return nil, diag.New(diag.TypeMismatch, "operator %s requires an integer/bits operand, got %s", op, t)
	}

	return t, nil
}

// DeriveSliceType computes the result type of Arg[lo:hi] (inclusive): a
// Bits(hi-lo+1) value, regardless of Arg's kind.
func DeriveSliceType(arg value.Value, lo, hi uint) (*dtype.DType, error) {
	if hi < lo {
		return nil, diag.New(diag.TypeMismatch, "slice [%d:%d] has hi < lo", lo, hi)
	}

	if hi >= arg.DType().BitWidth() {
		return nil, diag.New(diag.OutOfRange, "slice [%d:%d] exceeds operand width %d", lo, hi, arg.DType().BitWidth())
	}

	return dtype.BitsT(hi - lo + 1), nil
}

// DeriveConcatType computes the result type of {lhs, rhs}: a
// Bits(width(lhs)+width(rhs)) value.
func DeriveConcatType(lhs, rhs value.Value) *dtype.DType {
	return dtype.BitsT(lhs.DType().BitWidth() + rhs.DType().BitWidth())
}

// ValidateCast checks a cast opcode against its target type and source
// value, per §4.1 and Open Question 4: bitcast requires equal total bit
// width (including record<->bits of equal width); zext/sext require the
// target width to be >= the source width.
func ValidateCast(op Opcode, target *dtype.DType, src value.Value) error {
	srcT := src.DType()

	switch op {
	case OpBitcast:
		if target.BitWidth() != srcT.BitWidth() {
			return diag.New(diag.TypeMismatch, "bitcast requires equal bit width: %s (%d) vs %s (%d)",
				target, target.BitWidth(), srcT, srcT.BitWidth())
		}

		return nil
	case OpZExt, OpSExt:
		if target.BitWidth() < srcT.BitWidth() {
			return diag.New(diag.TypeMismatch, "%s target width %d must be >= source width %d",
				op, target.BitWidth(), srcT.BitWidth())
		}

		return nil
	default:
		return diag.New(diag.TypeMismatch, "%s is not a cast opcode", op)
	}
}
