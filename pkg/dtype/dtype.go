// Package dtype implements the bit-precise value-type system described by
// the type system component: a hash-consed DType carrying an integer bit
// width and a kind, with factories for the scalar, array and record forms.
package dtype

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/assassyn-lang/assassyn/pkg/diag"
)

// Kind identifies the shape of a DType.
type Kind int

// The kinds a DType may take.
const (
	SignedInt Kind = iota
	UnsignedInt
	Bits
	Float32
	Void
	Array
	Record
)

// String implementation for fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case SignedInt:
		return "SignedInt"
	case UnsignedInt:
		return "UnsignedInt"
	case Bits:
		return "Bits"
	case Float32:
		return "Float32"
	case Void:
		return "Void"
	case Array:
		return "Array"
	case Record:
		return "Record"
	default:
		return "Unknown"
	}
}

// FieldSlot describes one field of a Record type: its element type and its
// bit-slice within the record's flattened layout.
type FieldSlot struct {
	Type   *DType
	Offset uint
	Width  uint
}

// DType is a value-equal-by-structure type descriptor.  Instances are
// hash-consed: two factory calls describing the same (kind, width/
// structure) return the identical pointer, so pointer equality implies
// structural equality for every DType ever produced by this package.
type DType struct {
	kind Kind
	// width is the scalar bit width for SignedInt/UnsignedInt/Bits/Float32,
	// the element-width * size for Array (cached), and the total flattened
	// width for Record.
	width uint
	// elem/size only meaningful when kind == Array.
	elem *DType
	size uint
	// fields/order/readonly only meaningful when kind == Record. order
	// gives a stable iteration sequence independent of Go map order.
	fields   map[string]FieldSlot
	order    []string
	readonly bool
	key      string
}

// intern table. The compiler pipeline is single-threaded (§5), so no
// locking is required here.
var interned = map[string]*DType{}

func intern(key string, build func() *DType) *DType {
	if dt, ok := interned[key]; ok {
		return dt
	}

	dt := build()
	dt.key = key
	interned[key] = dt

	return dt
}

// SignedIntT constructs a signed integer type of the given bit width. Width
// zero is clamped to one, matching UnsignedInt.
func SignedIntT(width uint) *DType {
	if width == 0 {
		width = 1
	}

	key := fmt.Sprintf("si%d", width)

	return intern(key, func() *DType { return &DType{kind: SignedInt, width: width} })
}

// UnsignedIntT constructs an unsigned integer type. Width zero is clamped to
// one.
func UnsignedIntT(width uint) *DType {
	if width == 0 {
		width = 1
	}

	key := fmt.Sprintf("ui%d", width)

	return intern(key, func() *DType { return &DType{kind: UnsignedInt, width: width} })
}

// BitsT constructs an opaque bit-vector type of the given width. Width zero
// is clamped to one.
func BitsT(width uint) *DType {
	if width == 0 {
		width = 1
	}

	key := fmt.Sprintf("b%d", width)

	return intern(key, func() *DType { return &DType{kind: Bits, width: width} })
}

// Float32T constructs the (single) float type.
func Float32T() *DType {
	return intern("f32", func() *DType { return &DType{kind: Float32, width: 32} })
}

// VoidT constructs the void type, used for effectful expressions with no
// result value.
func VoidT() *DType {
	return intern("void", func() *DType { return &DType{kind: Void, width: 0} })
}

// ArrayT constructs an array type of size elements of elem, size >= 1.
func ArrayT(elem *DType, size uint) *DType {
	key := fmt.Sprintf("arr(%s,%d)", elem.key, size)

	return intern(key, func() *DType {
		return &DType{kind: Array, elem: elem, size: size, width: elem.BitWidth() * size}
	})
}

// RecordT constructs a record type from an ordered list of (name, slot)
// pairs. readonly marks a record whose explicit layout contains gaps
// between fields (unused bit positions), which bitcast must respect.
func RecordT(order []string, fields map[string]FieldSlot, readonly bool) *DType {
	var (
		b     strings.Builder
		width uint
	)

	fmt.Fprintf(&b, "rec(%v,%t:", order, readonly)

	for _, name := range order {
		slot := fields[name]

		fmt.Fprintf(&b, "%s=%s@%d+%d,", name, slot.Type.key, slot.Offset, slot.Width)

		if end := slot.Offset + slot.Width; end > width {
			width = end
		}
	}

	b.WriteByte(')')
	key := b.String()

	return intern(key, func() *DType {
		cp := make(map[string]FieldSlot, len(fields))
		for k, v := range fields {
			cp[k] = v
		}

		ordCp := make([]string, len(order))
		copy(ordCp, order)

		return &DType{kind: Record, fields: cp, order: ordCp, readonly: readonly, width: width}
	})
}

// Kind returns this type's kind.
func (d *DType) Kind() Kind { return d.kind }

// BitWidth returns the total flattened bit width of this type.
func (d *DType) BitWidth() uint { return d.width }

// ElemType returns the element type of an Array DType; panics otherwise.
func (d *DType) ElemType() *DType {
	if d.kind != Array {
		panic("dtype: ElemType on non-array type")
	}

	return d.elem
}

// Size returns the element count of an Array DType; panics otherwise.
func (d *DType) Size() uint {
	if d.kind != Array {
		panic("dtype: Size on non-array type")
	}

	return d.size
}

// Fields returns the field names of a Record DType in declaration order;
// panics otherwise.
func (d *DType) Fields() []string {
	if d.kind != Record {
		panic("dtype: Fields on non-record type")
	}

	return d.order
}

// Field returns the slot for a named field of a Record DType; panics if the
// type is not a record or the field does not exist.
func (d *DType) Field(name string) FieldSlot {
	if d.kind != Record {
		panic("dtype: Field on non-record type")
	}

	slot, ok := d.fields[name]
	if !ok {
		panic(fmt.Sprintf("dtype: no such field %q", name))
	}

	return slot
}

// ReadOnly reports whether a Record DType has an explicit, gap-bearing
// layout; panics for non-record types.
func (d *DType) ReadOnly() bool {
	if d.kind != Record {
		panic("dtype: ReadOnly on non-record type")
	}

	return d.readonly
}

// IsInteger reports whether this is a SignedInt or UnsignedInt.
func (d *DType) IsInteger() bool {
	return d.kind == SignedInt || d.kind == UnsignedInt
}

// Equal reports value-equality by (kind, width/structure). Since DType is
// hash-consed, this is equivalent to pointer equality, but is provided as
// the documented API for clarity at call sites.
func (d *DType) Equal(other *DType) bool {
	if d == other {
		return true
	}

	if d == nil || other == nil {
		return false
	}

	return d.key == other.key
}

// String implementation for fmt.Stringer, a debug-oriented rendering (HDL
// emission renders types independently, see pkg/emit).
func (d *DType) String() string {
	switch d.kind {
	case SignedInt:
		return fmt.Sprintf("SignedInt(%d)", d.width)
	case UnsignedInt:
		return fmt.Sprintf("UnsignedInt(%d)", d.width)
	case Bits:
		return fmt.Sprintf("Bits(%d)", d.width)
	case Float32:
		return "Float32"
	case Void:
		return "Void"
	case Array:
		return fmt.Sprintf("Array(%s, %d)", d.elem, d.size)
	case Record:
		return fmt.Sprintf("Record(%v)", d.order)
	default:
		return "?"
	}
}

// Range returns the inclusive [lo, hi] range of integer values this type
// can represent. Panics for Array/Record/Float32/Void.
func (d *DType) Range() (lo, hi *big.Int) {
	switch d.kind {
	case SignedInt:
		hi = new(big.Int).Lsh(big.NewInt(1), d.width-1)
		lo = new(big.Int).Neg(hi)
		hi.Sub(hi, big.NewInt(1))

		return lo, hi
	case UnsignedInt, Bits:
		lo = big.NewInt(0)
		hi = new(big.Int).Lsh(big.NewInt(1), d.width)
		hi.Sub(hi, big.NewInt(1))

		return lo, hi
	default:
		panic("dtype: Range on non-integer type")
	}
}

// CheckRange validates that val fits within this type's representable
// range, returning an OutOfRange error otherwise.
func (d *DType) CheckRange(val *big.Int) error {
	if !d.IsInteger() && d.kind != Bits {
		return diag.New(diag.TypeMismatch, "type %s cannot hold a constant value", d)
	}

	lo, hi := d.Range()
	if val.Cmp(lo) < 0 || val.Cmp(hi) > 0 {
		return diag.New(diag.OutOfRange, "value %s does not fit in %s (range [%s, %s])", val, d, lo, hi)
	}

	return nil
}
