// Package types implements the C type system: the Type Environment of the
// lowering engine. It maintains named bindings for struct/union/enum tags
// and typedef names in four independent namespaces, and builds derived
// types (pointer, array, function, struct/union) with canonicalization
// where the spec requires it.
package types

import (
	"fmt"

	"github.com/go-cc/irgen/internal/ir"
)

// Kind discriminates the CType variants of spec.md section 3.
type Kind int

const (
	KVoid Kind = iota
	KInteger
	KPointer
	KArray
	KFunction
	KStruct
	KUnion
)

// Rank orders integer types for the usual arithmetic conversions
// (spec.md 4.5.1); the ordering matches original_source/src/ir_gen.c's
// rank() exactly: char=1, short=2, int=3, long=4, long long=5.
type Rank int

const (
	RankChar Rank = iota + 1
	RankShort
	RankInt
	RankLong
	RankLongLong
)

func (r Rank) String() string {
	switch r {
	case RankChar:
		return "char"
	case RankShort:
		return "short"
	case RankInt:
		return "int"
	case RankLong:
		return "long"
	case RankLongLong:
		return "long long"
	default:
		return "?"
	}
}

// Field is one member of a struct or union, with its byte offset from the
// start of the aggregate once the aggregate is complete.
type Field struct {
	Name   string
	Type   *CType
	Offset int
}

// CType is a C type. It is always handled through a pointer so that
// completing an incomplete struct/array mutates the one object every
// existing reference observes, and so that two canonical built-ins or two
// pointers to the same pointee compare equal by address (spec.md
// section 4.1's invariant).
type CType struct {
	Kind Kind

	// KInteger
	IntRank Rank
	Signed  bool

	// KPointer, KArray
	Elem *CType

	// KPointer: the pointer canonicalization cache lives on the pointee,
	// matching original_source/src/ir_gen.c's CType.cached_pointer_type
	// field rather than a side table in Env.
	cachedPointer *CType

	// KArray: nil length means incomplete (deferred, e.g. `extern int a[];`
	// or an initializer that has not yet inferred the size).
	Length *int

	// KFunction
	Ret      *CType
	Params   []*CType
	Variadic bool

	// KStruct, KUnion
	Tag      string
	Fields   []Field
	Complete bool
	Packed   bool
	Size     int
	Align    int

	// IR is the mirror IR type used by the builder/initializer compiler.
	// For an incomplete array/struct this is filled in once completed.
	IR ir.Type
}

func (t *CType) String() string {
	switch t.Kind {
	case KVoid:
		return "void"
	case KInteger:
		sign := "signed"
		if !t.Signed {
			sign = "unsigned"
		}
		return sign + " " + t.IntRank.String()
	case KPointer:
		return t.Elem.String() + "*"
	case KArray:
		if t.Length != nil {
			return fmt.Sprintf("%s[%d]", t.Elem.String(), *t.Length)
		}
		return t.Elem.String() + "[]"
	case KFunction:
		return "function"
	case KStruct:
		return "struct " + t.Tag
	case KUnion:
		return "union " + t.Tag
	default:
		return "?"
	}
}

// IsInteger reports whether t is an integer type (enums are represented
// as the canonical signed int, so this covers them too).
func (t *CType) IsInteger() bool { return t.Kind == KInteger }

// IsArithmetic reports whether t participates in the usual arithmetic
// conversions. This engine implements only integer arithmetic types
// (no floating point), so this is currently identical to IsInteger.
func (t *CType) IsArithmetic() bool { return t.IsInteger() }

func (t *CType) IsPointer() bool { return t.Kind == KPointer }
func (t *CType) IsArray() bool   { return t.Kind == KArray }
func (t *CType) IsFunction() bool { return t.Kind == KFunction }
func (t *CType) IsAggregate() bool {
	return t.Kind == KStruct || t.Kind == KUnion || t.Kind == KArray
}
func (t *CType) IsVoid() bool { return t.Kind == KVoid }

// IsScalar reports whether t is a pointer or integer (legal as a
// condition operand, per spec.md 4.6's If/While rules).
func (t *CType) IsScalar() bool { return t.IsPointer() || t.IsInteger() }
