package types

import (
	"strings"

	"github.com/go-cc/irgen/internal/ir"
)

// Env is the Type Environment: four independent namespaces (struct tags,
// union tags, enum tags, typedef names) plus the canonical built-in
// singletons. Two built-ins, or two pointers to the same pointee
// constructed through the same Env, always compare equal by address.
type Env struct {
	structTags map[string]*CType
	unionTags  map[string]*CType
	enumTags   map[string]*CType
	typedefs   map[string]*CType

	Void *CType

	Char   *CType
	SChar  *CType
	UChar  *CType
	Short  *CType
	UShort *CType
	Int    *CType
	UInt   *CType
	Long   *CType
	ULong  *CType
	LLong  *CType
	ULLong *CType

	// IntPtr is the designated pointer-sized integer type (long long,
	// 64-bit, signed).
	IntPtr *CType
	// SizeT is the designated "size" type used by sizeof (unsigned,
	// pointer-width).
	SizeT *CType
}

func NewEnv() *Env {
	e := &Env{
		structTags: map[string]*CType{},
		unionTags:  map[string]*CType{},
		enumTags:   map[string]*CType{},
		typedefs:   map[string]*CType{},
	}
	e.Void = &CType{Kind: KVoid, IR: ir.Void}
	mk := func(rank Rank, signed bool, bits int) *CType {
		return &CType{Kind: KInteger, IntRank: rank, Signed: signed, IR: ir.Type{Kind: ir.TInt, Bits: bits}}
	}
	e.Char = mk(RankChar, true, 8)
	e.SChar = mk(RankChar, true, 8)
	e.UChar = mk(RankChar, false, 8)
	e.Short = mk(RankShort, true, 16)
	e.UShort = mk(RankShort, false, 16)
	e.Int = mk(RankInt, true, 32)
	e.UInt = mk(RankInt, false, 32)
	e.Long = mk(RankLong, true, 64)
	e.ULong = mk(RankLong, false, 64)
	e.LLong = mk(RankLongLong, true, 64)
	e.ULLong = mk(RankLongLong, false, 64)
	e.IntPtr = e.LLong
	e.SizeT = e.ULLong
	return e
}

// Pointer returns the canonical pointer-to-elem, constructing and caching
// it on elem the first time it is requested (spec.md section 4.1's
// canonicalization invariant).
func (e *Env) Pointer(elem *CType) *CType {
	if elem.cachedPointer != nil {
		return elem.cachedPointer
	}
	p := &CType{Kind: KPointer, Elem: elem, IR: ir.Pointer(elem.IR)}
	elem.cachedPointer = p
	return p
}

// ArrayOf always constructs a fresh array type (arrays are never
// canonicalized). If elem is itself an array, the mirror IR type is
// flattened: the IR element becomes the innermost non-array element and
// the IR length becomes the product of all dimension lengths, matching
// how a fixed-size multi-dimensional C array is one contiguous object.
func (e *Env) ArrayOf(elem *CType, length *int) *CType {
	t := &CType{Kind: KArray, Elem: elem, Length: length}
	if length == nil {
		return t
	}
	irElem, mult := elem.IR, 1
	for irElem.Kind == ir.TArray {
		mult *= irElem.Length
		irElem = *irElem.Elem
	}
	t.IR = ir.Array(irElem, *length*mult)
	return t
}

// SetArrayLength completes a previously-incomplete array in place (array
// size inference from an initializer's length), so existing references
// to t observe the completion.
func (e *Env) SetArrayLength(t *CType, length int) {
	t.Length = &length
	irElem, mult := t.Elem.IR, 1
	for irElem.Kind == ir.TArray {
		mult *= irElem.Length
		irElem = *irElem.Elem
	}
	t.IR = ir.Array(irElem, length*mult)
}

// FuncType always constructs a fresh function type. The mirror IR type is
// built eagerly so a function-pointer's Pointer(elem.IR) sees a proper
// TFunction pointee rather than a zero Type.
func (e *Env) FuncType(ret *CType, params []*CType, variadic bool) *CType {
	irParams := make([]ir.Type, len(params))
	for i, p := range params {
		irParams[i] = p.IR
	}
	return &CType{Kind: KFunction, Ret: ret, Params: params, Variadic: variadic, IR: ir.Function(ret.IR, irParams, variadic)}
}

// Decay converts an array type to pointer-to-element, and a function type
// to pointer-to-function; anything else is returned unchanged (spec.md
// 4.1 and 4.5.2).
func (e *Env) Decay(t *CType) *CType {
	switch t.Kind {
	case KArray:
		return e.Pointer(t.Elem)
	case KFunction:
		return e.Pointer(t)
	default:
		return t
	}
}

// NamedTypeSpecifier maps a sequence of base-type keywords (order-
// independent, as C allows `long unsigned int` etc.) to a built-in CType.
// The second return is false if the sequence is not a recognized
// built-in combination.
func (e *Env) NamedTypeSpecifier(keywords []string) (*CType, bool) {
	counts := map[string]int{}
	for _, k := range keywords {
		counts[strings.ToLower(k)]++
	}
	has := func(k string) bool { return counts[k] > 0 }
	longCount := counts["long"]
	unsigned := has("unsigned")
	signedKw := has("signed")

	switch {
	case has("void"):
		return e.Void, true
	case has("char") && !unsigned && !signedKw:
		return e.Char, true
	case has("char") && signedKw:
		return e.SChar, true
	case has("char") && unsigned:
		return e.UChar, true
	case has("short"):
		if unsigned {
			return e.UShort, true
		}
		return e.Short, true
	case longCount >= 2:
		if unsigned {
			return e.ULLong, true
		}
		return e.LLong, true
	case has("long"):
		if unsigned {
			return e.ULong, true
		}
		return e.Long, true
	case has("int"), signedKw, unsigned:
		if unsigned {
			return e.UInt, true
		}
		return e.Int, true
	default:
		return nil, false
	}
}

// --- typedef namespace ---

func (e *Env) DefineTypedef(name string, t *CType) { e.typedefs[name] = t }

func (e *Env) LookupTypedef(name string) (*CType, bool) {
	t, ok := e.typedefs[name]
	return t, ok
}

// --- struct/union tag namespaces ---

// LookupOrForwardDeclareStruct returns the CType bound to tag, creating an
// incomplete forward declaration if tag has not been seen (`struct S;` or
// a first use of `struct S *`).
func (e *Env) LookupOrForwardDeclareStruct(tag string) *CType {
	return lookupOrForward(e.structTags, tag, KStruct)
}

func (e *Env) LookupOrForwardDeclareUnion(tag string) *CType {
	return lookupOrForward(e.unionTags, tag, KUnion)
}

func lookupOrForward(table map[string]*CType, tag string, kind Kind) *CType {
	if tag == "" {
		return &CType{Kind: kind}
	}
	if t, ok := table[tag]; ok {
		return t
	}
	t := &CType{Kind: kind, Tag: tag}
	table[tag] = t
	return t
}

func (e *Env) LookupEnumTag(tag string) (*CType, bool) {
	t, ok := e.enumTags[tag]
	return t, ok
}
