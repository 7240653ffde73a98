package ast

import "github.com/go-cc/irgen/internal/token"

// StorageClass is the storage-class specifier on a declaration, if any.
type StorageClass int

const (
	StorageNone StorageClass = iota
	StorageStatic
	StorageExtern
	StorageTypedef
	StorageAuto
	StorageRegister
)

// DeclSpecs is the decl-specifier portion of a declaration: storage class,
// function specifiers, qualifiers, and the type-specifier sequence that
// feeds the type environment's named_type_specifier lookup.
type DeclSpecs struct {
	P token.Position

	Storage  StorageClass
	Inline   bool
	Const    bool // parsed, erased by the declarator resolver (see SPEC_FULL.md)
	Volatile bool

	// TypeSpec is exactly one of: Keywords (built-in sequence), Struct,
	// Union, Enum, or TypedefRef non-empty.
	Keywords   []string // e.g. ["unsigned", "long"]
	Struct     *StructSpec
	Union      *StructSpec
	Enum       *EnumSpec
	TypedefRef string // reference to a previously-typedef'd name
}

// StructSpec names (or defines) a struct/union type.
type StructSpec struct {
	base
	Tag    string // may be empty (anonymous)
	Fields []*FieldDecl
	// Defined distinguishes `struct S;` (forward reference: Defined=false)
	// from `struct S { ... };` (Defined=true, Fields meaningful even if empty).
	Defined bool
	Packed  bool
}

// FieldDecl is one field of a struct/union.
type FieldDecl struct {
	base
	Specs       DeclSpecs
	Declarators []Declarator
}

// EnumSpec names (or defines) an enum type.
type EnumSpec struct {
	base
	Tag         string
	Enumerators []*Enumerator
	Defined     bool
}

// Enumerator is one `name` or `name = const-expr` entry of an enum.
type Enumerator struct {
	base
	Name  string
	Value Expr // nil if the value is implicit (previous + 1)
}

// Declarator is the declarator tree attached to a decl-specifier list: zero
// or more pointer layers wrapping a direct declarator.
type Declarator interface {
	Node
	declaratorNode()
}

// IdentDeclarator is the base case: a bare name (or, for an abstract
// declarator such as a parameter type or a cast target type, no name).
type IdentDeclarator struct {
	base
	Name string
}

func (*IdentDeclarator) declaratorNode() {}

// PointerDeclarator wraps Inner in one level of pointer-to.
type PointerDeclarator struct {
	base
	Inner Declarator
}

func (*PointerDeclarator) declaratorNode() {}

// ParenDeclarator groups a declarator, e.g. the `(*f)` in `void (*f)(int)`.
type ParenDeclarator struct {
	base
	Inner Declarator
}

func (*ParenDeclarator) declaratorNode() {}

// ArrayDeclarator wraps Inner as an array of Inner. Len is nil for an
// incomplete array (`T a[]`); otherwise it is a constant expression.
type ArrayDeclarator struct {
	base
	Inner Declarator
	Len   Expr
}

func (*ArrayDeclarator) declaratorNode() {}

// FuncDeclarator wraps Inner as a function returning Inner.
type FuncDeclarator struct {
	base
	Inner    Declarator
	Params   []*ParamDecl
	Variadic bool
	// VoidOnly marks a single `(void)` parameter list: arity zero.
	VoidOnly bool
}

func (*FuncDeclarator) declaratorNode() {}

// ParamDecl is one parameter of a function declarator.
type ParamDecl struct {
	base
	Specs      DeclSpecs
	Declarator Declarator // may be an abstract (unnamed) declarator
}

// TypeName is a standalone type (no name ever bound), used by casts,
// sizeof(T), and compound literals.
type TypeName struct {
	base
	Specs      DeclSpecs
	Declarator Declarator // abstract declarator, may be nil
}
