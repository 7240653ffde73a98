package ast

// Initializer is either an expression or a brace-enclosed initializer list.
type Initializer interface {
	Node
	initializerNode()
}

// ExprInitializer is a scalar/aggregate-by-expression initializer: `= expr`.
type ExprInitializer struct {
	base
	X Expr
}

func (*ExprInitializer) initializerNode() {}

// InitializerList is a brace-enclosed initializer: `{ elem, elem, ... }`.
type InitializerList struct {
	base
	Elems []*InitItem
}

func (*InitializerList) initializerNode() {}

// InitItem is one element of an InitializerList, optionally prefixed by a
// designator chain (`[4].field =`).
type InitItem struct {
	base
	Designators []Designator
	Init        Initializer
}

// Designator selects a field (struct) or element (array) within the
// innermost containing compound.
type Designator interface {
	Node
	designatorNode()
}

type FieldDesignator struct {
	base
	Name string
}

func (*FieldDesignator) designatorNode() {}

type IndexDesignator struct {
	base
	Index Expr
}

func (*IndexDesignator) designatorNode() {}
