package ast

// FuncDef is a function definition: decl-specifiers, a declarator whose
// outermost layer must be a FuncDeclarator, and a body.
type FuncDef struct {
	base
	Specs      DeclSpecs
	Declarator Declarator
	Body       *CompoundStmt
}

func (*FuncDef) externalDeclNode() {}

// Decl is an object or typedef declaration: `specs init-declarator, ...;`.
type Decl struct {
	base
	Specs           DeclSpecs
	InitDeclarators []*InitDeclarator
}

func (*Decl) externalDeclNode() {}

// InitDeclarator pairs a declarator with its optional initializer.
type InitDeclarator struct {
	base
	Declarator Declarator
	Init       Initializer // nil if uninitialized
}
