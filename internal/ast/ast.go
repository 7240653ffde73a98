// Package ast defines the Abstract Syntax Tree node types for a single C
// translation unit. Tokenizing and parsing that produce this tree are
// collaborators outside this module's scope; this package only fixes the
// shape the lowering engine consumes.
package ast

import "github.com/go-cc/irgen/internal/token"

// Node is the base interface implemented by every AST node.
type Node interface {
	Pos() token.Position
}

// Expr is any node that denotes a value.
type Expr interface {
	Node
	exprNode()
}

// Stmt is any node that performs an action.
type Stmt interface {
	Node
	stmtNode()
}

// ExternalDecl is either a FuncDef or a Decl at translation-unit scope.
type ExternalDecl interface {
	Node
	externalDeclNode()
}

// TranslationUnit is the root of the AST: an ordered list of external
// declarations.
type TranslationUnit struct {
	Decls []ExternalDecl
}

func (u *TranslationUnit) Pos() token.Position {
	if len(u.Decls) > 0 {
		return u.Decls[0].Pos()
	}
	return token.Position{}
}

// base embeds a position in every concrete node so each node type only has
// to set it once in its constructor/literal.
type base struct {
	P token.Position
}

func (b base) Pos() token.Position { return b.P }
