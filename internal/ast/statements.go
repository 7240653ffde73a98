package ast

// BlockItem is one element of a compound statement's body: either a
// declaration or a statement.
type BlockItem interface {
	Node
	blockItemNode()
}

func (*Decl) blockItemNode() {}

// stmtItem adapts any Stmt to satisfy BlockItem.
type stmtItem struct {
	Stmt
}

func (stmtItem) blockItemNode() {}

// Every concrete statement embeds base, so this makes each of them a
// BlockItem in its own right.
func (base) blockItemNode() {}

// WrapStmt adapts a Stmt for use as a BlockItem. A statement that is
// already a BlockItem (every statement type in this package) is returned
// as is, so a block item can be type-switched on its concrete statement
// type.
func WrapStmt(s Stmt) BlockItem {
	if bi, ok := s.(BlockItem); ok {
		return bi
	}
	return stmtItem{s}
}

type CompoundStmt struct {
	base
	Items []BlockItem
}

func (*CompoundStmt) stmtNode() {}

// ExprStmt is an expression used as a statement (including the empty
// statement when X is nil).
type ExprStmt struct {
	base
	X Expr // nil for the null statement `;`
}

func (*ExprStmt) stmtNode() {}

// LabeledStmt is `label: stmt`.
type LabeledStmt struct {
	base
	Label string
	Stmt  Stmt
}

func (*LabeledStmt) stmtNode() {}

// GotoStmt is `goto label;`.
type GotoStmt struct {
	base
	Label string
}

func (*GotoStmt) stmtNode() {}

// BreakStmt is `break;`.
type BreakStmt struct{ base }

func (*BreakStmt) stmtNode() {}

// ContinueStmt is `continue;`.
type ContinueStmt struct{ base }

func (*ContinueStmt) stmtNode() {}

// ReturnStmt is `return X;` (X nil for `return;`).
type ReturnStmt struct {
	base
	X Expr
}

func (*ReturnStmt) stmtNode() {}
