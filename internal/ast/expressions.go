package ast

// Ident is an identifier reference: a variable, function, or enumerator name.
type Ident struct {
	base
	Name string
}

func (*Ident) exprNode() {}

// IntLit is an integer literal in its lexical form: the text, its value,
// an optional suffix (u, l, ll in any case/order), and the base it was
// written in (10, 8, or 16) since the rule for the smallest fitting type
// depends on base.
type IntLit struct {
	base
	Text   string
	Value  uint64
	Suffix string
	Base   int
}

func (*IntLit) exprNode() {}

// StringLit is a string literal; Value holds the decoded byte content,
// excluding the implicit trailing NUL the lowering engine appends.
type StringLit struct {
	base
	Value string
}

func (*StringLit) exprNode() {}

// UnaryOp enumerates prefix unary operators.
type UnaryOp int

const (
	UnaryAddr UnaryOp = iota // &x
	UnaryDeref
	UnaryPlus
	UnaryMinus
	UnaryNot    // !
	UnaryBitNot // ~
	UnaryPreInc // ++x
	UnaryPreDec // --x
)

type UnaryExpr struct {
	base
	Op UnaryOp
	X  Expr
}

func (*UnaryExpr) exprNode() {}

// PostfixOp enumerates postfix unary operators.
type PostfixOp int

const (
	PostfixInc PostfixOp = iota
	PostfixDec
)

type PostfixExpr struct {
	base
	Op PostfixOp
	X  Expr
}

func (*PostfixExpr) exprNode() {}

// BinaryOp enumerates binary arithmetic, bitwise, and comparison operators.
type BinaryOp int

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinAnd
	BinOr
	BinXor
	BinShl
	BinShr
	BinLt
	BinLe
	BinGt
	BinGe
	BinEq
	BinNe
	BinLogAnd // &&
	BinLogOr  // ||
)

type BinaryExpr struct {
	base
	Op   BinaryOp
	X, Y Expr
}

func (*BinaryExpr) exprNode() {}

// CondExpr is `cond ? then : els`.
type CondExpr struct {
	base
	Cond, Then, Else Expr
}

func (*CondExpr) exprNode() {}

// AssignOp enumerates `=` and the compound assignment operators.
type AssignOp int

const (
	AssignPlain AssignOp = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignMod
	AssignAnd
	AssignOr
	AssignXor
	AssignShl
	AssignShr
)

type AssignExpr struct {
	base
	Op        AssignOp
	LHS, RHS  Expr
}

func (*AssignExpr) exprNode() {}

// CallExpr is `callee(args...)`.
type CallExpr struct {
	base
	Callee Expr
	Args   []Expr
}

func (*CallExpr) exprNode() {}

// IndexExpr is `x[index]`.
type IndexExpr struct {
	base
	X, Index Expr
}

func (*IndexExpr) exprNode() {}

// FieldExpr is `x.name` (Arrow=false) or `x->name` (Arrow=true).
type FieldExpr struct {
	base
	X     Expr
	Name  string
	Arrow bool
}

func (*FieldExpr) exprNode() {}

// CastExpr is `(Type)X`.
type CastExpr struct {
	base
	Type *TypeName
	X    Expr
}

func (*CastExpr) exprNode() {}

// SizeofExpr is `sizeof(Type)` (Type non-nil) or `sizeof X` (X non-nil).
type SizeofExpr struct {
	base
	Type *TypeName
	X    Expr
}

func (*SizeofExpr) exprNode() {}

// CompoundLiteral is `(Type){ Init }`.
type CompoundLiteral struct {
	base
	Type *TypeName
	Init *InitializerList
}

func (*CompoundLiteral) exprNode() {}

// CommaExpr is a comma-separated expression list; its value is the last.
type CommaExpr struct {
	base
	Exprs []Expr
}

func (*CommaExpr) exprNode() {}

// VaStartExpr is `__builtin_va_start(ap, lastParam)`.
type VaStartExpr struct {
	base
	Ap        Expr
	LastParam string
}

func (*VaStartExpr) exprNode() {}

// VaEndExpr is `__builtin_va_end(ap)`.
type VaEndExpr struct {
	base
	Ap Expr
}

func (*VaEndExpr) exprNode() {}

// VaArgExpr is `__builtin_va_arg(ap, Type)`.
type VaArgExpr struct {
	base
	Ap   Expr
	Type *TypeName
}

func (*VaArgExpr) exprNode() {}
