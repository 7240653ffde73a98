package semantic

import (
	"github.com/go-cc/irgen/internal/ast"
	"github.com/go-cc/irgen/internal/errors"
	"github.com/go-cc/irgen/internal/ir"
	"github.com/go-cc/irgen/internal/types"
)

// EvalConst reduces a restricted subset of expressions to an IR constant
// without emitting any instruction: integer literals, enumerator
// references, sizeof, address-of a global, and arithmetic/logical/
// conditional combinations of the above. It is used for array bounds,
// enum initializers, case labels, static-initializer leaves, and
// designators.
func (l *Lowerer) EvalConst(expr ast.Expr) (ir.Value, *types.CType, error) {
	blocks, instrs := l.builderFingerprint()
	v, t, err := l.evalConst(expr)
	if err == nil {
		l.assertBuilderUnchanged(blocks, instrs, expr.Pos())
	}
	return v, t, err
}

// EvalConstInt is a convenience wrapper for contexts that require a plain
// integer result (array lengths, case labels): it additionally demands
// the constant be a ConstInt.
func (l *Lowerer) EvalConstInt(expr ast.Expr) (int64, *types.CType, error) {
	v, t, err := l.EvalConst(expr)
	if err != nil {
		return 0, nil, err
	}
	ci, ok := v.(*ir.ConstInt)
	if !ok {
		return 0, nil, l.errAt(expr.Pos(), errors.BadConstantExpression, "expected an integer constant expression")
	}
	return ci.Val, t, nil
}

func (l *Lowerer) builderFingerprint() (blocks, instrs int) {
	fn := l.B.Func()
	if fn == nil {
		return 0, 0
	}
	blocks = len(fn.Blocks)
	if blk := l.B.Block(); blk != nil {
		instrs = len(blk.Instrs)
	}
	return blocks, instrs
}

// assertBuilderUnchanged is the invariant spec.md section 4.2 requires:
// evaluating a constant expression must never grow the function's block
// count or the current block's instruction count. A violation is a
// compiler bug (e.g. a case that should have been rejected as
// non-constant instead fell through to expression lowering), not a
// user-visible error, so it panics rather than returning an error.
func (l *Lowerer) assertBuilderUnchanged(blocks, instrs int, pos interface{ String() string }) {
	fn := l.B.Func()
	if fn == nil {
		return
	}
	if len(fn.Blocks) != blocks {
		panic("constant evaluator mutated block count at " + pos.String())
	}
	if blk := l.B.Block(); blk != nil && len(blk.Instrs) != instrs {
		panic("constant evaluator emitted an instruction at " + pos.String())
	}
}

func (l *Lowerer) evalConst(expr ast.Expr) (ir.Value, *types.CType, error) {
	switch e := expr.(type) {
	case *ast.IntLit:
		t := l.intLiteralType(e)
		return &ir.ConstInt{Ty: t.IR, Val: int64(e.Value)}, t, nil

	case *ast.Ident:
		b, ok := l.scope.Lookup(e.Name)
		if !ok {
			return nil, nil, l.errAt(e.Pos(), errors.UnknownIdentifier, "undeclared identifier %q", e.Name)
		}
		if !b.Constant {
			return nil, nil, l.errAt(e.Pos(), errors.BadConstantExpression, "%q is not a constant expression", e.Name)
		}
		return b.Term.Value, b.Term.Type, nil

	case *ast.UnaryExpr:
		return l.evalConstUnary(e)

	case *ast.BinaryExpr:
		return l.evalConstBinary(e)

	case *ast.CondExpr:
		cv, _, err := l.EvalConstInt(e.Cond)
		if err != nil {
			return nil, nil, err
		}
		if cv != 0 {
			return l.evalConst(e.Then)
		}
		return l.evalConst(e.Else)

	case *ast.SizeofExpr:
		return l.evalConstSizeof(e)

	default:
		return nil, nil, l.errAt(expr.Pos(), errors.BadConstantExpression, "not a constant expression")
	}
}

func (l *Lowerer) evalConstUnary(e *ast.UnaryExpr) (ir.Value, *types.CType, error) {
	if e.Op == ast.UnaryAddr {
		if id, ok := e.X.(*ast.Ident); ok {
			if b, ok := l.scope.Lookup(id.Name); ok {
				if g, ok := b.Term.Value.(*ir.ConstGlobalAddr); ok {
					return g, b.Term.Type, nil
				}
			}
		}
		return nil, nil, l.errAt(e.Pos(), errors.BadConstantExpression, "address-of is only constant for a global")
	}

	v, t, err := l.evalConst(e.X)
	if err != nil {
		return nil, nil, err
	}
	ci, ok := v.(*ir.ConstInt)
	if !ok {
		return nil, nil, l.errAt(e.Pos(), errors.BadConstantExpression, "operand is not an integer constant")
	}
	switch e.Op {
	case ast.UnaryPlus:
		return ci, t, nil
	case ast.UnaryMinus:
		return &ir.ConstInt{Ty: ci.Ty, Val: -ci.Val}, t, nil
	case ast.UnaryBitNot:
		return &ir.ConstInt{Ty: ci.Ty, Val: ^ci.Val}, t, nil
	case ast.UnaryNot:
		r := int64(0)
		if ci.Val == 0 {
			r = 1
		}
		return &ir.ConstInt{Ty: l.Types.Int.IR, Val: r}, l.Types.Int, nil
	default:
		return nil, nil, l.errAt(e.Pos(), errors.BadConstantExpression, "operator not valid in a constant expression")
	}
}

func (l *Lowerer) evalConstBinary(e *ast.BinaryExpr) (ir.Value, *types.CType, error) {
	xv, xt, err := l.evalConst(e.X)
	if err != nil {
		return nil, nil, err
	}
	yv, yt, err := l.evalConst(e.Y)
	if err != nil {
		return nil, nil, err
	}
	xi, ok1 := xv.(*ir.ConstInt)
	yi, ok2 := yv.(*ir.ConstInt)
	if !ok1 || !ok2 {
		return nil, nil, l.errAt(e.Pos(), errors.BadConstantExpression, "operands must be integer constants")
	}
	common := l.Types.CommonArithType(xt, yt)
	x, y := xi.Val, yi.Val
	var res int64
	switch e.Op {
	case ast.BinAdd:
		res = x + y
	case ast.BinSub:
		res = x - y
	case ast.BinMul:
		res = x * y
	case ast.BinDiv:
		if y == 0 {
			return nil, nil, l.errAt(e.Pos(), errors.BadConstantExpression, "division by zero")
		}
		res = x / y
	case ast.BinMod:
		if y == 0 {
			return nil, nil, l.errAt(e.Pos(), errors.BadConstantExpression, "division by zero")
		}
		res = x % y
	case ast.BinAnd:
		res = x & y
	case ast.BinOr:
		res = x | y
	case ast.BinXor:
		res = x ^ y
	case ast.BinShl:
		res = x << uint64(y)
	case ast.BinShr:
		res = x >> uint64(y)
	case ast.BinLt:
		return boolConst(l, x < y), l.Types.Int, nil
	case ast.BinLe:
		return boolConst(l, x <= y), l.Types.Int, nil
	case ast.BinGt:
		return boolConst(l, x > y), l.Types.Int, nil
	case ast.BinGe:
		return boolConst(l, x >= y), l.Types.Int, nil
	case ast.BinEq:
		return boolConst(l, x == y), l.Types.Int, nil
	case ast.BinNe:
		return boolConst(l, x != y), l.Types.Int, nil
	case ast.BinLogAnd:
		return boolConst(l, x != 0 && y != 0), l.Types.Int, nil
	case ast.BinLogOr:
		return boolConst(l, x != 0 || y != 0), l.Types.Int, nil
	default:
		return nil, nil, l.errAt(e.Pos(), errors.BadConstantExpression, "operator not valid in a constant expression")
	}
	return &ir.ConstInt{Ty: common.IR, Val: res}, common, nil
}

func boolConst(l *Lowerer, v bool) *ir.ConstInt {
	if v {
		return &ir.ConstInt{Ty: l.Types.Int.IR, Val: 1}
	}
	return &ir.ConstInt{Ty: l.Types.Int.IR, Val: 0}
}

// evalConstSizeof handles both sizeof(T) (no lowering needed) and
// sizeof expr (spec.md 4.2: the expression is lowered for its type only,
// against a scratch function discarded afterward).
func (l *Lowerer) evalConstSizeof(e *ast.SizeofExpr) (ir.Value, *types.CType, error) {
	var ct *types.CType
	if e.Type != nil {
		t, err := l.ResolveTypeName(e.Type)
		if err != nil {
			return nil, nil, err
		}
		ct = t
	} else {
		t, err := l.typeOfExprScratch(e.X)
		if err != nil {
			return nil, nil, err
		}
		ct = t
	}
	return &ir.ConstInt{Ty: l.Types.SizeT.IR, Val: int64(ct.IR.SizeOf())}, l.Types.SizeT, nil
}

// typeOfExprScratch lowers expr for its type only, against a disposable
// scratch IR function, then discards the function entirely -- only the
// type is read off (spec.md section 4.2 and 4.5's sizeof(expr) rule).
func (l *Lowerer) typeOfExprScratch(expr ast.Expr) (*types.CType, error) {
	scratch := &ir.Function{Name: "$sizeof_scratch", Ret: ir.Void}
	var term Term
	var err error
	l.B.RunInScratch(scratch, func() {
		term, err = l.lowerExpr(expr, RValue)
	})
	if err != nil {
		return nil, err
	}
	return term.Type, nil
}
