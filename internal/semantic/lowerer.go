package semantic

import (
	"github.com/go-cc/irgen/internal/errors"
	"github.com/go-cc/irgen/internal/ir"
	"github.com/go-cc/irgen/internal/token"
	"github.com/go-cc/irgen/internal/types"
)

// Lowerer is the one mutable driver object threaded through every
// lowering call: the type environment, the IR builder's current
// function/block, the active scope chain, and the per-function control-
// flow bookkeeping (loop targets, switch case tables, goto fixups).
// Modeling it as an explicit struct rather than package-level state is
// the design spec.md section 9 calls for.
type Lowerer struct {
	Types *types.Env
	Mod   *ir.Module
	B     *ir.Builder

	scope *Scope

	source string
	file   string

	loopStack   []loopTargets
	switchStack []*switchState
	breakStack  []*ir.Block

	currentReturnType *types.CType
	currentSretParam  ir.Value

	gotoLabels    map[string]*ir.Block
	definedLabels map[string]bool
	gotoFixups    []gotoFixup

	inlineDeferred map[string]*pendingInline

	stringCounter int
}

type loopTargets struct {
	continueTarget *ir.Block
}

type switchCaseEntry struct {
	value  int64
	target *ir.Block
}

type switchState struct {
	valueType    *types.CType
	cases        []switchCaseEntry
	defaultBlock *ir.Block
}

type gotoFixup struct {
	label string
	pos   token.Position
}

// New creates a Lowerer for one translation unit. source/file are used
// only to annotate error excerpts.
func New(source, file string) *Lowerer {
	mod := ir.NewModule()
	return &Lowerer{
		Types:          types.NewEnv(),
		Mod:            mod,
		B:              ir.NewBuilder(mod),
		scope:          NewScope(nil),
		source:         source,
		file:           file,
		inlineDeferred: map[string]*pendingInline{},
	}
}

func (l *Lowerer) errAt(pos token.Position, kind errors.Kind, format string, args ...any) *errors.LowerError {
	e := errors.New(kind, pos, l.source, format, args...)
	e.Pos.File = l.file
	return e
}

func (l *Lowerer) pushScope() { l.scope = NewScope(l.scope) }
func (l *Lowerer) popScope()  { l.scope = l.scope.parent }

// beginFunctionBody resets the per-function control-flow bookkeeping. The
// Top-Level Driver calls this once before lowering a function's body.
func (l *Lowerer) beginFunctionBody() {
	l.loopStack = nil
	l.switchStack = nil
	l.breakStack = nil
	l.gotoLabels = map[string]*ir.Block{}
	l.definedLabels = map[string]bool{}
	l.gotoFixups = nil
}

// labelBlock returns the block for a goto/label target, creating it
// unappended on first reference. Because the block is shared by pointer, a
// forward goto needs no patch-up once the label is later reached: the
// branch's target already points at the block the label will append into.
func (l *Lowerer) labelBlock(name string) *ir.Block {
	if b, ok := l.gotoLabels[name]; ok {
		return b
	}
	b := l.B.NewBlock("label." + name)
	l.gotoLabels[name] = b
	return b
}

// checkGotoTargets reports an error for any goto whose label was never
// defined in the enclosing function.
func (l *Lowerer) checkGotoTargets() error {
	for _, fx := range l.gotoFixups {
		if !l.definedLabels[fx.label] {
			return l.errAt(fx.pos, errors.MalformedControlFlow, "goto to undefined label %q", fx.label)
		}
	}
	return nil
}

// convert implements spec.md section 4.5.2's type-conversion rules for an
// explicit cast, an assignment RHS, a call argument, or a return value.
func (l *Lowerer) convert(v ir.Value, from, to *types.CType) ir.Value {
	if from == to || sameRepr(from, to) {
		return v
	}
	switch {
	case to.IsVoid():
		return v
	case from.IsInteger() && to.IsInteger():
		fw, tw := from.IR.Bits, to.IR.Bits
		switch {
		case tw < fw:
			return l.B.Trunc(v, to.IR)
		case tw > fw:
			if from.Signed {
				return l.B.Sext(v, to.IR)
			}
			return l.B.Zext(v, to.IR)
		default:
			return l.B.Cast(v, to.IR)
		}
	case from.IsInteger() && to.IsPointer():
		widened := v
		if from.IR.Bits < 64 {
			if from.Signed {
				widened = l.B.Sext(v, ir.I64)
			} else {
				widened = l.B.Zext(v, ir.I64)
			}
		}
		return l.B.Cast(widened, to.IR)
	case from.IsPointer() && to.IsInteger():
		return l.B.Cast(v, to.IR)
	case from.IsPointer() && to.IsPointer():
		return v
	case from.IsArray() && to.IsPointer():
		return v
	case from.IsFunction() && to.IsPointer():
		return v
	default:
		return l.B.Cast(v, to.IR)
	}
}

// runtimeCallee finds or declares an external function global for a
// helper this engine does not define itself -- memcpy, memset, and the
// va_arg helper are "intrinsics consumed from the runtime" (spec.md
// section 6), called through the ordinary OpCall the same way any other
// external function is, rather than built as dedicated opcodes.
func (l *Lowerer) runtimeCallee(name string, ret ir.Type, params []ir.Type) ir.Value {
	g := l.Mod.Lookup(name)
	if g == nil {
		irParams := make([]*ir.Param, len(params))
		for i, pty := range params {
			irParams[i] = &ir.Param{Ty: pty, Idx: i}
		}
		g = &ir.Global{Name: name, Linkage: ir.LinkageExternal, Func: &ir.Function{
			Name: name, Params: irParams, Ret: ret, Linkage: ir.LinkageExternal, Declared: true,
		}}
		l.Mod.AddGlobal(g)
	}
	return &ir.ConstGlobalAddr{Ty: ir.Function(ret, params, false), Global: g}
}

// emitMemcpy copies ct's declared size from src to dest via the runtime
// memcpy intrinsic (spec.md 4.4/4.5: aggregate assignment, return, and
// initializer-from-expression all lower to this instead of a whole-value
// load/store).
func (l *Lowerer) emitMemcpy(dest, src ir.Value, ct *types.CType) {
	callee := l.runtimeCallee("memcpy", ir.Pointer(ir.I8), []ir.Type{ir.Pointer(ir.I8), ir.Pointer(ir.I8), ir.I64})
	size := &ir.ConstInt{Ty: ir.I64, Val: int64(ct.IR.SizeOf())}
	l.B.Call(callee, ir.Pointer(ir.I8), []ir.Value{dest, src, size})
}

// emitMemset zero-fills ct's declared size at dest via the runtime memset
// intrinsic (spec.md 4.4: a runtime aggregate initializer that does not
// cover every leaf zeroes the whole object once before the per-leaf
// stores).
func (l *Lowerer) emitMemset(dest ir.Value, ct *types.CType) {
	callee := l.runtimeCallee("memset", ir.Pointer(ir.I8), []ir.Type{ir.Pointer(ir.I8), ir.I32, ir.I64})
	size := &ir.ConstInt{Ty: ir.I64, Val: int64(ct.IR.SizeOf())}
	l.B.Call(callee, ir.Pointer(ir.I8), []ir.Value{dest, &ir.ConstInt{Ty: ir.I32, Val: 0}, size})
}

// sameRepr reports whether from and to share an IR representation well
// enough that no conversion instruction is needed (e.g. two distinct
// struct tags are never sameRepr, but a type and itself always is).
func sameRepr(from, to *types.CType) bool {
	if from == to {
		return true
	}
	if from.IsInteger() && to.IsInteger() {
		return from.IntRank == to.IntRank && from.Signed == to.Signed
	}
	return false
}

// commonArithOperands applies the usual arithmetic conversions (spec.md
// 4.5.1) to x and y, which must both currently be in the builder's
// current block, emitting any widening instruction needed and returning
// both operands already converted to the common type.
func (l *Lowerer) commonArithOperands(x Term, y Term) (xv, yv ir.Value, common *types.CType) {
	common = l.Types.CommonArithType(x.Type, y.Type)
	xv = l.convert(x.Value, x.Type, common)
	yv = l.convert(y.Value, y.Type, common)
	return xv, yv, common
}
