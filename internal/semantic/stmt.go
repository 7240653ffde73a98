package semantic

import (
	"strconv"

	"github.com/go-cc/irgen/internal/ast"
	"github.com/go-cc/irgen/internal/errors"
	"github.com/go-cc/irgen/internal/ir"
	"github.com/go-cc/irgen/internal/types"
)

// lowerCompoundBody lowers a function body: push a scope and lower every
// block item. If the body falls off the end without reaching a return
// (reachable only when the source omits one, itself undefined behavior
// for a non-void function), a void return is appended as an
// unreachability guard, not as a language-level implicit return value.
func (l *Lowerer) lowerCompoundBody(body *ast.CompoundStmt, retType *types.CType, sretParam ir.Value) error {
	l.currentReturnType = retType
	l.currentSretParam = sretParam
	if err := l.lowerCompound(body); err != nil {
		return err
	}
	if !l.B.Terminated() {
		l.B.RetVoid()
	}
	return nil
}

// lowerCompound lowers the items of a compound statement in its own
// scope, without touching the caller's current block on entry or exit
// beyond whatever lowerStmt/lowerLocalDecl do.
func (l *Lowerer) lowerCompound(cs *ast.CompoundStmt) error {
	l.pushScope()
	defer l.popScope()

	for _, item := range cs.Items {
		switch it := item.(type) {
		case *ast.Decl:
			if err := l.lowerLocalDecl(it); err != nil {
				return err
			}
		case ast.Stmt:
			if err := l.lowerStmt(it); err != nil {
				return err
			}
		default:
			return l.errAt(item.Pos(), errors.UnsupportedConstruct, "unsupported block item")
		}
	}
	return nil
}

// lowerLocalDecl binds a block-scope declaration: a typedef, an extern or
// static object, a nested function prototype, or an ordinary local with
// automatic storage.
func (l *Lowerer) lowerLocalDecl(d *ast.Decl) error {
	if d.Specs.Storage == ast.StorageTypedef {
		for _, id := range d.InitDeclarators {
			name, ct, err := l.Resolve(d.Specs, id.Declarator)
			if err != nil {
				return err
			}
			l.Types.DefineTypedef(name, ct)
		}
		return nil
	}

	for _, id := range d.InitDeclarators {
		name, ct, err := l.Resolve(d.Specs, id.Declarator)
		if err != nil {
			return err
		}

		if ct.IsFunction() {
			l.bindFunctionDecl(name, ct)
			continue
		}

		switch d.Specs.Storage {
		case ast.StorageExtern:
			l.bindExternLocal(name, ct)
			continue
		case ast.StorageStatic:
			if err := l.defineLocalStatic(name, ct, id.Init); err != nil {
				return err
			}
			continue
		}

		addr := l.B.Local(ct.IR)
		l.scope.Define(&Binding{Name: name, Term: Term{Type: ct, Value: addr}})
		if id.Init != nil {
			if err := l.initializeLocal(addr, ct, id.Init); err != nil {
				return err
			}
		}
	}
	return nil
}

// bindFunctionDecl registers (or reuses) a module-level declared function
// for a nested prototype and binds its name in the current scope.
func (l *Lowerer) bindFunctionDecl(name string, ct *types.CType) {
	g := l.Mod.Lookup(name)
	if g == nil {
		g = &ir.Global{Name: name, Func: &ir.Function{Name: name, Declared: true}}
		l.Mod.AddGlobal(g)
	}
	l.scope.Define(&Binding{Name: name, Term: Term{Type: ct, Value: &ir.ConstGlobalAddr{Ty: ct.IR, Global: g}}})
}

// bindExternLocal binds name to an existing or forward-declared module
// global of type ct, without allocating local storage.
func (l *Lowerer) bindExternLocal(name string, ct *types.CType) {
	g := l.Mod.Lookup(name)
	if g == nil {
		g = &ir.Global{Name: name, Linkage: ir.LinkageExternal, VarType: ct.IR}
		l.Mod.AddGlobal(g)
	}
	l.scope.Define(&Binding{Name: name, Term: Term{Type: ct, Value: &ir.ConstGlobalAddr{Ty: l.Types.Pointer(ct).IR, Global: g}}})
}

// defineLocalStatic gives a block-scope `static` object file-scope
// storage under a name mangled with the enclosing function, so repeated
// calls see the same object, and binds the local name to its address.
func (l *Lowerer) defineLocalStatic(name string, ct *types.CType, init ast.Initializer) error {
	mangled := l.uniqueGlobalName(l.B.Func().Name + "." + name)
	var initVal ir.Value
	if init != nil {
		v, err := l.staticInitValue(ct, init)
		if err != nil {
			return err
		}
		initVal = v
	} else {
		initVal = &ir.ConstZero{Ty: ct.IR}
	}
	g := &ir.Global{Name: mangled, Linkage: ir.LinkageInternal, VarType: ct.IR, Init: initVal}
	l.Mod.AddGlobal(g)
	l.scope.Define(&Binding{Name: name, Term: Term{Type: ct, Value: &ir.ConstGlobalAddr{Ty: l.Types.Pointer(ct).IR, Global: g}}})
	return nil
}

func (l *Lowerer) uniqueGlobalName(base string) string {
	if l.Mod.Lookup(base) == nil {
		return base
	}
	for i := 0; ; i++ {
		cand := base + "." + strconv.Itoa(i)
		if l.Mod.Lookup(cand) == nil {
			return cand
		}
	}
}

// lowerStmt lowers a single statement, appending instructions into the
// builder's current block and advancing it across any control flow the
// statement introduces.
func (l *Lowerer) lowerStmt(s ast.Stmt) error {
	switch st := s.(type) {
	case *ast.CompoundStmt:
		return l.lowerCompound(st)

	case *ast.ExprStmt:
		if st.X == nil {
			return nil
		}
		_, err := l.lowerExpr(st.X, RValue)
		return err

	case *ast.IfStmt:
		return l.lowerIf(st)

	case *ast.WhileStmt:
		return l.lowerWhile(st)

	case *ast.DoWhileStmt:
		return l.lowerDoWhile(st)

	case *ast.ForStmt:
		return l.lowerFor(st)

	case *ast.SwitchStmt:
		return l.lowerSwitch(st)

	case *ast.CaseStmt:
		return l.lowerCase(st)

	case *ast.DefaultStmt:
		return l.lowerDefault(st)

	case *ast.LabeledStmt:
		return l.lowerLabeled(st)

	case *ast.GotoStmt:
		return l.lowerGoto(st)

	case *ast.BreakStmt:
		return l.lowerBreak(st)

	case *ast.ContinueStmt:
		return l.lowerContinue(st)

	case *ast.ReturnStmt:
		return l.lowerReturn(st)

	default:
		return l.errAt(s.Pos(), errors.UnsupportedConstruct, "unsupported statement form")
	}
}

func (l *Lowerer) lowerIf(st *ast.IfStmt) error {
	cond, err := l.lowerExpr(st.Cond, RValue)
	if err != nil {
		return err
	}
	condV := l.toBool(cond)

	thenBlk := l.B.NewBlock("if.then")
	endBlk := l.B.NewBlock("if.end")
	elseBlk := endBlk
	if st.Else != nil {
		elseBlk = l.B.NewBlock("if.else")
	}
	l.B.CondBr(condV, thenBlk, elseBlk)

	l.B.Append(thenBlk)
	if err := l.lowerStmt(st.Then); err != nil {
		return err
	}
	if !l.B.Terminated() {
		l.B.Br(endBlk)
	}

	if st.Else != nil {
		l.B.Append(elseBlk)
		if err := l.lowerStmt(st.Else); err != nil {
			return err
		}
		if !l.B.Terminated() {
			l.B.Br(endBlk)
		}
	}

	l.B.Append(endBlk)
	return nil
}

func (l *Lowerer) lowerWhile(st *ast.WhileStmt) error {
	condBlk := l.B.NewBlock("while.cond")
	bodyBlk := l.B.NewBlock("while.body")
	endBlk := l.B.NewBlock("while.end")

	l.B.Br(condBlk)
	l.B.Append(condBlk)
	cond, err := l.lowerExpr(st.Cond, RValue)
	if err != nil {
		return err
	}
	l.B.CondBr(l.toBool(cond), bodyBlk, endBlk)

	l.B.Append(bodyBlk)
	l.loopStack = append(l.loopStack, loopTargets{continueTarget: condBlk})
	l.breakStack = append(l.breakStack, endBlk)
	err = l.lowerStmt(st.Body)
	l.loopStack = l.loopStack[:len(l.loopStack)-1]
	l.breakStack = l.breakStack[:len(l.breakStack)-1]
	if err != nil {
		return err
	}
	if !l.B.Terminated() {
		l.B.Br(condBlk)
	}

	l.B.Append(endBlk)
	return nil
}

func (l *Lowerer) lowerDoWhile(st *ast.DoWhileStmt) error {
	bodyBlk := l.B.NewBlock("do.body")
	condBlk := l.B.NewBlock("do.cond")
	endBlk := l.B.NewBlock("do.end")

	l.B.Br(bodyBlk)
	l.B.Append(bodyBlk)
	l.loopStack = append(l.loopStack, loopTargets{continueTarget: condBlk})
	l.breakStack = append(l.breakStack, endBlk)
	err := l.lowerStmt(st.Body)
	l.loopStack = l.loopStack[:len(l.loopStack)-1]
	l.breakStack = l.breakStack[:len(l.breakStack)-1]
	if err != nil {
		return err
	}
	if !l.B.Terminated() {
		l.B.Br(condBlk)
	}

	l.B.Append(condBlk)
	cond, err := l.lowerExpr(st.Cond, RValue)
	if err != nil {
		return err
	}
	l.B.CondBr(l.toBool(cond), bodyBlk, endBlk)

	l.B.Append(endBlk)
	return nil
}

func (l *Lowerer) lowerFor(st *ast.ForStmt) error {
	l.pushScope()
	defer l.popScope()

	if st.Init != nil {
		switch init := st.Init.(type) {
		case *ast.Decl:
			if err := l.lowerLocalDecl(init); err != nil {
				return err
			}
		case ast.Stmt:
			if err := l.lowerStmt(init); err != nil {
				return err
			}
		default:
			return l.errAt(st.Init.Pos(), errors.UnsupportedConstruct, "unsupported for-init clause")
		}
	}

	condBlk := l.B.NewBlock("for.cond")
	bodyBlk := l.B.NewBlock("for.body")
	postBlk := l.B.NewBlock("for.post")
	endBlk := l.B.NewBlock("for.end")

	l.B.Br(condBlk)
	l.B.Append(condBlk)
	if st.Cond != nil {
		cond, err := l.lowerExpr(st.Cond, RValue)
		if err != nil {
			return err
		}
		l.B.CondBr(l.toBool(cond), bodyBlk, endBlk)
	} else {
		l.B.Br(bodyBlk)
	}

	l.B.Append(bodyBlk)
	l.loopStack = append(l.loopStack, loopTargets{continueTarget: postBlk})
	l.breakStack = append(l.breakStack, endBlk)
	err := l.lowerStmt(st.Body)
	l.loopStack = l.loopStack[:len(l.loopStack)-1]
	l.breakStack = l.breakStack[:len(l.breakStack)-1]
	if err != nil {
		return err
	}
	if !l.B.Terminated() {
		l.B.Br(postBlk)
	}

	l.B.Append(postBlk)
	if st.Post != nil {
		if _, err := l.lowerExpr(st.Post, RValue); err != nil {
			return err
		}
	}
	if !l.B.Terminated() {
		l.B.Br(condBlk)
	}

	l.B.Append(endBlk)
	return nil
}

// lowerSwitch lowers a switch in two passes: the body is lowered once,
// straight through, collecting case/default targets as CaseStmt/
// DefaultStmt are reached (so fallthrough between cases is simply falling
// off the end of one case's block into the next, same as the source
// order); the dispatch comparisons against the controlling value are then
// emitted starting in the switch's own entry block, with the follow-on
// compare blocks laid out between that block and the body, branching into
// the blocks the body pass already created.
func (l *Lowerer) lowerSwitch(st *ast.SwitchStmt) error {
	x, err := l.lowerExpr(st.X, RValue)
	if err != nil {
		return err
	}
	x = l.promoteArith(x)

	dispatchBlk := l.B.Block()
	bodyBlk := l.B.NewBlock("switch.body")
	endBlk := l.B.NewBlock("switch.end")

	state := &switchState{valueType: x.Type}
	l.switchStack = append(l.switchStack, state)
	l.breakStack = append(l.breakStack, endBlk)

	l.B.Append(bodyBlk)
	err = l.lowerStmt(st.Body)
	l.switchStack = l.switchStack[:len(l.switchStack)-1]
	l.breakStack = l.breakStack[:len(l.breakStack)-1]
	if err != nil {
		return err
	}
	if !l.B.Terminated() {
		l.B.Br(endBlk)
	}

	l.B.SetBlock(dispatchBlk)
	var tests []*ir.Block
	for _, c := range state.cases {
		nextBlk := l.B.NewBlock("switch.test")
		cmp := l.B.Cmp(ir.CmpEq, x.Value, &ir.ConstInt{Ty: x.Type.IR, Val: c.value})
		l.B.CondBr(cmp, c.target, nextBlk)
		l.B.SetBlock(nextBlk)
		tests = append(tests, nextBlk)
	}
	if state.defaultBlock != nil {
		l.B.Br(state.defaultBlock)
	} else {
		l.B.Br(endBlk)
	}
	// Lay the compare blocks out between the entry block and the body.
	fn := l.B.Func()
	for i, blk := range fn.Blocks {
		if blk == bodyBlk {
			fn.Blocks = append(fn.Blocks[:i:i], append(tests, fn.Blocks[i:]...)...)
			break
		}
	}

	l.B.Append(endBlk)
	return nil
}

// lowerCase always starts a fresh block: a case label is a jump target,
// and a block has exactly one entry point, so the label cannot reuse
// whatever block instructions preceding it (fallthrough or an earlier
// case) happened to land in. A non-terminated predecessor gets an
// explicit Br into the new block, modeling fallthrough as a plain jump.
func (l *Lowerer) lowerCase(st *ast.CaseStmt) error {
	if len(l.switchStack) == 0 {
		return l.errAt(st.Pos(), errors.MalformedControlFlow, "case label outside a switch")
	}
	sw := l.switchStack[len(l.switchStack)-1]
	v, _, err := l.EvalConstInt(st.Value)
	if err != nil {
		return err
	}

	caseBlk := l.B.NewBlock("switch.case")
	if !l.B.Terminated() {
		l.B.Br(caseBlk)
	}
	l.B.Append(caseBlk)
	sw.cases = append(sw.cases, switchCaseEntry{value: v, target: caseBlk})
	return l.lowerStmt(st.Stmt)
}

func (l *Lowerer) lowerDefault(st *ast.DefaultStmt) error {
	if len(l.switchStack) == 0 {
		return l.errAt(st.Pos(), errors.MalformedControlFlow, "default label outside a switch")
	}
	sw := l.switchStack[len(l.switchStack)-1]

	defBlk := l.B.NewBlock("switch.default")
	if !l.B.Terminated() {
		l.B.Br(defBlk)
	}
	l.B.Append(defBlk)
	sw.defaultBlock = defBlk
	return l.lowerStmt(st.Stmt)
}

func (l *Lowerer) lowerLabeled(st *ast.LabeledStmt) error {
	blk := l.labelBlock(st.Label)
	if !l.B.Terminated() {
		l.B.Br(blk)
	}
	l.B.Append(blk)
	l.definedLabels[st.Label] = true
	return l.lowerStmt(st.Stmt)
}

func (l *Lowerer) lowerGoto(st *ast.GotoStmt) error {
	blk := l.labelBlock(st.Label)
	l.gotoFixups = append(l.gotoFixups, gotoFixup{label: st.Label, pos: st.Pos()})
	l.B.Br(blk)
	return nil
}

// lowerBreak targets the nearest enclosing loop or switch, whichever was
// entered most recently: both push onto the shared breakStack so its top
// always reflects lexical nesting order regardless of construct kind.
func (l *Lowerer) lowerBreak(st *ast.BreakStmt) error {
	if len(l.breakStack) == 0 {
		return l.errAt(st.Pos(), errors.MalformedControlFlow, "break outside a loop or switch")
	}
	l.B.Br(l.breakStack[len(l.breakStack)-1])
	return nil
}

func (l *Lowerer) lowerContinue(st *ast.ContinueStmt) error {
	if len(l.loopStack) == 0 {
		return l.errAt(st.Pos(), errors.MalformedControlFlow, "continue outside a loop")
	}
	l.B.Br(l.loopStack[len(l.loopStack)-1].continueTarget)
	return nil
}

// lowerReturn converts a non-aggregate return value to the function's
// declared return type and emits a value-returning terminator. A
// struct/union return has no IR value-return: the result is memcpy'd
// into the caller-supplied hidden first parameter and the function
// returns void (spec.md's struct-return ABI convention, mirrored by
// lowerCall on the caller side).
func (l *Lowerer) lowerReturn(st *ast.ReturnStmt) error {
	if st.X == nil {
		l.B.RetVoid()
		return nil
	}
	v, err := l.lowerExpr(st.X, RValue)
	if err != nil {
		return err
	}
	if l.currentReturnType.IsAggregate() {
		l.emitMemcpy(l.currentSretParam, v.Value, l.currentReturnType)
		l.B.RetVoid()
		return nil
	}
	l.B.Ret(l.convert(v.Value, v.Type, l.currentReturnType))
	return nil
}
