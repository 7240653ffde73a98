package semantic

import (
	"github.com/go-cc/irgen/internal/ast"
	"github.com/go-cc/irgen/internal/errors"
	"github.com/go-cc/irgen/internal/ir"
	"github.com/go-cc/irgen/internal/types"
)

// pendingInline is a deferred inline function definition: its body is
// withheld until a later non-inline redeclaration of the same name
// forces emission (spec.md section 4.7, testable property 9).
type pendingInline struct {
	name   string
	fnType *types.CType
	def    *ast.FuncDef
}

// Lower drives a whole translation unit: each external declaration is
// processed in source order, registering globals, lowering function
// bodies, and recording typedefs, before any outstanding (never-forced)
// inline definitions are simply left undefined, matching testable
// property 9's "emits no body until forced".
func (l *Lowerer) Lower(tu *ast.TranslationUnit) error {
	for _, d := range tu.Decls {
		if err := l.lowerExternalDecl(d); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lowerer) lowerExternalDecl(d ast.ExternalDecl) error {
	switch n := d.(type) {
	case *ast.FuncDef:
		return l.lowerFuncDef(n)
	case *ast.Decl:
		return l.lowerTopDecl(n)
	default:
		return l.errAt(d.Pos(), errors.UnsupportedConstruct, "unsupported external declaration")
	}
}

func (l *Lowerer) lowerFuncDef(n *ast.FuncDef) error {
	name, ct, err := l.Resolve(n.Specs, n.Declarator)
	if err != nil {
		return err
	}
	if !ct.IsFunction() {
		return l.errAt(n.Pos(), errors.TypeMismatch, "function definition does not have a function type")
	}

	if n.Specs.Inline {
		l.declareFunctionGlobal(name, ct, n.Specs.Storage)
		l.inlineDeferred[name] = &pendingInline{name: name, fnType: ct, def: n}
		return nil
	}

	if pending, ok := l.inlineDeferred[name]; ok {
		delete(l.inlineDeferred, name)
		if err := l.emitFunctionBody(pending.name, pending.fnType, pending.def); err != nil {
			return err
		}
	}

	return l.emitFunctionBody(name, ct, n)
}

func (l *Lowerer) lowerTopDecl(d *ast.Decl) error {
	if len(d.InitDeclarators) == 0 {
		// `struct S { ... };` and the like: only the tag is introduced.
		_, err := l.baseType(d.Specs)
		return err
	}
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
			l.declareFunctionGlobal(name, ct, d.Specs.Storage)
			if !d.Specs.Inline {
				if pending, ok := l.inlineDeferred[name]; ok {
					delete(l.inlineDeferred, name)
					if err := l.emitFunctionBody(pending.name, pending.fnType, pending.def); err != nil {
						return err
					}
				}
			}
			continue
		}

		if err := l.defineTopObject(name, ct, d.Specs.Storage, id.Init); err != nil {
			return err
		}
	}
	return nil
}

// declareFunctionGlobal finds or creates a declared-only (bodyless) IR
// global for a function prototype and binds name in the file scope.
// Storage maps static to internal linkage, everything else to external
// (spec.md 4.7's linkage rule; functions have no tentative-definition
// concept, so extern and absent storage behave the same here).
func (l *Lowerer) declareFunctionGlobal(name string, ct *types.CType, storage ast.StorageClass) *ir.Global {
	g := l.Mod.Lookup(name)
	if g == nil {
		linkage := ir.LinkageExternal
		if storage == ast.StorageStatic {
			linkage = ir.LinkageInternal
		}
		retIR, params, _ := buildIRSignature(ct, nil)
		g = &ir.Global{Name: name, Linkage: linkage, Func: &ir.Function{
			Name: name, Params: params, Ret: retIR, Variadic: ct.Variadic, Linkage: linkage, Declared: true,
		}}
		l.Mod.AddGlobal(g)
	}
	l.scope.Define(&Binding{Name: name, Term: Term{Type: ct, Value: &ir.ConstGlobalAddr{Ty: ct.IR, Global: g}}})
	return g
}

// buildIRSignature applies the struct-return ABI convention (spec.md's
// hidden-first-argument rule) to ct's IR signature: a struct/union return
// type becomes void plus a leading pointer parameter, so the same
// transform is shared by a bodyless declaration and a full definition.
func buildIRSignature(ct *types.CType, paramNames []string) (retIR ir.Type, params []*ir.Param, sret *ir.Param) {
	retIR = ct.Ret.IR
	params = make([]*ir.Param, 0, len(ct.Params)+1)
	idx := 0
	if ct.Ret.IsAggregate() {
		sret = &ir.Param{Name: "$ret", Ty: ir.Pointer(ct.Ret.IR), Idx: idx}
		params = append(params, sret)
		retIR = ir.Void
		idx++
	}
	for i, pt := range ct.Params {
		pname := ""
		if i < len(paramNames) {
			pname = paramNames[i]
		}
		params = append(params, &ir.Param{Name: pname, Ty: pt.IR, Idx: idx})
		idx++
	}
	return retIR, params, sret
}

// emitFunctionBody builds the IR function for def (prepending a hidden
// pointer parameter when ct returns a struct/union), lowers its body, and
// checks that every goto reached a defined label.
func (l *Lowerer) emitFunctionBody(name string, ct *types.CType, def *ast.FuncDef) error {
	paramNames, err := l.funcDefParamNames(def, ct)
	if err != nil {
		return err
	}

	linkage := ir.LinkageExternal
	if def.Specs.Storage == ast.StorageStatic {
		linkage = ir.LinkageInternal
	}

	retIR, params, sret := buildIRSignature(ct, paramNames)
	structReturn := sret != nil

	fn := &ir.Function{Name: name, Params: params, Ret: retIR, Variadic: ct.Variadic, Linkage: linkage}
	g := &ir.Global{Name: name, Linkage: linkage, Func: fn}
	l.Mod.AddGlobal(g)
	l.scope.Define(&Binding{Name: name, Term: Term{Type: ct, Value: &ir.ConstGlobalAddr{Ty: ct.IR, Global: g}}})

	l.B.StartFunction(fn)
	l.B.Append(l.B.NewBlock("entry"))
	l.beginFunctionBody()

	l.pushScope()
	defer l.popScope()
	paramOffset := 0
	if structReturn {
		paramOffset = 1
	}
	// Each parameter is copied into its own local slot and bound by
	// address, like any other identifier (Binding.Term.Value is always an
	// object's address, never a bare SSA value) -- this is what makes
	// `&param` and a struct-by-value parameter's field accesses well-typed.
	for i, pt := range ct.Params {
		p := params[paramOffset+i]
		addr := l.B.Local(pt.IR)
		l.B.Store(addr, p)
		l.scope.Define(&Binding{Name: p.Name, Term: Term{Type: pt, Value: addr}})
	}

	if err := l.lowerCompoundBody(def.Body, ct.Ret, paramValueOrNil(sret)); err != nil {
		return err
	}
	return l.checkGotoTargets()
}

func paramValueOrNil(p *ir.Param) ir.Value {
	if p == nil {
		return nil
	}
	return p
}

// funcDeclaratorOf walks through pointer/paren/array wrapper layers to the
// function-declarator whose parameter list belongs to the definition
// (spec.md 4.3's declarator fold, same traversal the Declarator Resolver
// uses, stopped at the first function layer rather than folded fully).
func funcDeclaratorOf(d ast.Declarator) (*ast.FuncDeclarator, bool) {
	switch n := d.(type) {
	case *ast.FuncDeclarator:
		return n, true
	case *ast.PointerDeclarator:
		return funcDeclaratorOf(n.Inner)
	case *ast.ParenDeclarator:
		return funcDeclaratorOf(n.Inner)
	case *ast.ArrayDeclarator:
		return funcDeclaratorOf(n.Inner)
	default:
		return nil, false
	}
}

// funcDefParamNames reads parameter names straight off the declarator
// tree, without re-running the Declarator Resolver on each parameter's
// decl-specifiers: param types were already resolved once into ct.Params,
// and re-resolving a parameter carrying an inline struct/enum definition
// would try to define the same tag twice.
func (l *Lowerer) funcDefParamNames(def *ast.FuncDef, ct *types.CType) ([]string, error) {
	fd, ok := funcDeclaratorOf(def.Declarator)
	if !ok {
		return nil, l.errAt(def.Pos(), errors.UnsupportedConstruct, "function definition declarator has no parameter list")
	}
	names := make([]string, 0, len(fd.Params))
	for _, p := range fd.Params {
		names = append(names, identNameOf(p.Declarator))
	}
	return names, nil
}

// identNameOf finds the identifier carried by a declarator, looking past
// any pointer/array/function/paren wrapping.
func identNameOf(d ast.Declarator) string {
	switch n := d.(type) {
	case nil:
		return ""
	case *ast.IdentDeclarator:
		return n.Name
	case *ast.PointerDeclarator:
		return identNameOf(n.Inner)
	case *ast.ParenDeclarator:
		return identNameOf(n.Inner)
	case *ast.ArrayDeclarator:
		return identNameOf(n.Inner)
	case *ast.FuncDeclarator:
		return identNameOf(n.Inner)
	default:
		return ""
	}
}

// defineTopObject installs a file-scope object declaration: extern (no
// storage, or a definition if it carries an initializer), static
// (internal linkage), or absent storage (external, tentative unless
// initialized). Non-extern objects always get a value -- the Initializer
// Compiler's static path, or an implicit zero fill.
func (l *Lowerer) defineTopObject(name string, ct *types.CType, storage ast.StorageClass, init ast.Initializer) error {
	ptrIR := l.Types.Pointer(ct).IR

	if storage == ast.StorageExtern && init == nil {
		g := l.Mod.Lookup(name)
		if g == nil {
			g = &ir.Global{Name: name, Linkage: ir.LinkageExternal, VarType: ct.IR}
			l.Mod.AddGlobal(g)
		}
		l.scope.Define(&Binding{Name: name, Term: Term{Type: ct, Value: &ir.ConstGlobalAddr{Ty: ptrIR, Global: g}}})
		return nil
	}

	var v ir.Value = &ir.ConstZero{Ty: ct.IR}
	if init != nil {
		vv, err := l.staticInitValue(ct, init)
		if err != nil {
			return err
		}
		v = vv
	}
	linkage := ir.LinkageExternal
	if storage == ast.StorageStatic {
		linkage = ir.LinkageInternal
	}
	g := &ir.Global{Name: name, Linkage: linkage, VarType: ct.IR, Init: v}
	l.Mod.AddGlobal(g)
	l.scope.Define(&Binding{Name: name, Term: Term{Type: ct, Value: &ir.ConstGlobalAddr{Ty: ptrIR, Global: g}}})
	return nil
}
