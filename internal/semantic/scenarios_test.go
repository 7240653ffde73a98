package semantic

import (
	"testing"

	"github.com/go-cc/irgen/internal/ast"
	"github.com/gkampitakis/go-snaps/snaps"
)

// kw builds a DeclSpecs for a built-in type spelled as one or more keywords.
func kw(words ...string) ast.DeclSpecs { return ast.DeclSpecs{Keywords: words} }

func ident(name string) ast.Declarator { return &ast.IdentDeclarator{Name: name} }

func ptr(inner ast.Declarator) ast.Declarator { return &ast.PointerDeclarator{Inner: inner} }

func fn(inner ast.Declarator, params ...*ast.ParamDecl) ast.Declarator {
	return &ast.FuncDeclarator{Inner: inner, Params: params}
}

func param(specs ast.DeclSpecs, d ast.Declarator) *ast.ParamDecl {
	return &ast.ParamDecl{Specs: specs, Declarator: d}
}

func body(items ...ast.BlockItem) *ast.CompoundStmt { return &ast.CompoundStmt{Items: items} }

func ret(x ast.Expr) ast.BlockItem { return ast.WrapStmt(&ast.ReturnStmt{X: x}) }

// TestScenarioA_PointerArithmeticAndUsualConversions lowers
// `int f(int *p, unsigned n) { return p[n] - *p; }`.
func TestScenarioA_PointerArithmeticAndUsualConversions(t *testing.T) {
	tu := &ast.TranslationUnit{Decls: []ast.ExternalDecl{
		&ast.FuncDef{
			Specs: kw("int"),
			Declarator: fn(ident("f"),
				param(kw("int"), ptr(ident("p"))),
				param(kw("unsigned"), ident("n")),
			),
			Body: body(ret(&ast.BinaryExpr{
				Op: ast.BinSub,
				X:  &ast.IndexExpr{X: &ast.Ident{Name: "p"}, Index: &ast.Ident{Name: "n"}},
				Y:  &ast.UnaryExpr{Op: ast.UnaryDeref, X: &ast.Ident{Name: "p"}},
			})),
		},
	}}

	l := New("", "a.c")
	if err := l.Lower(tu); err != nil {
		t.Fatalf("Lower: %v", err)
	}
	snaps.MatchSnapshot(t, l.Mod.Dump())
}

// TestScenarioB_StructReturn lowers
// `struct S { int a, b; }; struct S g(void); int h(void) { return g().a; }`.
func TestScenarioB_StructReturn(t *testing.T) {
	structSpec := &ast.StructSpec{
		Tag:     "S",
		Defined: true,
		Fields: []*ast.FieldDecl{
			{Specs: kw("int"), Declarators: []ast.Declarator{ident("a"), ident("b")}},
		},
	}
	tu := &ast.TranslationUnit{Decls: []ast.ExternalDecl{
		&ast.Decl{
			Specs: ast.DeclSpecs{Struct: structSpec},
		},
		&ast.Decl{
			Specs: ast.DeclSpecs{Struct: &ast.StructSpec{Tag: "S"}},
			InitDeclarators: []*ast.InitDeclarator{
				{Declarator: &ast.FuncDeclarator{Inner: ident("g"), VoidOnly: true}},
			},
		},
		&ast.FuncDef{
			Specs:      kw("int"),
			Declarator: &ast.FuncDeclarator{Inner: ident("h"), VoidOnly: true},
			Body: body(ret(&ast.FieldExpr{
				X:    &ast.CallExpr{Callee: &ast.Ident{Name: "g"}},
				Name: "a",
			})),
		},
	}}

	l := New("", "b.c")
	if err := l.Lower(tu); err != nil {
		t.Fatalf("Lower: %v", err)
	}
	snaps.MatchSnapshot(t, l.Mod.Dump())
}

// TestScenarioE_SwitchWithDefaultAndGaps lowers
// `int f(int x) { switch (x) { case 1: return 10; case 3: return 30; default: return 0; } }`.
func TestScenarioE_SwitchWithDefaultAndGaps(t *testing.T) {
	intLit := func(v uint64) *ast.IntLit { return &ast.IntLit{Value: v, Base: 10} }

	sw := &ast.SwitchStmt{
		X: &ast.Ident{Name: "x"},
		Body: &ast.CompoundStmt{Items: []ast.BlockItem{
			ast.WrapStmt(&ast.CaseStmt{Value: intLit(1), Stmt: &ast.ReturnStmt{X: intLit(10)}}),
			ast.WrapStmt(&ast.CaseStmt{Value: intLit(3), Stmt: &ast.ReturnStmt{X: intLit(30)}}),
			ast.WrapStmt(&ast.DefaultStmt{Stmt: &ast.ReturnStmt{X: intLit(0)}}),
		}},
	}

	tu := &ast.TranslationUnit{Decls: []ast.ExternalDecl{
		&ast.FuncDef{
			Specs:      kw("int"),
			Declarator: fn(ident("f"), param(kw("int"), ident("x"))),
			Body:       body(ast.WrapStmt(sw)),
		},
	}}

	l := New("", "e.c")
	if err := l.Lower(tu); err != nil {
		t.Fatalf("Lower: %v", err)
	}
	snaps.MatchSnapshot(t, l.Mod.Dump())
}

// TestScenarioC_DesignatedInitializerGlobal lowers
// `int a[5] = { [4]=1, [1]=2 };`.
func TestScenarioC_DesignatedInitializerGlobal(t *testing.T) {
	intLit := func(v uint64) *ast.IntLit { return &ast.IntLit{Value: v, Base: 10} }

	tu := &ast.TranslationUnit{Decls: []ast.ExternalDecl{
		&ast.Decl{
			Specs: kw("int"),
			InitDeclarators: []*ast.InitDeclarator{{
				Declarator: &ast.ArrayDeclarator{Inner: ident("a"), Len: intLit(5)},
				Init: &ast.InitializerList{Elems: []*ast.InitItem{
					{Designators: []ast.Designator{&ast.IndexDesignator{Index: intLit(4)}}, Init: &ast.ExprInitializer{X: intLit(1)}},
					{Designators: []ast.Designator{&ast.IndexDesignator{Index: intLit(1)}}, Init: &ast.ExprInitializer{X: intLit(2)}},
				}},
			}},
		},
	}}

	l := New("", "c.c")
	if err := l.Lower(tu); err != nil {
		t.Fatalf("Lower: %v", err)
	}
	snaps.MatchSnapshot(t, l.Mod.Dump())
}

// TestScenarioD_ShortCircuitAnd lowers `int f(int x) { return x && x+1; }`.
func TestScenarioD_ShortCircuitAnd(t *testing.T) {
	tu := &ast.TranslationUnit{Decls: []ast.ExternalDecl{
		&ast.FuncDef{
			Specs:      kw("int"),
			Declarator: fn(ident("f"), param(kw("int"), ident("x"))),
			Body: body(ret(&ast.BinaryExpr{
				Op: ast.BinLogAnd,
				X:  &ast.Ident{Name: "x"},
				Y: &ast.BinaryExpr{
					Op: ast.BinAdd,
					X:  &ast.Ident{Name: "x"},
					Y:  &ast.IntLit{Value: 1, Base: 10},
				},
			})),
		},
	}}

	l := New("", "d.c")
	if err := l.Lower(tu); err != nil {
		t.Fatalf("Lower: %v", err)
	}
	snaps.MatchSnapshot(t, l.Mod.Dump())
}

// TestStructAssignAndByValueParam lowers
// `struct P { int x, y; }; int sum(struct P p) { struct P q; q = p; return q.x + q.y; }`
// -- a struct-by-value parameter copied into a local by struct
// assignment, which must go through memcpy rather than a whole-value
// load/store, and the local's fields then read.
func TestStructAssignAndByValueParam(t *testing.T) {
	structSpec := &ast.StructSpec{
		Tag:     "P",
		Defined: true,
		Fields: []*ast.FieldDecl{
			{Specs: kw("int"), Declarators: []ast.Declarator{ident("x"), ident("y")}},
		},
	}
	pSpecs := ast.DeclSpecs{Struct: &ast.StructSpec{Tag: "P"}}

	tu := &ast.TranslationUnit{Decls: []ast.ExternalDecl{
		&ast.Decl{Specs: ast.DeclSpecs{Struct: structSpec}},
		&ast.FuncDef{
			Specs:      kw("int"),
			Declarator: fn(ident("sum"), param(pSpecs, ident("p"))),
			Body: body(
				&ast.Decl{
					Specs:           pSpecs,
					InitDeclarators: []*ast.InitDeclarator{{Declarator: ident("q")}},
				},
				ast.WrapStmt(&ast.ExprStmt{X: &ast.AssignExpr{
					Op:  ast.AssignPlain,
					LHS: &ast.Ident{Name: "q"},
					RHS: &ast.Ident{Name: "p"},
				}}),
				ret(&ast.BinaryExpr{
					Op: ast.BinAdd,
					X:  &ast.FieldExpr{X: &ast.Ident{Name: "q"}, Name: "x"},
					Y:  &ast.FieldExpr{X: &ast.Ident{Name: "q"}, Name: "y"},
				}),
			),
		},
	}}

	l := New("", "struct_assign.c")
	if err := l.Lower(tu); err != nil {
		t.Fatalf("Lower: %v", err)
	}
	snaps.MatchSnapshot(t, l.Mod.Dump())
}

// TestScenarioF_GotoForward lowers `void f(void) { goto L; L: return; }`.
func TestScenarioF_GotoForward(t *testing.T) {
	tu := &ast.TranslationUnit{Decls: []ast.ExternalDecl{
		&ast.FuncDef{
			Specs:      kw("void"),
			Declarator: &ast.FuncDeclarator{Inner: ident("f"), VoidOnly: true},
			Body: body(
				ast.WrapStmt(&ast.GotoStmt{Label: "L"}),
				ast.WrapStmt(&ast.LabeledStmt{Label: "L", Stmt: &ast.ReturnStmt{}}),
			),
		},
	}}

	l := New("", "f.c")
	if err := l.Lower(tu); err != nil {
		t.Fatalf("Lower: %v", err)
	}
	snaps.MatchSnapshot(t, l.Mod.Dump())
}
