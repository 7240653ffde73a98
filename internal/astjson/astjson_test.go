package astjson

import (
	"testing"

	"github.com/go-cc/irgen/internal/ast"
)

func TestRoundTrip_SimpleFunction(t *testing.T) {
	// int add(int a, int b) { return a + b; }
	tu := &ast.TranslationUnit{
		Decls: []ast.ExternalDecl{
			&ast.FuncDef{
				Specs: ast.DeclSpecs{Keywords: []string{"int"}},
				Declarator: &ast.FuncDeclarator{
					Inner: &ast.IdentDeclarator{Name: "add"},
					Params: []*ast.ParamDecl{
						{Specs: ast.DeclSpecs{Keywords: []string{"int"}}, Declarator: &ast.IdentDeclarator{Name: "a"}},
						{Specs: ast.DeclSpecs{Keywords: []string{"int"}}, Declarator: &ast.IdentDeclarator{Name: "b"}},
					},
				},
				Body: &ast.CompoundStmt{
					Items: []ast.BlockItem{
						ast.WrapStmt(&ast.ReturnStmt{
							X: &ast.BinaryExpr{Op: ast.BinAdd, X: &ast.Ident{Name: "a"}, Y: &ast.Ident{Name: "b"}},
						}),
					},
				},
			},
		},
	}

	data, err := Encode(tu)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(got.Decls))
	}
	def, ok := got.Decls[0].(*ast.FuncDef)
	if !ok {
		t.Fatalf("expected *ast.FuncDef, got %T", got.Decls[0])
	}
	fd, ok := def.Declarator.(*ast.FuncDeclarator)
	if !ok {
		t.Fatalf("expected *ast.FuncDeclarator, got %T", def.Declarator)
	}
	if len(fd.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fd.Params))
	}
	if len(def.Body.Items) != 1 {
		t.Fatalf("expected 1 body item, got %d", len(def.Body.Items))
	}
	stmt, ok := def.Body.Items[0].(ast.Stmt)
	if !ok {
		t.Fatalf("expected body item to satisfy ast.Stmt, got %T", def.Body.Items[0])
	}
	ret, ok := stmt.(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("expected *ast.ReturnStmt, got %T", stmt)
	}
	bin, ok := ret.X.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.BinAdd {
		t.Fatalf("expected a+b BinaryExpr, got %#v", ret.X)
	}
}

func TestRoundTrip_IfElseAndCast(t *testing.T) {
	tu := &ast.TranslationUnit{
		Decls: []ast.ExternalDecl{
			&ast.FuncDef{
				Specs:      ast.DeclSpecs{Keywords: []string{"void"}},
				Declarator: &ast.FuncDeclarator{Inner: &ast.IdentDeclarator{Name: "f"}, VoidOnly: true},
				Body: &ast.CompoundStmt{
					Items: []ast.BlockItem{
						ast.WrapStmt(&ast.IfStmt{
							Cond: &ast.CastExpr{
								Type: &ast.TypeName{Specs: ast.DeclSpecs{Keywords: []string{"int"}}},
								X:    &ast.IntLit{Text: "1", Value: 1, Base: 10},
							},
							Then: &ast.ExprStmt{X: &ast.Ident{Name: "x"}},
							Else: &ast.ExprStmt{X: &ast.Ident{Name: "y"}},
						}),
					},
				},
			},
		},
	}

	data, err := Encode(tu)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	def := got.Decls[0].(*ast.FuncDef)
	if !def.Declarator.(*ast.FuncDeclarator).VoidOnly {
		t.Fatal("expected VoidOnly to round-trip true")
	}
}
