// Package astjson is the AST interchange format consumed by
// cmd/cc-irgen's lower subcommand: a JSON encoding of internal/ast's
// interface-heavy node tree, grounded on the teacher's own practice of
// persisting a compiler's intermediate form (internal/bytecode's
// serializer persists compiled chunks; here we persist the tree that
// feeds the lowering engine instead of the lexer/parser this module
// does not own).
//
// Every node DTO carries a "kind" discriminator plus the union of
// fields any node of that interface could need; unused fields are
// omitted on encode and ignored on decode. Source positions are not
// round-tripped -- a JSON-supplied AST gets zero positions, which only
// affects the column/line an error excerpt reports, never lowering
// semantics.
package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/go-cc/irgen/internal/ast"
)

// Decode parses a translation unit from its JSON interchange form.
func Decode(data []byte) (*ast.TranslationUnit, error) {
	var dto tuDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("astjson: %w", err)
	}
	decls := make([]ast.ExternalDecl, len(dto.Decls))
	for i, d := range dto.Decls {
		ed, err := d.toAST()
		if err != nil {
			return nil, err
		}
		decls[i] = ed
	}
	return &ast.TranslationUnit{Decls: decls}, nil
}

// Encode renders a translation unit to its JSON interchange form.
func Encode(tu *ast.TranslationUnit) ([]byte, error) {
	dto := tuDTO{Decls: make([]externalDeclDTO, len(tu.Decls))}
	for i, d := range tu.Decls {
		dto.Decls[i] = externalDeclFromAST(d)
	}
	return json.MarshalIndent(dto, "", "  ")
}

type tuDTO struct {
	Decls []externalDeclDTO `json:"decls"`
}

// --- decl-specifier / declarator DTOs (plain, not sum types: these are
// concrete struct fields in the ast package, never interfaces, except
// where noted) ---

type declSpecsDTO struct {
	Storage    string       `json:"storage,omitempty"`
	Inline     bool         `json:"inline,omitempty"`
	Const      bool         `json:"const,omitempty"`
	Volatile   bool         `json:"volatile,omitempty"`
	Keywords   []string     `json:"keywords,omitempty"`
	Struct     *structDTO   `json:"struct,omitempty"`
	Union      *structDTO   `json:"union,omitempty"`
	Enum       *enumDTO     `json:"enum,omitempty"`
	TypedefRef string       `json:"typedefRef,omitempty"`
}

var storageNames = map[ast.StorageClass]string{
	ast.StorageNone: "", ast.StorageStatic: "static", ast.StorageExtern: "extern",
	ast.StorageTypedef: "typedef", ast.StorageAuto: "auto", ast.StorageRegister: "register",
}
var storageValues = func() map[string]ast.StorageClass {
	m := map[string]ast.StorageClass{}
	for k, v := range storageNames {
		m[v] = k
	}
	return m
}()

func declSpecsFromAST(s ast.DeclSpecs) declSpecsDTO {
	d := declSpecsDTO{
		Storage: storageNames[s.Storage], Inline: s.Inline, Const: s.Const, Volatile: s.Volatile,
		Keywords: s.Keywords, TypedefRef: s.TypedefRef,
	}
	if s.Struct != nil {
		d.Struct = structFromAST(s.Struct)
	}
	if s.Union != nil {
		d.Union = structFromAST(s.Union)
	}
	if s.Enum != nil {
		d.Enum = enumFromAST(s.Enum)
	}
	return d
}

func (d declSpecsDTO) toAST() (ast.DeclSpecs, error) {
	s := ast.DeclSpecs{
		Storage: storageValues[d.Storage], Inline: d.Inline, Const: d.Const, Volatile: d.Volatile,
		Keywords: d.Keywords, TypedefRef: d.TypedefRef,
	}
	if d.Struct != nil {
		v, err := d.Struct.toAST()
		if err != nil {
			return s, err
		}
		s.Struct = v
	}
	if d.Union != nil {
		v, err := d.Union.toAST()
		if err != nil {
			return s, err
		}
		s.Union = v
	}
	if d.Enum != nil {
		s.Enum = d.Enum.toAST()
	}
	return s, nil
}

type structDTO struct {
	Tag     string        `json:"tag,omitempty"`
	Fields  []fieldDTO    `json:"fields,omitempty"`
	Defined bool          `json:"defined,omitempty"`
	Packed  bool          `json:"packed,omitempty"`
}

type fieldDTO struct {
	Specs       declSpecsDTO    `json:"specs"`
	Declarators []declaratorDTO `json:"declarators"`
}

func structFromAST(s *ast.StructSpec) *structDTO {
	d := &structDTO{Tag: s.Tag, Defined: s.Defined, Packed: s.Packed}
	for _, f := range s.Fields {
		fd := fieldDTO{Specs: declSpecsFromAST(f.Specs)}
		for _, decl := range f.Declarators {
			fd.Declarators = append(fd.Declarators, declaratorFromAST(decl))
		}
		d.Fields = append(d.Fields, fd)
	}
	return d
}

func (d *structDTO) toAST() (*ast.StructSpec, error) {
	s := &ast.StructSpec{Tag: d.Tag, Defined: d.Defined, Packed: d.Packed}
	for _, fd := range d.Fields {
		specs, err := fd.Specs.toAST()
		if err != nil {
			return nil, err
		}
		field := &ast.FieldDecl{Specs: specs}
		for _, decl := range fd.Declarators {
			dd, err := decl.toAST()
			if err != nil {
				return nil, err
			}
			field.Declarators = append(field.Declarators, dd)
		}
		s.Fields = append(s.Fields, field)
	}
	return s, nil
}

type enumDTO struct {
	Tag         string          `json:"tag,omitempty"`
	Enumerators []enumeratorDTO `json:"enumerators,omitempty"`
	Defined     bool            `json:"defined,omitempty"`
}

type enumeratorDTO struct {
	Name  string    `json:"name"`
	Value *exprDTO  `json:"value,omitempty"`
}

func enumFromAST(e *ast.EnumSpec) *enumDTO {
	d := &enumDTO{Tag: e.Tag, Defined: e.Defined}
	for _, en := range e.Enumerators {
		ed := enumeratorDTO{Name: en.Name}
		if en.Value != nil {
			v := exprFromAST(en.Value)
			ed.Value = &v
		}
		d.Enumerators = append(d.Enumerators, ed)
	}
	return d
}

func (d *enumDTO) toAST() *ast.EnumSpec {
	e := &ast.EnumSpec{Tag: d.Tag, Defined: d.Defined}
	for _, en := range d.Enumerators {
		enr := &ast.Enumerator{Name: en.Name}
		if en.Value != nil {
			enr.Value, _ = en.Value.toAST()
		}
		e.Enumerators = append(e.Enumerators, enr)
	}
	return e
}

// declaratorDTO is a sum type over IdentDeclarator, PointerDeclarator,
// ParenDeclarator, ArrayDeclarator, FuncDeclarator.
type declaratorDTO struct {
	Kind     string          `json:"kind"`
	Name     string          `json:"name,omitempty"`
	Inner    *declaratorDTO  `json:"inner,omitempty"`
	Len      *exprDTO        `json:"len,omitempty"`
	Params   []paramDeclDTO  `json:"params,omitempty"`
	Variadic bool            `json:"variadic,omitempty"`
	VoidOnly bool            `json:"voidOnly,omitempty"`
}

type paramDeclDTO struct {
	Specs      declSpecsDTO   `json:"specs"`
	Declarator *declaratorDTO `json:"declarator,omitempty"`
}

func declaratorFromAST(d ast.Declarator) declaratorDTO {
	switch n := d.(type) {
	case nil:
		return declaratorDTO{}
	case *ast.IdentDeclarator:
		return declaratorDTO{Kind: "ident", Name: n.Name}
	case *ast.PointerDeclarator:
		inner := declaratorFromAST(n.Inner)
		return declaratorDTO{Kind: "pointer", Inner: &inner}
	case *ast.ParenDeclarator:
		inner := declaratorFromAST(n.Inner)
		return declaratorDTO{Kind: "paren", Inner: &inner}
	case *ast.ArrayDeclarator:
		inner := declaratorFromAST(n.Inner)
		dto := declaratorDTO{Kind: "array", Inner: &inner}
		if n.Len != nil {
			l := exprFromAST(n.Len)
			dto.Len = &l
		}
		return dto
	case *ast.FuncDeclarator:
		inner := declaratorFromAST(n.Inner)
		dto := declaratorDTO{Kind: "func", Inner: &inner, Variadic: n.Variadic, VoidOnly: n.VoidOnly}
		for _, p := range n.Params {
			pd := paramDeclDTO{Specs: declSpecsFromAST(p.Specs)}
			if p.Declarator != nil {
				inner := declaratorFromAST(p.Declarator)
				pd.Declarator = &inner
			}
			dto.Params = append(dto.Params, pd)
		}
		return dto
	default:
		return declaratorDTO{}
	}
}

func (d *declaratorDTO) toAST() (ast.Declarator, error) {
	if d == nil || d.Kind == "" {
		return nil, nil
	}
	switch d.Kind {
	case "ident":
		return &ast.IdentDeclarator{Name: d.Name}, nil
	case "pointer":
		inner, err := d.Inner.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.PointerDeclarator{Inner: inner}, nil
	case "paren":
		inner, err := d.Inner.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.ParenDeclarator{Inner: inner}, nil
	case "array":
		inner, err := d.Inner.toAST()
		if err != nil {
			return nil, err
		}
		arr := &ast.ArrayDeclarator{Inner: inner}
		if d.Len != nil {
			arr.Len, err = d.Len.toAST()
			if err != nil {
				return nil, err
			}
		}
		return arr, nil
	case "func":
		inner, err := d.Inner.toAST()
		if err != nil {
			return nil, err
		}
		fd := &ast.FuncDeclarator{Inner: inner, Variadic: d.Variadic, VoidOnly: d.VoidOnly}
		for _, p := range d.Params {
			specs, err := p.Specs.toAST()
			if err != nil {
				return nil, err
			}
			pdecl, err := p.Declarator.toAST()
			if err != nil {
				return nil, err
			}
			fd.Params = append(fd.Params, &ast.ParamDecl{Specs: specs, Declarator: pdecl})
		}
		return fd, nil
	default:
		return nil, fmt.Errorf("astjson: unknown declarator kind %q", d.Kind)
	}
}

type typeNameDTO struct {
	Specs      declSpecsDTO   `json:"specs"`
	Declarator *declaratorDTO `json:"declarator,omitempty"`
}

func typeNameFromAST(t *ast.TypeName) *typeNameDTO {
	if t == nil {
		return nil
	}
	dto := &typeNameDTO{Specs: declSpecsFromAST(t.Specs)}
	if t.Declarator != nil {
		d := declaratorFromAST(t.Declarator)
		dto.Declarator = &d
	}
	return dto
}

func (t *typeNameDTO) toAST() (*ast.TypeName, error) {
	if t == nil {
		return nil, nil
	}
	specs, err := t.Specs.toAST()
	if err != nil {
		return nil, err
	}
	tn := &ast.TypeName{Specs: specs}
	if t.Declarator != nil {
		tn.Declarator, err = t.Declarator.toAST()
		if err != nil {
			return nil, err
		}
	}
	return tn, nil
}

// --- expression sum type ---

type exprDTO struct {
	Kind string `json:"kind"`

	Name string `json:"name,omitempty"`

	Text   string `json:"text,omitempty"`
	Value  uint64 `json:"value,omitempty"`
	Suffix string `json:"suffix,omitempty"`
	Base   int    `json:"base,omitempty"`

	SValue string `json:"svalue,omitempty"`

	Op int      `json:"op,omitempty"`
	X  *exprDTO `json:"x,omitempty"`
	Y  *exprDTO `json:"y,omitempty"`

	Cond *exprDTO `json:"cond,omitempty"`
	Then *exprDTO `json:"then,omitempty"`
	Else *exprDTO `json:"else,omitempty"`

	LHS *exprDTO `json:"lhs,omitempty"`
	RHS *exprDTO `json:"rhs,omitempty"`

	Callee *exprDTO  `json:"callee,omitempty"`
	Args   []exprDTO `json:"args,omitempty"`

	Index *exprDTO `json:"index,omitempty"`

	FieldName string `json:"fieldName,omitempty"`
	Arrow     bool   `json:"arrow,omitempty"`

	Type *typeNameDTO `json:"type,omitempty"`

	Init *initializerDTO `json:"init,omitempty"`

	Exprs []exprDTO `json:"exprs,omitempty"`

	Ap        *exprDTO `json:"ap,omitempty"`
	LastParam string   `json:"lastParam,omitempty"`
}

func exprFromAST(e ast.Expr) exprDTO {
	switch n := e.(type) {
	case *ast.Ident:
		return exprDTO{Kind: "ident", Name: n.Name}
	case *ast.IntLit:
		return exprDTO{Kind: "intlit", Text: n.Text, Value: n.Value, Suffix: n.Suffix, Base: n.Base}
	case *ast.StringLit:
		return exprDTO{Kind: "stringlit", SValue: n.Value}
	case *ast.UnaryExpr:
		x := exprFromAST(n.X)
		return exprDTO{Kind: "unary", Op: int(n.Op), X: &x}
	case *ast.PostfixExpr:
		x := exprFromAST(n.X)
		return exprDTO{Kind: "postfix", Op: int(n.Op), X: &x}
	case *ast.BinaryExpr:
		x, y := exprFromAST(n.X), exprFromAST(n.Y)
		return exprDTO{Kind: "binary", Op: int(n.Op), X: &x, Y: &y}
	case *ast.CondExpr:
		c, t, e := exprFromAST(n.Cond), exprFromAST(n.Then), exprFromAST(n.Else)
		return exprDTO{Kind: "cond", Cond: &c, Then: &t, Else: &e}
	case *ast.AssignExpr:
		l, r := exprFromAST(n.LHS), exprFromAST(n.RHS)
		return exprDTO{Kind: "assign", Op: int(n.Op), LHS: &l, RHS: &r}
	case *ast.CallExpr:
		callee := exprFromAST(n.Callee)
		dto := exprDTO{Kind: "call", Callee: &callee}
		for _, a := range n.Args {
			dto.Args = append(dto.Args, exprFromAST(a))
		}
		return dto
	case *ast.IndexExpr:
		x, idx := exprFromAST(n.X), exprFromAST(n.Index)
		return exprDTO{Kind: "index", X: &x, Index: &idx}
	case *ast.FieldExpr:
		x := exprFromAST(n.X)
		return exprDTO{Kind: "field", X: &x, FieldName: n.Name, Arrow: n.Arrow}
	case *ast.CastExpr:
		x := exprFromAST(n.X)
		return exprDTO{Kind: "cast", Type: typeNameFromAST(n.Type), X: &x}
	case *ast.SizeofExpr:
		dto := exprDTO{Kind: "sizeof", Type: typeNameFromAST(n.Type)}
		if n.X != nil {
			x := exprFromAST(n.X)
			dto.X = &x
		}
		return dto
	case *ast.CompoundLiteral:
		return exprDTO{Kind: "compoundLiteral", Type: typeNameFromAST(n.Type), Init: initializerFromASTPtr(n.Init)}
	case *ast.CommaExpr:
		dto := exprDTO{Kind: "comma"}
		for _, x := range n.Exprs {
			dto.Exprs = append(dto.Exprs, exprFromAST(x))
		}
		return dto
	case *ast.VaStartExpr:
		ap := exprFromAST(n.Ap)
		return exprDTO{Kind: "vaStart", Ap: &ap, LastParam: n.LastParam}
	case *ast.VaEndExpr:
		ap := exprFromAST(n.Ap)
		return exprDTO{Kind: "vaEnd", Ap: &ap}
	case *ast.VaArgExpr:
		ap := exprFromAST(n.Ap)
		return exprDTO{Kind: "vaArg", Ap: &ap, Type: typeNameFromAST(n.Type)}
	default:
		return exprDTO{Kind: "invalid"}
	}
}

func (d *exprDTO) toAST() (ast.Expr, error) {
	if d == nil {
		return nil, nil
	}
	switch d.Kind {
	case "ident":
		return &ast.Ident{Name: d.Name}, nil
	case "intlit":
		return &ast.IntLit{Text: d.Text, Value: d.Value, Suffix: d.Suffix, Base: d.Base}, nil
	case "stringlit":
		return &ast.StringLit{Value: d.SValue}, nil
	case "unary":
		x, err := d.X.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: ast.UnaryOp(d.Op), X: x}, nil
	case "postfix":
		x, err := d.X.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.PostfixExpr{Op: ast.PostfixOp(d.Op), X: x}, nil
	case "binary":
		x, err := d.X.toAST()
		if err != nil {
			return nil, err
		}
		y, err := d.Y.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Op: ast.BinaryOp(d.Op), X: x, Y: y}, nil
	case "cond":
		c, err := d.Cond.toAST()
		if err != nil {
			return nil, err
		}
		t, err := d.Then.toAST()
		if err != nil {
			return nil, err
		}
		e, err := d.Else.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.CondExpr{Cond: c, Then: t, Else: e}, nil
	case "assign":
		l, err := d.LHS.toAST()
		if err != nil {
			return nil, err
		}
		r, err := d.RHS.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.AssignExpr{Op: ast.AssignOp(d.Op), LHS: l, RHS: r}, nil
	case "call":
		callee, err := d.Callee.toAST()
		if err != nil {
			return nil, err
		}
		call := &ast.CallExpr{Callee: callee}
		for i := range d.Args {
			a, err := d.Args[i].toAST()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, a)
		}
		return call, nil
	case "index":
		x, err := d.X.toAST()
		if err != nil {
			return nil, err
		}
		idx, err := d.Index.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.IndexExpr{X: x, Index: idx}, nil
	case "field":
		x, err := d.X.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.FieldExpr{X: x, Name: d.FieldName, Arrow: d.Arrow}, nil
	case "cast":
		ty, err := d.Type.toAST()
		if err != nil {
			return nil, err
		}
		x, err := d.X.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.CastExpr{Type: ty, X: x}, nil
	case "sizeof":
		ty, err := d.Type.toAST()
		if err != nil {
			return nil, err
		}
		x, err := d.X.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.SizeofExpr{Type: ty, X: x}, nil
	case "compoundLiteral":
		ty, err := d.Type.toAST()
		if err != nil {
			return nil, err
		}
		list, err := d.Init.toASTPtr()
		if err != nil {
			return nil, err
		}
		return &ast.CompoundLiteral{Type: ty, Init: list}, nil
	case "comma":
		ce := &ast.CommaExpr{}
		for i := range d.Exprs {
			x, err := d.Exprs[i].toAST()
			if err != nil {
				return nil, err
			}
			ce.Exprs = append(ce.Exprs, x)
		}
		return ce, nil
	case "vaStart":
		ap, err := d.Ap.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.VaStartExpr{Ap: ap, LastParam: d.LastParam}, nil
	case "vaEnd":
		ap, err := d.Ap.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.VaEndExpr{Ap: ap}, nil
	case "vaArg":
		ap, err := d.Ap.toAST()
		if err != nil {
			return nil, err
		}
		ty, err := d.Type.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.VaArgExpr{Ap: ap, Type: ty}, nil
	default:
		return nil, fmt.Errorf("astjson: unknown expr kind %q", d.Kind)
	}
}

// --- initializer / designator sum types ---

type initializerDTO struct {
	Kind        string           `json:"kind"`
	X           *exprDTO         `json:"x,omitempty"`
	Elems       []initItemDTO    `json:"elems,omitempty"`
}

type initItemDTO struct {
	Designators []designatorDTO `json:"designators,omitempty"`
	Init        initializerDTO  `json:"init"`
}

type designatorDTO struct {
	Kind  string   `json:"kind"`
	Name  string   `json:"name,omitempty"`
	Index *exprDTO `json:"index,omitempty"`
}

func initializerFromAST(init ast.Initializer) initializerDTO {
	switch n := init.(type) {
	case *ast.ExprInitializer:
		x := exprFromAST(n.X)
		return initializerDTO{Kind: "expr", X: &x}
	case *ast.InitializerList:
		dto := initializerDTO{Kind: "list"}
		for _, item := range n.Elems {
			it := initItemDTO{Init: initializerFromAST(item.Init)}
			for _, desg := range item.Designators {
				switch d := desg.(type) {
				case *ast.FieldDesignator:
					it.Designators = append(it.Designators, designatorDTO{Kind: "field", Name: d.Name})
				case *ast.IndexDesignator:
					idx := exprFromAST(d.Index)
					it.Designators = append(it.Designators, designatorDTO{Kind: "index", Index: &idx})
				}
			}
			dto.Elems = append(dto.Elems, it)
		}
		return dto
	default:
		return initializerDTO{Kind: "invalid"}
	}
}

func initializerFromASTPtr(init *ast.InitializerList) *initializerDTO {
	if init == nil {
		return nil
	}
	dto := initializerFromAST(init)
	return &dto
}

func (d initializerDTO) toAST() (ast.Initializer, error) {
	switch d.Kind {
	case "expr":
		x, err := d.X.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.ExprInitializer{X: x}, nil
	case "list":
		list := &ast.InitializerList{}
		for _, it := range d.Elems {
			item := &ast.InitItem{}
			inner, err := it.Init.toAST()
			if err != nil {
				return nil, err
			}
			item.Init = inner
			for _, desg := range it.Designators {
				switch desg.Kind {
				case "field":
					item.Designators = append(item.Designators, &ast.FieldDesignator{Name: desg.Name})
				case "index":
					idx, err := desg.Index.toAST()
					if err != nil {
						return nil, err
					}
					item.Designators = append(item.Designators, &ast.IndexDesignator{Index: idx})
				}
			}
			list.Elems = append(list.Elems, item)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("astjson: unknown initializer kind %q", d.Kind)
	}
}

func (d *initializerDTO) toASTPtr() (*ast.InitializerList, error) {
	if d == nil {
		return nil, nil
	}
	v, err := d.toAST()
	if err != nil {
		return nil, err
	}
	list, _ := v.(*ast.InitializerList)
	return list, nil
}

// --- statement / block-item sum types ---

type stmtDTO struct {
	Kind  string        `json:"kind"`
	Items []blockItemDTO `json:"items,omitempty"`

	X Expr1 `json:"x,omitempty"`

	Label string   `json:"label,omitempty"`
	Stmt  *stmtDTO `json:"stmt,omitempty"`

	Cond *exprDTO `json:"cond,omitempty"`
	Then *stmtDTO `json:"then,omitempty"`
	Else *stmtDTO `json:"else,omitempty"`
	Body *stmtDTO `json:"body,omitempty"`

	Init *blockItemDTO `json:"init,omitempty"`
	Post *exprDTO      `json:"post,omitempty"`

	Value *exprDTO `json:"value,omitempty"`
}

// Expr1 is an alias for *exprDTO; with omitempty, a nil expression is
// omitted from the JSON instead of being written as a literal null.
type Expr1 = *exprDTO

type blockItemDTO struct {
	Decl *declDTO `json:"decl,omitempty"`
	Stmt *stmtDTO `json:"stmt,omitempty"`
}

func blockItemFromAST(b ast.BlockItem) blockItemDTO {
	switch n := b.(type) {
	case *ast.Decl:
		d := declFromAST(n)
		return blockItemDTO{Decl: &d}
	default:
		s, ok := b.(ast.Stmt)
		if !ok {
			return blockItemDTO{}
		}
		st := stmtFromAST(s)
		return blockItemDTO{Stmt: &st}
	}
}

func (b blockItemDTO) toAST() (ast.BlockItem, error) {
	if b.Decl != nil {
		return b.Decl.toAST()
	}
	if b.Stmt != nil {
		s, err := b.Stmt.toAST()
		if err != nil {
			return nil, err
		}
		return ast.WrapStmt(s), nil
	}
	return nil, nil
}

func stmtFromAST(s ast.Stmt) stmtDTO {
	switch n := s.(type) {
	case *ast.CompoundStmt:
		dto := stmtDTO{Kind: "compound"}
		for _, item := range n.Items {
			dto.Items = append(dto.Items, blockItemFromAST(item))
		}
		return dto
	case *ast.ExprStmt:
		dto := stmtDTO{Kind: "exprStmt"}
		if n.X != nil {
			x := exprFromAST(n.X)
			dto.X = &x
		}
		return dto
	case *ast.LabeledStmt:
		inner := stmtFromAST(n.Stmt)
		return stmtDTO{Kind: "labeled", Label: n.Label, Stmt: &inner}
	case *ast.GotoStmt:
		return stmtDTO{Kind: "goto", Label: n.Label}
	case *ast.BreakStmt:
		return stmtDTO{Kind: "break"}
	case *ast.ContinueStmt:
		return stmtDTO{Kind: "continue"}
	case *ast.ReturnStmt:
		dto := stmtDTO{Kind: "return"}
		if n.X != nil {
			x := exprFromAST(n.X)
			dto.Value = &x
		}
		return dto
	case *ast.IfStmt:
		cond := exprFromAST(n.Cond)
		then := stmtFromAST(n.Then)
		dto := stmtDTO{Kind: "if", Cond: &cond, Then: &then}
		if n.Else != nil {
			els := stmtFromAST(n.Else)
			dto.Else = &els
		}
		return dto
	case *ast.WhileStmt:
		cond := exprFromAST(n.Cond)
		body := stmtFromAST(n.Body)
		return stmtDTO{Kind: "while", Cond: &cond, Body: &body}
	case *ast.DoWhileStmt:
		cond := exprFromAST(n.Cond)
		body := stmtFromAST(n.Body)
		return stmtDTO{Kind: "doWhile", Cond: &cond, Body: &body}
	case *ast.ForStmt:
		body := stmtFromAST(n.Body)
		dto := stmtDTO{Kind: "for", Body: &body}
		if n.Init != nil {
			init := blockItemFromAST(n.Init)
			dto.Init = &init
		}
		if n.Cond != nil {
			c := exprFromAST(n.Cond)
			dto.Cond = &c
		}
		if n.Post != nil {
			p := exprFromAST(n.Post)
			dto.Post = &p
		}
		return dto
	case *ast.SwitchStmt:
		x := exprFromAST(n.X)
		body := stmtFromAST(n.Body)
		return stmtDTO{Kind: "switch", X: &x, Body: &body}
	case *ast.CaseStmt:
		value := exprFromAST(n.Value)
		stmt := stmtFromAST(n.Stmt)
		return stmtDTO{Kind: "case", Value: &value, Stmt: &stmt}
	case *ast.DefaultStmt:
		stmt := stmtFromAST(n.Stmt)
		return stmtDTO{Kind: "default", Stmt: &stmt}
	default:
		return stmtDTO{Kind: "invalid"}
	}
}

func (d *stmtDTO) toAST() (ast.Stmt, error) {
	if d == nil {
		return nil, nil
	}
	switch d.Kind {
	case "compound":
		cs := &ast.CompoundStmt{}
		for _, item := range d.Items {
			it, err := item.toAST()
			if err != nil {
				return nil, err
			}
			cs.Items = append(cs.Items, it)
		}
		return cs, nil
	case "exprStmt":
		x, err := d.X.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{X: x}, nil
	case "labeled":
		inner, err := d.Stmt.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.LabeledStmt{Label: d.Label, Stmt: inner}, nil
	case "goto":
		return &ast.GotoStmt{Label: d.Label}, nil
	case "break":
		return &ast.BreakStmt{}, nil
	case "continue":
		return &ast.ContinueStmt{}, nil
	case "return":
		x, err := d.Value.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{X: x}, nil
	case "if":
		cond, err := d.Cond.toAST()
		if err != nil {
			return nil, err
		}
		then, err := d.Then.toAST()
		if err != nil {
			return nil, err
		}
		els, err := d.Else.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.IfStmt{Cond: cond, Then: then, Else: els}, nil
	case "while":
		cond, err := d.Cond.toAST()
		if err != nil {
			return nil, err
		}
		body, err := d.Body.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.WhileStmt{Cond: cond, Body: body}, nil
	case "doWhile":
		cond, err := d.Cond.toAST()
		if err != nil {
			return nil, err
		}
		body, err := d.Body.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.DoWhileStmt{Cond: cond, Body: body}, nil
	case "for":
		var init ast.BlockItem
		var err error
		if d.Init != nil {
			init, err = d.Init.toAST()
			if err != nil {
				return nil, err
			}
		}
		cond, err := d.Cond.toAST()
		if err != nil {
			return nil, err
		}
		post, err := d.Post.toAST()
		if err != nil {
			return nil, err
		}
		body, err := d.Body.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.ForStmt{Init: init, Cond: cond, Post: post, Body: body}, nil
	case "switch":
		x, err := d.X.toAST()
		if err != nil {
			return nil, err
		}
		body, err := d.Body.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.SwitchStmt{X: x, Body: body}, nil
	case "case":
		value, err := d.Value.toAST()
		if err != nil {
			return nil, err
		}
		stmt, err := d.Stmt.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.CaseStmt{Value: value, Stmt: stmt}, nil
	case "default":
		stmt, err := d.Stmt.toAST()
		if err != nil {
			return nil, err
		}
		return &ast.DefaultStmt{Stmt: stmt}, nil
	default:
		return nil, fmt.Errorf("astjson: unknown stmt kind %q", d.Kind)
	}
}

// --- external declaration sum type ---

type externalDeclDTO struct {
	Kind string   `json:"kind"`
	Def  *funcDefDTO `json:"def,omitempty"`
	Decl *declDTO    `json:"decl,omitempty"`
}

type funcDefDTO struct {
	Specs      declSpecsDTO  `json:"specs"`
	Declarator declaratorDTO `json:"declarator"`
	Body       stmtDTO       `json:"body"`
}

type declDTO struct {
	Specs           declSpecsDTO       `json:"specs"`
	InitDeclarators []initDeclaratorDTO `json:"initDeclarators,omitempty"`
}

type initDeclaratorDTO struct {
	Declarator declaratorDTO   `json:"declarator"`
	Init       *initializerDTO `json:"init,omitempty"`
}

func declFromAST(n *ast.Decl) declDTO {
	dto := declDTO{Specs: declSpecsFromAST(n.Specs)}
	for _, id := range n.InitDeclarators {
		idto := initDeclaratorDTO{Declarator: declaratorFromAST(id.Declarator)}
		if id.Init != nil {
			init := initializerFromAST(id.Init)
			idto.Init = &init
		}
		dto.InitDeclarators = append(dto.InitDeclarators, idto)
	}
	return dto
}

func (d declDTO) toAST() (*ast.Decl, error) {
	specs, err := d.Specs.toAST()
	if err != nil {
		return nil, err
	}
	decl := &ast.Decl{Specs: specs}
	for _, idto := range d.InitDeclarators {
		declarator, err := idto.Declarator.toAST()
		if err != nil {
			return nil, err
		}
		id := &ast.InitDeclarator{Declarator: declarator}
		if idto.Init != nil {
			init, err := idto.Init.toAST()
			if err != nil {
				return nil, err
			}
			id.Init = init
		}
		decl.InitDeclarators = append(decl.InitDeclarators, id)
	}
	return decl, nil
}

func externalDeclFromAST(d ast.ExternalDecl) externalDeclDTO {
	switch n := d.(type) {
	case *ast.FuncDef:
		body := stmtFromAST(n.Body)
		return externalDeclDTO{Kind: "funcDef", Def: &funcDefDTO{
			Specs: declSpecsFromAST(n.Specs), Declarator: declaratorFromAST(n.Declarator), Body: body,
		}}
	case *ast.Decl:
		decl := declFromAST(n)
		return externalDeclDTO{Kind: "decl", Decl: &decl}
	default:
		return externalDeclDTO{Kind: "invalid"}
	}
}

func (d externalDeclDTO) toAST() (ast.ExternalDecl, error) {
	switch d.Kind {
	case "funcDef":
		specs, err := d.Def.Specs.toAST()
		if err != nil {
			return nil, err
		}
		declarator, err := d.Def.Declarator.toAST()
		if err != nil {
			return nil, err
		}
		body, err := d.Def.Body.toAST()
		if err != nil {
			return nil, err
		}
		compound, _ := body.(*ast.CompoundStmt)
		return &ast.FuncDef{Specs: specs, Declarator: declarator, Body: compound}, nil
	case "decl":
		return d.Decl.toAST()
	default:
		return nil, fmt.Errorf("astjson: unknown external decl kind %q", d.Kind)
	}
}
