package semantic

import (
	"github.com/go-cc/irgen/internal/ast"
	"github.com/go-cc/irgen/internal/errors"
	"github.com/go-cc/irgen/internal/ir"
	"github.com/go-cc/irgen/internal/types"
)

// Resolve converts a decl-specifier list plus a declarator tree into a
// (name, CType) pair (spec.md section 4.3). Storage class and the
// `inline` function specifier are carried in specs for the caller (the
// Top-Level Driver) to act on; this function only computes the type.
func (l *Lowerer) Resolve(specs ast.DeclSpecs, d ast.Declarator) (string, *types.CType, error) {
	base, err := l.baseType(specs)
	if err != nil {
		return "", nil, err
	}
	if d == nil {
		return "", base, nil
	}
	return l.resolveDeclarator(d, base)
}

// ResolveTypeName resolves a standalone type name (cast target,
// sizeof(T), compound literal type): a decl-specifier list plus an
// optional abstract (unnamed) declarator.
func (l *Lowerer) ResolveTypeName(tn *ast.TypeName) (*types.CType, error) {
	base, err := l.baseType(tn.Specs)
	if err != nil {
		return nil, err
	}
	if tn.Declarator == nil {
		return base, nil
	}
	_, ct, err := l.resolveDeclarator(tn.Declarator, base)
	return ct, err
}

// baseType computes the type-specifier portion of specs via the type
// environment: a struct/union/enum definition or reference, a typedef
// name, or a built-in keyword sequence.
func (l *Lowerer) baseType(specs ast.DeclSpecs) (*types.CType, error) {
	switch {
	case specs.Struct != nil:
		return l.resolveAggregateSpec(specs.Struct, false)
	case specs.Union != nil:
		return l.resolveAggregateSpec(specs.Union, true)
	case specs.Enum != nil:
		return l.resolveEnumSpec(specs.Enum)
	case specs.TypedefRef != "":
		t, ok := l.Types.LookupTypedef(specs.TypedefRef)
		if !ok {
			return nil, l.errAt(specs.P, errors.UnknownIdentifier, "unknown typedef name %q", specs.TypedefRef)
		}
		return t, nil
	default:
		t, ok := l.Types.NamedTypeSpecifier(specs.Keywords)
		if !ok {
			return nil, l.errAt(specs.P, errors.UnsupportedConstruct, "unrecognized type-specifier sequence %v", specs.Keywords)
		}
		return t, nil
	}
}

// resolveDeclarator folds the declarator from outside in (spec.md
// section 4.3): each layer transforms the "type so far" (base), then
// recurses toward the identifier carrying the transformed type as the
// new base. A Paren layer is a no-op pass-through -- it exists only to
// let array/function suffixes outside the parens bind to whatever is
// inside them (`int (*a)[3]` vs `int *a[3]`), and the fold above
// naturally produces the right composition for both because the
// transform happens before the recursive call, not after.
func (l *Lowerer) resolveDeclarator(d ast.Declarator, base *types.CType) (string, *types.CType, error) {
	switch n := d.(type) {
	case *ast.IdentDeclarator:
		return n.Name, base, nil

	case *ast.PointerDeclarator:
		return l.resolveDeclarator(n.Inner, l.Types.Pointer(base))

	case *ast.ParenDeclarator:
		return l.resolveDeclarator(n.Inner, base)

	case *ast.ArrayDeclarator:
		var length *int
		if n.Len != nil {
			v, _, err := l.EvalConstInt(n.Len)
			if err != nil {
				return "", nil, err
			}
			iv := int(v)
			length = &iv
		}
		return l.resolveDeclarator(n.Inner, l.Types.ArrayOf(base, length))

	case *ast.FuncDeclarator:
		var params []*types.CType
		if !n.VoidOnly {
			params = make([]*types.CType, 0, len(n.Params))
			for _, p := range n.Params {
				_, pt, err := l.resolveParam(p)
				if err != nil {
					return "", nil, err
				}
				params = append(params, pt)
			}
		}
		fn := l.Types.FuncType(base, params, n.Variadic)
		return l.resolveDeclarator(n.Inner, fn)

	default:
		return "", nil, l.errAt(d.Pos(), errors.UnsupportedConstruct, "unsupported declarator form")
	}
}

// resolveParam resolves one function parameter, decaying an array
// parameter type to pointer-to-element (spec.md section 4.3's parameter
// adjustment).
func (l *Lowerer) resolveParam(p *ast.ParamDecl) (string, *types.CType, error) {
	base, err := l.baseType(p.Specs)
	if err != nil {
		return "", nil, err
	}
	var name string
	ct := base
	if p.Declarator != nil {
		name, ct, err = l.resolveDeclarator(p.Declarator, base)
		if err != nil {
			return "", nil, err
		}
	}
	if ct.IsArray() {
		ct = l.Types.Pointer(ct.Elem)
	} else if ct.IsFunction() {
		ct = l.Types.Pointer(ct)
	}
	return name, ct, nil
}

func (l *Lowerer) resolveAggregateSpec(spec *ast.StructSpec, isUnion bool) (*types.CType, error) {
	if !spec.Defined {
		if isUnion {
			return l.Types.LookupOrForwardDeclareUnion(spec.Tag), nil
		}
		return l.Types.LookupOrForwardDeclareStruct(spec.Tag), nil
	}

	var fields []types.Field
	for _, fd := range spec.Fields {
		ft, err := l.baseType(fd.Specs)
		if err != nil {
			return nil, err
		}
		for _, decl := range fd.Declarators {
			name, ct, err := l.resolveDeclarator(decl, ft)
			if err != nil {
				return nil, err
			}
			fields = append(fields, types.Field{Name: name, Type: ct})
		}
	}

	var ct *types.CType
	var err error
	if isUnion {
		ct, err = l.Types.DefineUnion(spec.Tag, fields, spec.Packed)
	} else {
		ct, err = l.Types.DefineStruct(spec.Tag, fields, spec.Packed)
	}
	if err != nil {
		return nil, l.errAt(spec.Pos(), errors.TypeMismatch, "%s", err.Error())
	}
	return ct, nil
}

func (l *Lowerer) resolveEnumSpec(spec *ast.EnumSpec) (*types.CType, error) {
	if !spec.Defined {
		if t, ok := l.Types.LookupEnumTag(spec.Tag); ok {
			return t, nil
		}
		return nil, l.errAt(spec.Pos(), errors.UnknownIdentifier, "enum %q has not been defined", spec.Tag)
	}

	specs := make([]types.EnumeratorSpec, len(spec.Enumerators))
	for i, en := range spec.Enumerators {
		s := types.EnumeratorSpec{Name: en.Name}
		if en.Value != nil {
			v, _, err := l.EvalConstInt(en.Value)
			if err != nil {
				return nil, err
			}
			s.Explicit = &v
		}
		specs[i] = s
	}
	ct, consts := l.Types.DefineEnum(spec.Tag, specs)
	for _, c := range consts {
		l.scope.Define(&Binding{
			Name:     c.Name,
			Constant: true,
			Term:     Term{Type: ct, Value: &ir.ConstInt{Ty: ct.IR, Val: c.Value}},
		})
	}
	return ct, nil
}
