package semantic

import (
	"github.com/go-cc/irgen/internal/ast"
	"github.com/go-cc/irgen/internal/errors"
	"github.com/go-cc/irgen/internal/ir"
	"github.com/go-cc/irgen/internal/types"
)

// initializeLocal compiles init against the object at addr (spec.md
// section 4.4): a scalar `= expr`, a char array from a bare string
// literal, or a brace-enclosed list with designators. When the
// brace-enclosed form does not cover every leaf, the whole object is
// zeroed with one `memset` call before the per-leaf stores, per spec.md's
// emission rule for a runtime (non-static) initializer.
func (l *Lowerer) initializeLocal(addr ir.Value, ct *types.CType, init ast.Initializer) error {
	return l.initAny(addr, ct, init)
}

func (l *Lowerer) initAny(addr ir.Value, ct *types.CType, init ast.Initializer) error {
	switch in := init.(type) {
	case *ast.ExprInitializer:
		return l.initFromExpr(addr, ct, in.X)
	case *ast.InitializerList:
		return l.initCompound(addr, ct, in.Elems)
	default:
		return l.errAt(init.Pos(), errors.UnsupportedConstruct, "unsupported initializer form")
	}
}

func (l *Lowerer) initFromExpr(addr ir.Value, ct *types.CType, expr ast.Expr) error {
	if ct.IsArray() && ct.Elem == l.Types.Char {
		if sl, ok := expr.(*ast.StringLit); ok {
			return l.initCharArrayFromString(addr, ct, sl)
		}
	}
	t, err := l.lowerExpr(expr, RValue)
	if err != nil {
		return err
	}
	if ct.IsAggregate() {
		l.emitMemcpy(addr, t.Value, ct)
		return nil
	}
	l.B.Store(addr, l.convert(t.Value, t.Type, ct))
	return nil
}

// initCharArrayFromString handles `char buf[...] = "text"`, inferring
// ct's length from the string (plus its implicit NUL) when ct was
// written with no size, same as a brace-enclosed array initializer's
// size inference.
func (l *Lowerer) initCharArrayFromString(addr ir.Value, ct *types.CType, sl *ast.StringLit) error {
	n := len(sl.Value) + 1
	if ct.Length == nil {
		l.Types.SetArrayLength(ct, n)
	}
	total := *ct.Length
	elems := make([]ir.Value, total)
	for i := 0; i < total; i++ {
		if i < len(sl.Value) {
			elems[i] = &ir.ConstInt{Ty: ir.I8, Val: int64(sl.Value[i])}
		} else {
			elems[i] = &ir.ConstInt{Ty: ir.I8, Val: 0}
		}
	}
	l.B.Store(addr, &ir.ConstArray{Ty: ct.IR, Elems: elems})
	return nil
}

func (l *Lowerer) initCompound(addr ir.Value, ct *types.CType, items []*ast.InitItem) error {
	switch ct.Kind {
	case types.KArray:
		return l.initArrayCompound(addr, ct, items)
	case types.KStruct:
		return l.initStructCompound(addr, ct, items)
	case types.KUnion:
		return l.initUnionCompound(addr, ct, items)
	default:
		if len(items) == 1 && len(items[0].Designators) == 0 {
			return l.initAggregateItem(addr, ct, items[0], 1)
		}
		return l.errAt(items[0].Pos(), errors.UnsupportedConstruct, "braced initializer not valid for this type")
	}
}

// initAggregateItem resolves the remainder of item's designator chain
// starting at desigStart, recursing through nested field/index
// designators (`.pos[2].x = 5`), and falls back to item's plain
// initializer once the chain is exhausted.
func (l *Lowerer) initAggregateItem(addr ir.Value, ct *types.CType, item *ast.InitItem, desigStart int) error {
	if desigStart >= len(item.Designators) {
		return l.initAny(addr, ct, item.Init)
	}
	switch d := item.Designators[desigStart].(type) {
	case *ast.FieldDesignator:
		if ct.Kind != types.KStruct && ct.Kind != types.KUnion {
			return l.errAt(d.Pos(), errors.TypeMismatch, "field designator on a non-aggregate type")
		}
		idx := ct.FieldIndex(d.Name)
		if idx < 0 {
			return l.errAt(d.Pos(), errors.UnknownIdentifier, "no member named %q", d.Name)
		}
		field := ct.Fields[idx]
		fieldAddr := l.B.Field(addr, idx, field.Type.IR)
		return l.initAggregateItem(fieldAddr, field.Type, item, desigStart+1)
	case *ast.IndexDesignator:
		if !ct.IsArray() {
			return l.errAt(d.Pos(), errors.TypeMismatch, "index designator on a non-array type")
		}
		v, _, err := l.EvalConstInt(d.Index)
		if err != nil {
			return err
		}
		elemAddr := l.B.Field(addr, int(v), ct.Elem.IR)
		return l.initAggregateItem(elemAddr, ct.Elem, item, desigStart+1)
	default:
		return l.errAt(item.Pos(), errors.UnsupportedConstruct, "unsupported designator")
	}
}

func (l *Lowerer) initArrayCompound(addr ir.Value, ct *types.CType, items []*ast.InitItem) error {
	covered, maxIndex, err := l.arrayCoverage(items)
	if err != nil {
		return err
	}
	if ct.Length == nil {
		l.Types.SetArrayLength(ct, maxIndex+1)
	}
	total := *ct.Length
	if len(covered) < total {
		l.emitMemset(addr, ct)
	}
	for i := 0; i < total; i++ {
		item, ok := covered[i]
		if !ok {
			continue
		}
		elemAddr := l.B.Field(addr, i, ct.Elem.IR)
		if err := l.initAggregateItem(elemAddr, ct.Elem, item, 1); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lowerer) initStructCompound(addr ir.Value, ct *types.CType, items []*ast.InitItem) error {
	covered, err := l.fieldCoverage(ct, items)
	if err != nil {
		return err
	}
	if len(covered) < len(ct.Fields) {
		l.emitMemset(addr, ct)
	}
	for i, f := range ct.Fields {
		item, ok := covered[i]
		if !ok {
			continue
		}
		fieldAddr := l.B.Field(addr, i, f.Type.IR)
		if err := l.initAggregateItem(fieldAddr, f.Type, item, 1); err != nil {
			return err
		}
	}
	return nil
}

// initUnionCompound zero-fills the whole union then initializes its one
// active member (the first designator-or-positional item): overlapping
// storage means only one member is ever live at a time.
func (l *Lowerer) initUnionCompound(addr ir.Value, ct *types.CType, items []*ast.InitItem) error {
	l.B.Store(addr, &ir.ConstZero{Ty: ct.IR})
	if len(items) == 0 {
		return nil
	}
	item := items[0]
	idx := 0
	if len(item.Designators) > 0 {
		fd, ok := item.Designators[0].(*ast.FieldDesignator)
		if !ok {
			return l.errAt(item.Pos(), errors.UnsupportedConstruct, "expected a field designator")
		}
		idx = ct.FieldIndex(fd.Name)
		if idx < 0 {
			return l.errAt(item.Pos(), errors.UnknownIdentifier, "no member named %q", fd.Name)
		}
	}
	field := ct.Fields[idx]
	fieldAddr := l.B.Field(addr, idx, field.Type.IR)
	return l.initAggregateItem(fieldAddr, field.Type, item, 1)
}

func (l *Lowerer) arrayCoverage(items []*ast.InitItem) (map[int]*ast.InitItem, int, error) {
	covered := map[int]*ast.InitItem{}
	cursor, maxIndex := 0, -1
	for _, item := range items {
		idx := cursor
		if len(item.Designators) > 0 {
			id, ok := item.Designators[0].(*ast.IndexDesignator)
			if !ok {
				return nil, 0, l.errAt(item.Pos(), errors.UnsupportedConstruct, "expected an array index designator")
			}
			v, _, err := l.EvalConstInt(id.Index)
			if err != nil {
				return nil, 0, err
			}
			idx = int(v)
		}
		covered[idx] = item
		if idx > maxIndex {
			maxIndex = idx
		}
		cursor = idx + 1
	}
	return covered, maxIndex, nil
}

func (l *Lowerer) fieldCoverage(ct *types.CType, items []*ast.InitItem) (map[int]*ast.InitItem, error) {
	covered := map[int]*ast.InitItem{}
	cursor := 0
	for _, item := range items {
		idx := cursor
		if len(item.Designators) > 0 {
			fd, ok := item.Designators[0].(*ast.FieldDesignator)
			if !ok {
				return nil, l.errAt(item.Pos(), errors.UnsupportedConstruct, "expected a field designator")
			}
			idx = ct.FieldIndex(fd.Name)
			if idx < 0 {
				return nil, l.errAt(item.Pos(), errors.UnknownIdentifier, "no member named %q", fd.Name)
			}
		}
		covered[idx] = item
		cursor = idx + 1
	}
	return covered, nil
}

// --- static initializers: same shape, but folds to an ir.Value tree
// with no instructions, for a file-scope or `static` object's Global.Init
// (spec.md section 4.7). ---

func (l *Lowerer) staticInitValue(ct *types.CType, init ast.Initializer) (ir.Value, error) {
	switch in := init.(type) {
	case *ast.ExprInitializer:
		if ct.IsArray() && ct.Elem == l.Types.Char {
			if sl, ok := in.X.(*ast.StringLit); ok {
				return l.staticCharArrayFromString(ct, sl)
			}
		}
		v, t, err := l.EvalConst(in.X)
		if err != nil {
			return nil, err
		}
		return l.convertConst(v, t, ct), nil
	case *ast.InitializerList:
		return l.staticCompound(ct, in.Elems)
	default:
		return nil, l.errAt(init.Pos(), errors.UnsupportedConstruct, "unsupported initializer form")
	}
}

func (l *Lowerer) convertConst(v ir.Value, from, to *types.CType) ir.Value {
	if ci, ok := v.(*ir.ConstInt); ok && (to.IsInteger() || to.IsPointer()) {
		return &ir.ConstInt{Ty: to.IR, Val: ci.Val}
	}
	return v
}

func (l *Lowerer) staticCharArrayFromString(ct *types.CType, sl *ast.StringLit) (ir.Value, error) {
	n := len(sl.Value) + 1
	if ct.Length == nil {
		l.Types.SetArrayLength(ct, n)
	}
	total := *ct.Length
	elems := make([]ir.Value, total)
	for i := 0; i < total; i++ {
		if i < len(sl.Value) {
			elems[i] = &ir.ConstInt{Ty: ir.I8, Val: int64(sl.Value[i])}
		} else {
			elems[i] = &ir.ConstInt{Ty: ir.I8, Val: 0}
		}
	}
	return &ir.ConstArray{Ty: ct.IR, Elems: elems}, nil
}

func (l *Lowerer) staticCompound(ct *types.CType, items []*ast.InitItem) (ir.Value, error) {
	switch ct.Kind {
	case types.KArray:
		return l.staticArrayCompound(ct, items)
	case types.KStruct:
		return l.staticStructCompound(ct, items)
	case types.KUnion:
		return l.staticUnionCompound(ct, items)
	default:
		if len(items) == 1 && len(items[0].Designators) == 0 {
			return l.staticAggregateItem(ct, items[0], 1)
		}
		return nil, l.errAt(items[0].Pos(), errors.UnsupportedConstruct, "braced initializer not valid for this type")
	}
}

func (l *Lowerer) staticAggregateItem(ct *types.CType, item *ast.InitItem, desigStart int) (ir.Value, error) {
	if desigStart >= len(item.Designators) {
		return l.staticInitValue(ct, item.Init)
	}
	switch d := item.Designators[desigStart].(type) {
	case *ast.FieldDesignator:
		if ct.Kind != types.KStruct && ct.Kind != types.KUnion {
			return nil, l.errAt(d.Pos(), errors.TypeMismatch, "field designator on a non-aggregate type")
		}
		idx := ct.FieldIndex(d.Name)
		if idx < 0 {
			return nil, l.errAt(d.Pos(), errors.UnknownIdentifier, "no member named %q", d.Name)
		}
		return l.staticAggregateItem(ct.Fields[idx].Type, item, desigStart+1)
	case *ast.IndexDesignator:
		if !ct.IsArray() {
			return nil, l.errAt(d.Pos(), errors.TypeMismatch, "index designator on a non-array type")
		}
		return l.staticAggregateItem(ct.Elem, item, desigStart+1)
	default:
		return nil, l.errAt(item.Pos(), errors.UnsupportedConstruct, "unsupported designator")
	}
}

func (l *Lowerer) staticArrayCompound(ct *types.CType, items []*ast.InitItem) (ir.Value, error) {
	covered, maxIndex, err := l.arrayCoverage(items)
	if err != nil {
		return nil, err
	}
	if ct.Length == nil {
		l.Types.SetArrayLength(ct, maxIndex+1)
	}
	total := *ct.Length
	elems := make([]ir.Value, total)
	for i := 0; i < total; i++ {
		if item, ok := covered[i]; ok {
			v, err := l.staticAggregateItem(ct.Elem, item, 1)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		} else {
			elems[i] = &ir.ConstZero{Ty: ct.Elem.IR}
		}
	}
	return &ir.ConstArray{Ty: ct.IR, Elems: elems}, nil
}

func (l *Lowerer) staticStructCompound(ct *types.CType, items []*ast.InitItem) (ir.Value, error) {
	covered, err := l.fieldCoverage(ct, items)
	if err != nil {
		return nil, err
	}
	fields := make([]ir.Value, len(ct.Fields))
	for i, f := range ct.Fields {
		if item, ok := covered[i]; ok {
			v, err := l.staticAggregateItem(f.Type, item, 1)
			if err != nil {
				return nil, err
			}
			fields[i] = v
		} else {
			fields[i] = &ir.ConstZero{Ty: f.Type.IR}
		}
	}
	return &ir.ConstStruct{Ty: ct.IR, Fields: fields}, nil
}

// staticUnionCompound models only the union's active member; the IR's
// struct-shaped backing type has no concept of overlapping storage
// (internal/ir/types.go has no distinct union Kind), so the remaining
// slots are left at ConstZero the same as an uncovered struct field.
func (l *Lowerer) staticUnionCompound(ct *types.CType, items []*ast.InitItem) (ir.Value, error) {
	fields := make([]ir.Value, len(ct.Fields))
	for i, f := range ct.Fields {
		fields[i] = &ir.ConstZero{Ty: f.Type.IR}
	}
	if len(items) == 0 {
		return &ir.ConstStruct{Ty: ct.IR, Fields: fields}, nil
	}
	item := items[0]
	idx := 0
	if len(item.Designators) > 0 {
		fd, ok := item.Designators[0].(*ast.FieldDesignator)
		if !ok {
			return nil, l.errAt(item.Pos(), errors.UnsupportedConstruct, "expected a field designator")
		}
		idx = ct.FieldIndex(fd.Name)
		if idx < 0 {
			return nil, l.errAt(item.Pos(), errors.UnknownIdentifier, "no member named %q", fd.Name)
		}
	}
	v, err := l.staticAggregateItem(ct.Fields[idx].Type, item, 1)
	if err != nil {
		return nil, err
	}
	fields[idx] = v
	return &ir.ConstStruct{Ty: ct.IR, Fields: fields}, nil
}
