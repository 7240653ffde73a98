package types

import "testing"

func TestPointerCanonicalization(t *testing.T) {
	e := NewEnv()
	p1 := e.Pointer(e.Int)
	p2 := e.Pointer(e.Int)
	if p1 != p2 {
		t.Fatalf("pointer-to-int not canonicalized: %p != %p", p1, p2)
	}
	p3 := e.Pointer(e.Char)
	if p3 == p1 {
		t.Fatalf("pointer-to-char aliased pointer-to-int")
	}
}

func TestNamedTypeSpecifier(t *testing.T) {
	e := NewEnv()
	tests := []struct {
		kws  []string
		want *CType
	}{
		{[]string{"void"}, e.Void},
		{[]string{"char"}, e.Char},
		{[]string{"signed", "char"}, e.SChar},
		{[]string{"unsigned", "char"}, e.UChar},
		{[]string{"short"}, e.Short},
		{[]string{"short", "int"}, e.Short},
		{[]string{"unsigned", "short"}, e.UShort},
		{[]string{"int"}, e.Int},
		{[]string{"signed"}, e.Int},
		{[]string{"signed", "int"}, e.Int},
		{[]string{"unsigned"}, e.UInt},
		{[]string{"unsigned", "int"}, e.UInt},
		{[]string{"long"}, e.Long},
		{[]string{"long", "int"}, e.Long},
		{[]string{"unsigned", "long"}, e.ULong},
		{[]string{"long", "long"}, e.LLong},
		{[]string{"long", "long", "int"}, e.LLong},
		{[]string{"unsigned", "long", "long"}, e.ULLong},
	}
	for _, tt := range tests {
		got, ok := e.NamedTypeSpecifier(tt.kws)
		if !ok || got != tt.want {
			t.Errorf("NamedTypeSpecifier(%v) = %v, %v; want %v", tt.kws, got, ok, tt.want)
		}
	}
}

func TestArrayOfArrayFlattensMirrorIRType(t *testing.T) {
	e := NewEnv()
	three := 3
	five := 5
	inner := e.ArrayOf(e.Int, &three)
	outer := e.ArrayOf(inner, &five)
	if outer.IR.Length != 15 {
		t.Fatalf("flattened IR array length = %d, want 15", outer.IR.Length)
	}
	if !outer.IR.Elem.Equal(e.Int.IR) {
		t.Fatalf("flattened IR element = %v, want int", outer.IR.Elem)
	}
}

func TestStructLayoutIdempotentAndPadding(t *testing.T) {
	e := NewEnv()
	fields := []Field{
		{Name: "a", Type: e.Char},
		{Name: "b", Type: e.Int},
		{Name: "c", Type: e.Char},
	}
	t1, err := e.DefineStruct("S1", append([]Field(nil), fields...), false)
	if err != nil {
		t.Fatal(err)
	}
	e2 := NewEnv()
	fields2 := []Field{
		{Name: "a", Type: e2.Char},
		{Name: "b", Type: e2.Int},
		{Name: "c", Type: e2.Char},
	}
	t2, err := e2.DefineStruct("S1", fields2, false)
	if err != nil {
		t.Fatal(err)
	}
	if t1.Size != t2.Size || t1.Align != t2.Align {
		t.Fatalf("layout not idempotent: %d/%d vs %d/%d", t1.Size, t1.Align, t2.Size, t2.Align)
	}
	if t1.Fields[1].Offset != 4 {
		t.Fatalf("field b offset = %d, want 4 (padding after char a)", t1.Fields[1].Offset)
	}
	if t1.Size != 12 {
		t.Fatalf("struct size = %d, want 12", t1.Size)
	}
}

func TestPackedStructHasNoPadding(t *testing.T) {
	e := NewEnv()
	fields := []Field{
		{Name: "a", Type: e.Char},
		{Name: "b", Type: e.Int},
	}
	t1, err := e.DefineStruct("Packed", fields, true)
	if err != nil {
		t.Fatal(err)
	}
	if t1.Align != 1 {
		t.Fatalf("packed struct align = %d, want 1", t1.Align)
	}
	if t1.Fields[1].Offset != 1 {
		t.Fatalf("packed field b offset = %d, want 1 (no padding)", t1.Fields[1].Offset)
	}
	if t1.Size != 5 {
		t.Fatalf("packed struct size = %d, want 5", t1.Size)
	}
}

func TestUnionLayout(t *testing.T) {
	e := NewEnv()
	fields := []Field{
		{Name: "i", Type: e.Int},
		{Name: "c", Type: e.Char},
	}
	u, err := e.DefineUnion("U", fields, false)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range u.Fields {
		if f.Offset != 0 {
			t.Fatalf("union field %s offset = %d, want 0", f.Name, f.Offset)
		}
	}
	if u.Size != 4 {
		t.Fatalf("union size = %d, want 4", u.Size)
	}
}

func TestStructRedefinitionErrors(t *testing.T) {
	e := NewEnv()
	fields := []Field{{Name: "a", Type: e.Int}}
	if _, err := e.DefineStruct("S", fields, false); err != nil {
		t.Fatal(err)
	}
	if _, err := e.DefineStruct("S", fields, false); err == nil {
		t.Fatal("expected redefinition error")
	}
}

func TestDefineEnumSequentialAndExplicit(t *testing.T) {
	e := NewEnv()
	explicit5 := int64(5)
	ty, consts := e.DefineEnum("Color", []EnumeratorSpec{
		{Name: "Red"},
		{Name: "Green"},
		{Name: "Blue", Explicit: &explicit5},
		{Name: "Yellow"},
	})
	if ty != e.Int {
		t.Fatalf("enum type should be canonical int")
	}
	want := []int64{0, 1, 5, 6}
	for i, c := range consts {
		if c.Value != want[i] {
			t.Errorf("enumerator %s = %d, want %d", c.Name, c.Value, want[i])
		}
	}
}

func TestCommonArithTypeSignedUnsigned(t *testing.T) {
	e := NewEnv()
	if got := e.CommonArithType(e.Int, e.UInt); got != e.UInt {
		t.Errorf("int+uint = %v, want uint", got)
	}
	if got := e.CommonArithType(e.Long, e.UInt); got != e.Long {
		t.Errorf("long+uint = %v, want long (rank(long) > rank(uint))", got)
	}
	if got := e.CommonArithType(e.Char, e.Int); got != e.Int {
		t.Errorf("char+int = %v, want int", got)
	}
}

func TestDecay(t *testing.T) {
	e := NewEnv()
	three := 3
	arr := e.ArrayOf(e.Int, &three)
	if dec := e.Decay(arr); dec != e.Pointer(e.Int) {
		t.Fatalf("array decay = %v, want int*", dec)
	}
	fn := e.FuncType(e.Void, nil, false)
	if dec := e.Decay(fn); dec.Kind != KPointer || dec.Elem != fn {
		t.Fatalf("function decay = %v, want pointer to function", dec)
	}
}
