package ir

import (
	"strings"
	"testing"
)

func TestBuilder_SimpleFunctionHasTerminatedBlocks(t *testing.T) {
	m := NewModule()
	fn := &Function{Name: "f", Ret: I32, Params: []*Param{{Name: "x", Ty: I32, Idx: 0}}}
	m.AddGlobal(&Global{Name: "f", Func: fn})

	b := NewBuilder(m)
	b.StartFunction(fn)
	b.Append(b.NewBlock("entry"))

	one := &ConstInt{Ty: I32, Val: 1}
	sum := b.BinOp(OpAdd, I32, fn.Params[0], one)
	b.Ret(sum)

	for _, blk := range fn.Blocks {
		if blk.Terminator() == nil {
			t.Fatalf("block %s has no terminator", blk.Name)
		}
	}

	dump := m.Dump()
	if !strings.Contains(dump, "ret %t0") {
		t.Fatalf("unexpected dump:\n%s", dump)
	}
}

func TestBuilder_DeferredBlockAppendPreservesOrder(t *testing.T) {
	m := NewModule()
	fn := &Function{Name: "f", Ret: Void}
	m.AddGlobal(&Global{Name: "f", Func: fn})

	b := NewBuilder(m)
	b.StartFunction(fn)
	entry := b.NewBlock("entry")
	after := b.NewBlock("after") // allocated before body, appended after
	b.Append(entry)
	b.Br(after)
	b.Append(after)
	b.RetVoid()

	if len(fn.Blocks) != 2 || fn.Blocks[0] != entry || fn.Blocks[1] != after {
		t.Fatalf("block order not preserved: %+v", fn.Blocks)
	}
}

func TestOpcodeNames(t *testing.T) {
	want := map[Opcode]string{
		OpLoad: "load", OpStore: "store", OpLocal: "local", OpField: "field",
		OpCast: "cast", OpZext: "zext", OpSext: "sext", OpTrunc: "trunc",
		OpCall: "call", OpPhi: "phi", OpBranch: "branch", OpCond: "cond",
		OpRet: "ret", OpRetVoid: "ret_void", OpBuiltinVaStart: "builtin_va_start",
	}
	for op, name := range want {
		if op.String() != name {
			t.Errorf("opcode %d: got %q want %q", op, op.String(), name)
		}
	}
}
