package ir

import "fmt"

// Builder holds the one piece of truly global mutable state in this
// engine: which function and which block instructions are currently being
// appended to. It is passed explicitly to every lowering call (spec.md
// section 9's "global mutable state" design note) rather than stored in a
// package-level variable or goroutine-local.
type Builder struct {
	Module *Module

	fn      *Function
	block   *Block
	tmp     int
	blockID int
}

func NewBuilder(m *Module) *Builder {
	return &Builder{Module: m}
}

// StartFunction makes fn the current function with no current block; the
// caller must Append an entry block before emitting instructions.
func (b *Builder) StartFunction(fn *Function) {
	b.fn = fn
	b.block = nil
	b.tmp = 0
	b.blockID = 0
}

// RunInScratch runs f with the builder redirected to a disposable
// function (used for sizeof(expr)'s type-only lowering, spec.md section
// 4.2): the function is never linked into the module, and the builder's
// state -- current function, current block, temp/block-name counters --
// is fully restored afterward so the caller's own numbering is
// unaffected.
func (b *Builder) RunInScratch(fn *Function, f func()) {
	savedFn, savedBlk, savedTmp, savedBlockID := b.fn, b.block, b.tmp, b.blockID
	b.fn = fn
	b.block = nil
	b.tmp = 0
	b.blockID = 0
	b.Append(b.NewBlock("entry"))

	f()

	b.fn, b.block, b.tmp, b.blockID = savedFn, savedBlk, savedTmp, savedBlockID
}

// Func returns the function currently being built.
func (b *Builder) Func() *Function { return b.fn }

// Block returns the block instructions are currently appended to.
func (b *Builder) Block() *Block { return b.block }

// NewBlock allocates a block with an advisory name but does not append it
// to the current function's block list. Callers append it later (via
// Append) to control emission order independent of allocation order --
// the mechanism spec.md section 4.6 and 9 require for while/for/switch to
// keep block order matching source order.
func (b *Builder) NewBlock(hint string) *Block {
	name := fmt.Sprintf("%s.%d", hint, b.blockID)
	b.blockID++
	return &Block{Name: name}
}

// Append adds blk to the current function's block list and makes it the
// current block.
func (b *Builder) Append(blk *Block) {
	b.fn.Blocks = append(b.fn.Blocks, blk)
	b.block = blk
}

// SetBlock makes blk current without appending it (used when resuming
// emission into a block appended earlier by a caller).
func (b *Builder) SetBlock(blk *Block) {
	b.block = blk
}

// Terminated reports whether the current block already ends with a
// terminator.
func (b *Builder) Terminated() bool {
	return b.block != nil && b.block.Terminator() != nil
}

func (b *Builder) name() string {
	n := fmt.Sprintf("t%d", b.tmp)
	b.tmp++
	return n
}

func (b *Builder) emit(instr *Instr) *Instr {
	if instr.Ty.Kind != TVoid {
		instr.Name = b.name()
	}
	b.block.Instrs = append(b.block.Instrs, instr)
	return instr
}

// Local allocates stack storage for elemTy and returns a pointer to it.
func (b *Builder) Local(elemTy Type) *Instr {
	return b.emit(&Instr{Op: OpLocal, Ty: Pointer(elemTy)})
}

// Load reads the value of type ty pointed to by ptr.
func (b *Builder) Load(ptr Value, ty Type) *Instr {
	return b.emit(&Instr{Op: OpLoad, Ty: ty, Operands: []Value{ptr}})
}

// Store writes val to the object pointed to by ptr.
func (b *Builder) Store(ptr, val Value) *Instr {
	return b.emit(&Instr{Op: OpStore, Ty: Void, Operands: []Value{ptr, val}})
}

// Field computes the address of field/element idx of the aggregate
// pointed to by ptr; fieldTy is the pointee's field type.
func (b *Builder) Field(ptr Value, idx int, fieldTy Type) *Instr {
	return b.emit(&Instr{Op: OpField, Ty: Pointer(fieldTy), Operands: []Value{ptr}, Index: idx})
}

// Cast performs a value-preserving reinterpret to ty (spec.md 4.5.2:
// pointer<->pointer, pointer<->integer of the same width, array->pointer,
// function->pointer, anything->void).
func (b *Builder) Cast(v Value, ty Type) *Instr {
	return b.emit(&Instr{Op: OpCast, Ty: ty, Operands: []Value{v}})
}

func (b *Builder) Zext(v Value, ty Type) *Instr {
	return b.emit(&Instr{Op: OpZext, Ty: ty, Operands: []Value{v}})
}

func (b *Builder) Sext(v Value, ty Type) *Instr {
	return b.emit(&Instr{Op: OpSext, Ty: ty, Operands: []Value{v}})
}

func (b *Builder) Trunc(v Value, ty Type) *Instr {
	return b.emit(&Instr{Op: OpTrunc, Ty: ty, Operands: []Value{v}})
}

func (b *Builder) Neg(v Value) *Instr {
	return b.emit(&Instr{Op: OpNeg, Ty: v.Type(), Operands: []Value{v}})
}

func (b *Builder) BitNot(v Value) *Instr {
	return b.emit(&Instr{Op: OpBitNot, Ty: v.Type(), Operands: []Value{v}})
}

// BinOp emits a binary arithmetic/bitwise instruction. x and y must
// already share ty (the caller has applied the usual arithmetic
// conversions or pointer scaling beforehand).
func (b *Builder) BinOp(op Opcode, ty Type, x, y Value) *Instr {
	return b.emit(&Instr{Op: op, Ty: ty, Operands: []Value{x, y}})
}

// Cmp emits a comparison, yielding a 32-bit integer (C's int-typed
// relational result).
func (b *Builder) Cmp(pred CmpPred, x, y Value) *Instr {
	return b.emit(&Instr{Op: OpCmp, Ty: I32, Pred: pred, Operands: []Value{x, y}})
}

// Call emits a call to callee with args, yielding retTy (Void for a
// void-returning function).
func (b *Builder) Call(callee Value, retTy Type, args []Value) *Instr {
	return b.emit(&Instr{Op: OpCall, Ty: retTy, Callee: callee, Operands: args})
}

// Phi emits an SSA phi node selecting among incoming values by
// predecessor block.
func (b *Builder) Phi(ty Type, incoming []Value, blocks []*Block) *Instr {
	return b.emit(&Instr{Op: OpPhi, Ty: ty, Incoming: incoming, Blocks: blocks})
}

// VaStart emits the variadic-argument-list initialization intrinsic.
func (b *Builder) VaStart(ap Value) *Instr {
	return b.emit(&Instr{Op: OpBuiltinVaStart, Ty: Void, Operands: []Value{ap}})
}

// --- terminators ---

func (b *Builder) Br(target *Block) *Instr {
	return b.emit(&Instr{Op: OpBranch, Ty: Void, Targets: []*Block{target}})
}

func (b *Builder) CondBr(cond Value, then, els *Block) *Instr {
	return b.emit(&Instr{Op: OpCond, Ty: Void, Operands: []Value{cond}, Targets: []*Block{then, els}})
}

func (b *Builder) Ret(v Value) *Instr {
	return b.emit(&Instr{Op: OpRet, Ty: Void, Operands: []Value{v}})
}

func (b *Builder) RetVoid() *Instr {
	return b.emit(&Instr{Op: OpRetVoid, Ty: Void})
}
