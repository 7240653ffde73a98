package ir

import (
	"fmt"
	"strings"
)

// Opcode identifies an instruction's operation. The required set mirrors
// spec.md section 6 exactly; opcode names are lowercase to match the
// spec's own vocabulary ("load", "field", "cond", ...).
type Opcode int

const (
	// --- memory ---

	OpLoad  Opcode = iota // load   : Operands[0]=ptr                  -> loaded value
	OpStore               // store  : Operands[0]=ptr, Operands[1]=val -> void
	OpLocal               // local  : allocates stack storage for Type.Elem, yields a pointer
	OpField               // field  : Operands[0]=ptr, Index=field/element index -> pointer

	// --- conversions ---

	OpCast  // cast  : value-preserving reinterpret (ptr<->ptr, ptr<->int, array->ptr, func->ptr, T->void)
	OpZext  // zext  : integer zero-extend
	OpSext  // sext  : integer sign-extend
	OpTrunc // trunc : integer truncate

	// --- unary arithmetic ---

	OpNeg
	OpBitNot

	// --- binary arithmetic / bitwise ---

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpShl
	OpShr
	OpBitAnd
	OpBitOr
	OpBitXor

	// --- comparison ---

	OpCmp // Cmp holds which predicate; signed/unsigned recorded for ordered predicates

	// --- calls & ssa ---

	OpCall
	OpPhi

	// --- terminators (exactly one per block) ---

	OpBranch  // unconditional branch: Targets[0]
	OpCond    // conditional branch: Operands[0]=cond, Targets[0]=then, Targets[1]=else
	OpRet     // return a value: Operands[0]
	OpRetVoid // return void

	// --- intrinsics ---

	OpBuiltinVaStart
)

func (op Opcode) String() string {
	names := [...]string{
		"load", "store", "local", "field",
		"cast", "zext", "sext", "trunc",
		"neg", "bit_not",
		"add", "sub", "mul", "div", "mod", "shl", "shr", "bit_and", "bit_or", "bit_xor",
		"cmp",
		"call", "phi",
		"branch", "cond", "ret", "ret_void",
		"builtin_va_start",
	}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// CmpPred is the predicate carried by a OpCmp instruction.
type CmpPred int

const (
	CmpEq CmpPred = iota
	CmpNe
	CmpLtSigned
	CmpLeSigned
	CmpGtSigned
	CmpGeSigned
	CmpLtUnsigned
	CmpLeUnsigned
	CmpGtUnsigned
	CmpGeUnsigned
)

func (p CmpPred) String() string {
	switch p {
	case CmpEq:
		return "eq"
	case CmpNe:
		return "ne"
	case CmpLtSigned:
		return "slt"
	case CmpLeSigned:
		return "sle"
	case CmpGtSigned:
		return "sgt"
	case CmpGeSigned:
		return "sge"
	case CmpLtUnsigned:
		return "ult"
	case CmpLeUnsigned:
		return "ule"
	case CmpGtUnsigned:
		return "ugt"
	case CmpGeUnsigned:
		return "uge"
	default:
		return "?"
	}
}

// Instr is one instruction in a Block. It is also a Value: non-void
// instructions are referenced by later instructions as their own result.
type Instr struct {
	Op       Opcode
	Ty       Type
	Operands []Value
	Name     string // advisory SSA name, e.g. "t3"

	// OpField
	Index int

	// OpCmp
	Pred CmpPred

	// OpCall
	Callee Value

	// OpBranch / OpCond: successor blocks
	Targets []*Block

	// OpPhi: Incoming[i] is the value coming from predecessor Blocks[i]
	Incoming []Value
	Blocks   []*Block
}

func (i *Instr) Type() Type { return i.Ty }
func (i *Instr) isValue()   {}
func (i *Instr) String() string {
	if i.Name != "" {
		return "%" + i.Name
	}
	return "%" + i.Op.String()
}

// IsTerminator reports whether op ends a block.
func (op Opcode) IsTerminator() bool {
	return op == OpBranch || op == OpCond || op == OpRet || op == OpRetVoid
}

// Dump renders the instruction in a readable textual form, used by the
// module pretty-printer for golden/snapshot output.
func (i *Instr) Dump() string {
	var sb strings.Builder
	if i.Name != "" && i.Ty.Kind != TVoid {
		fmt.Fprintf(&sb, "%%%s = ", i.Name)
	}
	sb.WriteString(i.Op.String())
	switch i.Op {
	case OpField:
		fmt.Fprintf(&sb, " %s, %d", operandList(i.Operands), i.Index)
	case OpCmp:
		fmt.Fprintf(&sb, ".%s %s", i.Pred, operandList(i.Operands))
	case OpCall:
		fmt.Fprintf(&sb, " %s(%s)", i.Callee, operandList(i.Operands))
	case OpBranch:
		fmt.Fprintf(&sb, " %s", i.Targets[0].Name)
	case OpCond:
		fmt.Fprintf(&sb, " %s, %s, %s", i.Operands[0], i.Targets[0].Name, i.Targets[1].Name)
	case OpPhi:
		parts := make([]string, len(i.Incoming))
		for idx := range i.Incoming {
			parts[idx] = fmt.Sprintf("[%s, %s]", i.Incoming[idx], i.Blocks[idx].Name)
		}
		sb.WriteString(" " + strings.Join(parts, ", "))
	case OpRet:
		fmt.Fprintf(&sb, " %s", operandList(i.Operands))
	case OpRetVoid:
	default:
		if len(i.Operands) > 0 {
			sb.WriteString(" " + operandList(i.Operands))
		}
	}
	return sb.String()
}

func operandList(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}
