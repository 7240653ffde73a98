package ir

import "fmt"

// Value is anything an instruction can take as an operand: a constant, a
// global's address, a prior instruction's result, or a function argument.
type Value interface {
	Type() Type
	isValue()
	String() string
}

// ConstInt is an integer constant.
type ConstInt struct {
	Ty  Type
	Val int64
}

func (c *ConstInt) Type() Type   { return c.Ty }
func (c *ConstInt) isValue()     {}
func (c *ConstInt) String() string { return fmt.Sprintf("%d", c.Val) }

// ConstGlobalAddr is the address of a Global, used as a pointer constant
// (e.g. a string literal's backing array, or &global_var in a static
// initializer).
type ConstGlobalAddr struct {
	Ty     Type
	Global *Global
}

func (c *ConstGlobalAddr) Type() Type     { return c.Ty }
func (c *ConstGlobalAddr) isValue()       {}
func (c *ConstGlobalAddr) String() string { return "@" + c.Global.Name }

// ConstArray is a constant array, used to build static initializers.
type ConstArray struct {
	Ty    Type
	Elems []Value
}

func (c *ConstArray) Type() Type     { return c.Ty }
func (c *ConstArray) isValue()       {}
func (c *ConstArray) String() string { return fmt.Sprintf("%s const array", c.Ty) }

// ConstStruct is a constant struct, used to build static initializers.
type ConstStruct struct {
	Ty     Type
	Fields []Value
}

func (c *ConstStruct) Type() Type     { return c.Ty }
func (c *ConstStruct) isValue()       {}
func (c *ConstStruct) String() string { return fmt.Sprintf("%s const struct", c.Ty) }

// ConstZero is the implicit zero-initializer of any type, used to fill
// unspecified aggregate leaves without materializing a full literal tree.
type ConstZero struct {
	Ty Type
}

func (c *ConstZero) Type() Type     { return c.Ty }
func (c *ConstZero) isValue()       {}
func (c *ConstZero) String() string { return "zeroinit" }

// Param is one formal parameter of a Function, usable as a Value.
type Param struct {
	Name string
	Ty   Type
	Idx  int
}

func (p *Param) Type() Type     { return p.Ty }
func (p *Param) isValue()       {}
func (p *Param) String() string { return "%" + p.Name }

// ensure Instr implements Value too (defined in instr.go).
var (
	_ Value = (*ConstInt)(nil)
	_ Value = (*ConstGlobalAddr)(nil)
	_ Value = (*ConstArray)(nil)
	_ Value = (*ConstStruct)(nil)
	_ Value = (*ConstZero)(nil)
	_ Value = (*Param)(nil)
)
