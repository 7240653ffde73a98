package ir

// Block is a basic block: a name (advisory, used only for printing and
// debugging) and a straight-line instruction list ending in exactly one
// terminator (testable property 1 in spec.md section 8).
type Block struct {
	Name   string
	Instrs []*Instr
}

// Terminator returns the block's terminating instruction, or nil if the
// block is not yet (mis-)terminated.
func (b *Block) Terminator() *Instr {
	if len(b.Instrs) == 0 {
		return nil
	}
	last := b.Instrs[len(b.Instrs)-1]
	if last.Op.IsTerminator() {
		return last
	}
	return nil
}

// Linkage controls visibility of a Global.
type Linkage int

const (
	LinkageExternal Linkage = iota
	LinkageInternal
)

// Function is an IR function: a signature plus, once its body has been
// lowered, an ordered list of blocks. Blocks are appended in emission
// order, which the statement lowerer arranges to match the textual order
// of the source constructs that produced them (spec.md section 5).
type Function struct {
	Name     string
	Params   []*Param
	Ret      Type
	Variadic bool
	Linkage  Linkage

	Blocks []*Block

	// Declared marks a function with no body (a prototype / extern decl).
	Declared bool
}

func (f *Function) Type() Type {
	params := make([]Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Ty
	}
	return Function(f.Ret, params, f.Variadic)
}

// Global is a top-level named entity: a variable (with optional constant
// initializer) or a function.
type Global struct {
	Name    string
	Linkage Linkage

	// Variable fields (Func == nil)
	VarType Type
	Init    Value // nil for a tentative/extern definition

	// Function fields (Func != nil)
	Func *Function
}

// Module is a complete lowered translation unit: its globals in
// declaration order.
type Module struct {
	Globals []*Global

	byName map[string]*Global
}

// NewModule creates an empty module.
func NewModule() *Module {
	return &Module{byName: map[string]*Global{}}
}

// Lookup finds a previously-registered global by name.
func (m *Module) Lookup(name string) *Global {
	return m.byName[name]
}

// AddGlobal registers g, replacing any earlier declaration-only entry of
// the same name (a later definition completing an earlier `extern`).
func (m *Module) AddGlobal(g *Global) {
	if existing, ok := m.byName[g.Name]; ok {
		for i, e := range m.Globals {
			if e == existing {
				m.Globals[i] = g
				break
			}
		}
		m.byName[g.Name] = g
		return
	}
	m.Globals = append(m.Globals, g)
	m.byName[g.Name] = g
}
