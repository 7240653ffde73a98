package ir

import (
	"fmt"
	"strings"
)

// Dump renders the whole module as readable text, used by lowering-scenario
// snapshot tests instead of comparing struct graphs field by field.
func (m *Module) Dump() string {
	var sb strings.Builder
	for _, g := range m.Globals {
		if g.Func != nil {
			dumpFunction(&sb, g)
		} else {
			dumpVariable(&sb, g)
		}
	}
	return sb.String()
}

func dumpVariable(sb *strings.Builder, g *Global) {
	link := ""
	if g.Linkage == LinkageInternal {
		link = "internal "
	}
	init := "undef"
	if g.Init != nil {
		init = g.Init.String()
	}
	fmt.Fprintf(sb, "%sglobal %s %s = %s\n", link, g.VarType, g.Name, init)
}

func dumpFunction(sb *strings.Builder, g *Global) {
	f := g.Func
	link := ""
	if g.Linkage == LinkageInternal {
		link = "internal "
	}
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = fmt.Sprintf("%s %s", p.Ty, p.String())
	}
	variadic := ""
	if f.Variadic {
		if len(params) > 0 {
			variadic = ", ..."
		} else {
			variadic = "..."
		}
	}
	fmt.Fprintf(sb, "%sfunc %s %s(%s%s)", link, f.Ret, f.Name, strings.Join(params, ", "), variadic)
	if f.Declared {
		sb.WriteString("\n")
		return
	}
	sb.WriteString(" {\n")
	for _, blk := range f.Blocks {
		fmt.Fprintf(sb, "%s:\n", blk.Name)
		for _, instr := range blk.Instrs {
			sb.WriteString("  " + instr.Dump() + "\n")
		}
	}
	sb.WriteString("}\n")
}
