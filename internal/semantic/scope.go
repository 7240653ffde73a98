// Package semantic implements the AST->IR lowering engine: the Constant
// Evaluator, Declarator Resolver, Initializer Compiler, Expression
// Lowering, Statement Lowering, and Top-Level Driver of spec.md sections
// 4.2-4.7, built around the Type Environment (package types) and IR
// Builder (package ir).
package semantic

import (
	"github.com/go-cc/irgen/internal/ir"
	"github.com/go-cc/irgen/internal/types"
)

// Term is a (type, value) pair: the result of resolving a name or
// lowering an expression.
type Term struct {
	Type  *types.CType
	Value ir.Value
}

// Binding is one name bound in a Scope. For ordinary variables Value is a
// pointer to storage and Constant is false; for enumerators it is a
// literal integer constant and Constant is true; for functions it is the
// function's global address.
type Binding struct {
	Name     string
	Term     Term
	Constant bool
}

// Scope is a sequence of bindings plus an optional parent. Lookup walks
// outward; shadowing is by first match. One Scope is pushed for the
// translation unit, each function body, each compound statement, and the
// init clause of a for loop.
type Scope struct {
	bindings []*Binding
	parent   *Scope
}

func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent}
}

// Define adds a binding to the innermost (this) scope, shadowing any
// binding of the same name in an enclosing scope.
func (s *Scope) Define(b *Binding) {
	s.bindings = append(s.bindings, b)
}

// Lookup walks outward from s looking for name, returning the first match.
func (s *Scope) Lookup(name string) (*Binding, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		for _, b := range sc.bindings {
			if b.Name == name {
				return b, true
			}
		}
	}
	return nil, false
}

// Context parameterizes expression lowering: whether the caller wants the
// address of the designated object (LValue), its value (RValue), or
// requires the expression to be foldable without emitting instructions
// (Constant).
type Context int

const (
	RValue Context = iota
	LValue
	ConstantCtx
)
