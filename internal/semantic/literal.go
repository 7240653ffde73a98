package semantic

import (
	"strings"

	"github.com/go-cc/irgen/internal/ast"
	"github.com/go-cc/irgen/internal/types"
)

// intLiteralType computes the type of an integer literal from its suffix
// and base, promoting to the smallest type among int/long/long long (and
// their unsigned variants where the suffix or an unsigned decimal value
// requires it) that can hold Value. spec.md's open questions note the
// source this is modeled on simplifies this to "usually plain int"; this
// engine implements the fuller rule spec.md 4.5 prescribes.
func (l *Lowerer) intLiteralType(lit *ast.IntLit) *types.CType {
	suffix := strings.ToLower(lit.Suffix)
	hasU := strings.Contains(suffix, "u")
	longCount := strings.Count(suffix, "l")

	candidates := literalCandidates(l.Types, hasU, longCount, lit.Base != 10)
	for _, c := range candidates {
		if fitsUnsigned(lit.Value, c.IR.Bits) && (c.Signed == false || fitsSigned(lit.Value, c.IR.Bits)) {
			return c
		}
	}
	return l.Types.ULLong
}

// literalCandidates returns the ordered list of types to try, per the
// suffix and whether the literal was written in a non-decimal base
// (octal/hex literals may additionally widen into an unsigned type of the
// same rank before moving to the next rank, same as standard C).
func literalCandidates(e *types.Env, hasU bool, longCount int, nonDecimal bool) []*types.CType {
	switch {
	case hasU && longCount >= 2:
		return []*types.CType{e.ULLong}
	case hasU && longCount == 1:
		return []*types.CType{e.ULong, e.ULLong}
	case hasU:
		if nonDecimal {
			return []*types.CType{e.UInt, e.ULong, e.ULLong}
		}
		return []*types.CType{e.UInt, e.ULong, e.ULLong}
	case longCount >= 2:
		if nonDecimal {
			return []*types.CType{e.LLong, e.ULLong}
		}
		return []*types.CType{e.LLong}
	case longCount == 1:
		if nonDecimal {
			return []*types.CType{e.Long, e.ULong, e.LLong, e.ULLong}
		}
		return []*types.CType{e.Long, e.LLong}
	default:
		if nonDecimal {
			return []*types.CType{e.Int, e.UInt, e.Long, e.ULong, e.LLong, e.ULLong}
		}
		return []*types.CType{e.Int, e.Long, e.LLong}
	}
}

func fitsSigned(v uint64, bits int) bool {
	if bits >= 64 {
		return v <= 1<<63-1
	}
	return v < 1<<(bits-1)
}

func fitsUnsigned(v uint64, bits int) bool {
	if bits >= 64 {
		return true
	}
	return v < 1<<bits
}
