// Package ccir is the embedding API for the lowering engine, mirroring
// the teacher's pkg/dwscript shape: construct an Engine, feed it an
// already-parsed translation unit, get back an IR module or a
// formatted error. Tokenizing/parsing stay a caller concern, same as
// internal/ast documents.
package ccir

import (
	"github.com/go-cc/irgen/internal/ast"
	"github.com/go-cc/irgen/internal/errors"
	"github.com/go-cc/irgen/internal/ir"
	"github.com/go-cc/irgen/internal/semantic"
)

// Engine lowers one translation unit at a time.
type Engine struct {
	source string
	file   string
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithSource attaches the original source text (for caret-annotated
// error excerpts) and a file name (for error location prefixes).
func WithSource(source, file string) Option {
	return func(e *Engine) { e.source, e.file = source, file }
}

// New creates an Engine. With no options, errors are reported without a
// source excerpt.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Lower runs the full pipeline (declarator resolution, constant
// evaluation, initializer compilation, expression/statement lowering,
// the top-level driver) over tu and returns the resulting IR module.
func (e *Engine) Lower(tu *ast.TranslationUnit) (*ir.Module, error) {
	l := semantic.New(e.source, e.file)
	if err := l.Lower(tu); err != nil {
		return nil, err
	}
	return l.Mod, nil
}

// FormatError renders err as a caret-annotated diagnostic if it is a
// *errors.LowerError produced by Lower; otherwise it falls back to
// err.Error().
func FormatError(err error, color bool) string {
	if le, ok := err.(*errors.LowerError); ok {
		return le.Format(color)
	}
	return err.Error()
}
