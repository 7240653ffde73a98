package errors

import (
	"strings"
	"testing"

	"github.com/go-cc/irgen/internal/token"
)

func TestLowerError_Format(t *testing.T) {
	tests := []struct {
		name        string
		kind        Kind
		pos         token.Position
		source      string
		wantContain []string
	}{
		{
			name:   "unknown identifier with file",
			kind:   UnknownIdentifier,
			pos:    token.Position{File: "a.c", Line: 1, Column: 12},
			source: "int f(void) { return x; }",
			wantContain: []string{
				"error in a.c:1:12",
				"   1 | int f(void) { return x; }",
				"^",
				"unknown identifier",
			},
		},
		{
			name:   "malformed control flow without file",
			kind:   MalformedControlFlow,
			pos:    token.Position{Line: 2, Column: 3},
			source: "int f(void) {\n  break;\n}",
			wantContain: []string{
				"error at 2:3",
				"   2 |   break;",
				"^",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.kind, tt.pos, tt.source, "%s", tt.kind.String())
			got := err.Format(false)
			for _, want := range tt.wantContain {
				if !strings.Contains(got, want) {
					t.Errorf("Format() missing %q in:\n%s", want, got)
				}
			}
		})
	}
}

func TestLowerError_ErrorImplementsStdError(t *testing.T) {
	var err error = New(TypeMismatch, token.Position{Line: 1, Column: 1}, "", "cannot add %s to %s", "int*", "double")
	if !strings.Contains(err.Error(), "cannot add int* to double") {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}
