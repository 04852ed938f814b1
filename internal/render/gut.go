package render

import (
	"fmt"
	"strings"

	"gddoc/internal/links"
)

// gutPreamble makes the generated script a Gut test case.
const gutPreamble = `extends "res://addons/gut/test.gd"`

// Gut synthesizes one Gut test script per class, one test function per
// documented example, in declaration order. A class without examples still
// gets its script, holding only the preamble. The backend has no index unit.
type Gut struct {
	opts Options
}

// NewGut builds the gut backend.
func NewGut(opts Options) *Gut { return &Gut{opts: opts} }

func (g *Gut) Name() string      { return "gut" }
func (g *Gut) Extension() string { return "gd" }

func (g *Gut) RenderIndex(_ *links.ResolvedModel) ([]byte, bool) { return nil, false }

func (g *Gut) RenderClass(rc *links.ResolvedClass, _ *links.ResolvedModel) ([]byte, error) {
	var sb strings.Builder
	if g.opts.OpeningComment {
		fmt.Fprintf(&sb, "# This file was automatically generated by gddoc from class %s. Do not edit.\n", rc.Class.Name)
	}
	sb.WriteString(gutPreamble)
	sb.WriteString("\n")
	for _, rm := range rc.Methods {
		for _, example := range rm.Method.Examples {
			fmt.Fprintf(&sb, "\nfunc %s():\n", TestName(rm.Method.Name, example.Index))
			for _, line := range strings.Split(strings.TrimRight(example.Code, "\n"), "\n") {
				sb.WriteString("    ")
				sb.WriteString(line)
				sb.WriteString("\n")
			}
		}
	}
	return []byte(sb.String()), nil
}

// TestName derives the deterministic generated-test name: test_<method>,
// with an _<index> suffix from the second example of a method on.
func TestName(method string, index int) string {
	if index == 0 {
		return "test_" + method
	}
	return fmt.Sprintf("test_%s_%d", method, index)
}
