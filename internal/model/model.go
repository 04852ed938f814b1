// Package model holds the format-independent documentation model built by the
// extractor and consumed read-only by the link resolver and every backend.
package model

// Documentation is the full model for one run. Classes keep the order in
// which they were declared in the source tree; every downstream consumer
// relies on that order for diff-stable output.
type Documentation struct {
	// RootDoc is the package documentation of the package that declares the
	// first class. Rendered on the index page.
	RootDoc string `json:"root_doc,omitempty"`

	Classes []*Class `json:"classes"`
}

// Class is one struct exposed to the scripting runtime.
type Class struct {
	// Name is the declared Go name. It stays the lookup key everywhere even
	// when a rename gives the class a different display name.
	Name string `json:"name"`
	// DisplayName is the configured rename, or Name when no rename applies.
	DisplayName string `json:"display_name"`
	// Inherit is the engine base class named in the class directive.
	Inherit string `json:"inherit,omitempty"`
	// Doc is the raw markdown doc comment with directive lines removed.
	Doc string `json:"doc,omitempty"`

	Methods []*Method `json:"methods"`
}

// Method is one exported method of a class, in declaration order.
type Method struct {
	Name   string  `json:"name"`
	Params []Param `json:"params"`
	Return TypeRef `json:"return"`
	// Doc is the raw markdown doc comment, directives removed, example
	// fences still in place (the markdown backend renders them in situ).
	Doc string `json:"doc,omitempty"`
	// Examples are the gdscript-tagged fenced blocks lifted out of Doc,
	// in the order they appear. Used by the gut backend.
	Examples []Example `json:"examples,omitempty"`
}

// Param is a declared parameter after the injected leading arguments have
// been skipped. Type names are captured verbatim; resolution happens later.
type Param struct {
	Name string  `json:"name"`
	Type TypeRef `json:"type"`
	// Default is the literal default text from the export directive, nil
	// when the parameter is required.
	Default *string `json:"default,omitempty"`
}

// TypeRef is an unresolved type name. A pointer type marks the reference
// optional; an empty name means void.
type TypeRef struct {
	Name     string `json:"name"`
	Optional bool   `json:"optional,omitempty"`
}

// Void reports whether the reference is the unit/void type.
func (t TypeRef) Void() bool { return t.Name == "" }

// Example is one fenced gdscript sample tied to a method.
type Example struct {
	// Index is the zero-based position among the method's examples; it
	// feeds the deterministic generated-test name.
	Index int `json:"index"`
	// Code is the fence body, verbatim.
	Code string `json:"code"`
}

// MethodCount returns the number of exported methods across all classes.
func (d *Documentation) MethodCount() int {
	n := 0
	for _, c := range d.Classes {
		n += len(c.Methods)
	}
	return n
}

// ClassByName returns the class with the given declared name, or nil.
func (d *Documentation) ClassByName(name string) *Class {
	for _, c := range d.Classes {
		if c.Name == name {
			return c
		}
	}
	return nil
}
