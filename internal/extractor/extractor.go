// Package extractor builds the documentation model from annotated source
// declarations. Only classes and methods carrying the binding directives
// enter the model; a malformed declaration is dropped with a warning and
// never aborts the run.
package extractor

import (
	"fmt"
	"sort"
	"strings"

	"gddoc/internal/model"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ExampleLanguage tags the fenced blocks lifted into Example entries.
const ExampleLanguage = "gdscript"

// ExtractionError describes one malformed declaration. It is recovered per
// item: the item is dropped and the error surfaces as a warning.
type ExtractionError struct {
	File   string
	Line   int
	Item   string
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %s", e.File, e.Line, e.Item, e.Reason)
}

// Warning is a recovered extraction condition.
type Warning struct {
	Item    string
	Message string
}

// ExtractDir parses root and builds the model. renames maps declared class
// names to their configured display names. The returned error is only
// non-nil when the source tree itself cannot be read or parsed; per-item
// problems come back as warnings.
func ExtractDir(root string, renames map[string]string) (*model.Documentation, []Warning, error) {
	src, err := ParseDir(root)
	if err != nil {
		return nil, nil, err
	}
	doc, warns := Build(src, renames)
	return doc, warns, nil
}

// Build assembles the model from any Source implementation. The model is
// immutable once returned; display names are therefore fixed here.
func Build(src Source, renames map[string]string) (*model.Documentation, []Warning) {
	var warns []Warning
	doc := &model.Documentation{RootDoc: src.PackageDoc()}

	seen := make(map[string]bool)
	for _, decl := range src.Classes() {
		item := decl.Name
		for _, w := range decl.DirectiveWarns {
			warns = append(warns, Warning{Item: item, Message: w})
		}
		if seen[decl.Name] {
			warns = append(warns, dropped(&ExtractionError{
				File: decl.File, Line: decl.Line, Item: item,
				Reason: "duplicate class declaration",
			}))
			continue
		}
		seen[decl.Name] = true

		display := decl.Name
		if r, ok := renames[decl.Name]; ok {
			display = r
		}
		class := &model.Class{
			Name:        decl.Name,
			DisplayName: display,
			Inherit:     decl.Inherit,
			Doc:         decl.Doc,
		}
		for _, m := range src.MethodsOf(decl.Name) {
			method, mwarns := buildMethod(m)
			warns = append(warns, mwarns...)
			if method != nil {
				class.Methods = append(class.Methods, method)
			}
		}
		doc.Classes = append(doc.Classes, class)
	}
	return doc, warns
}

func buildMethod(decl *MethodDecl) (*model.Method, []Warning) {
	if !decl.Exported && !decl.Constructor {
		return nil, nil
	}
	var warns []Warning
	item := decl.Class + "." + decl.GoName
	for _, w := range decl.DirectiveWarns {
		warns = append(warns, Warning{Item: item, Message: w})
	}

	fail := func(reason string) (*model.Method, []Warning) {
		return nil, append(warns, dropped(&ExtractionError{
			File: decl.File, Line: decl.Line, Item: item, Reason: reason,
		}))
	}

	// The binding injects the owner object as the leading parameter; it is
	// part of the convention, not of the documented signature.
	if len(decl.Params) == 0 {
		return fail("missing leading owner parameter")
	}
	params := decl.Params[1:]

	ret, ok := returnRef(decl.Results)
	if !ok {
		return fail(fmt.Sprintf("unsupported result list (%s)", strings.Join(decl.Results, ", ")))
	}

	name := snakeCase(decl.GoName)
	if decl.Constructor {
		name = "new"
		ret = model.TypeRef{Name: decl.Class}
	}

	method := &model.Method{
		Name:   name,
		Return: ret,
		Doc:    decl.Doc,
	}
	for _, p := range params {
		param := model.Param{Name: p.Name, Type: typeRef(p.Type)}
		if def, ok := decl.Defaults[p.Name]; ok {
			if isLiteral(def) {
				v := def
				param.Default = &v
			} else {
				warns = append(warns, Warning{
					Item:    item,
					Message: fmt.Sprintf("default for %q is not a literal (%s); parameter stays required", p.Name, def),
				})
			}
		}
		method.Params = append(method.Params, param)
	}
	for _, name := range sortedKeys(decl.Defaults) {
		if !hasParam(params, name) {
			warns = append(warns, Warning{
				Item:    item,
				Message: fmt.Sprintf("opt() names unknown parameter %q", name),
			})
		}
	}
	method.Examples = liftExamples(method.Doc)
	return method, warns
}

func dropped(err *ExtractionError) Warning {
	return Warning{Item: err.Item, Message: "declaration dropped: " + err.Error()}
}

// sortedKeys keeps warning order stable across runs.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func hasParam(params []RawParam, name string) bool {
	for _, p := range params {
		if p.Name == name {
			return true
		}
	}
	return false
}

// typeRef captures a type name verbatim. Pointers mark the reference
// optional, mirroring the binding layer's nullable arguments.
func typeRef(raw string) model.TypeRef {
	raw = strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(raw, "*"); ok {
		return model.TypeRef{Name: rest, Optional: true}
	}
	return model.TypeRef{Name: raw}
}

// returnRef interprets the result list under the binding convention: no
// result is void, a trailing error is stripped, anything else is malformed.
func returnRef(results []string) (model.TypeRef, bool) {
	switch len(results) {
	case 0:
		return model.TypeRef{}, true
	case 1:
		if results[0] == "error" {
			return model.TypeRef{}, true
		}
		return typeRef(results[0]), true
	case 2:
		if results[1] == "error" {
			return typeRef(results[0]), true
		}
	}
	return model.TypeRef{}, false
}

// liftExamples pulls gdscript-tagged fenced blocks out of the doc prose, in
// order. The prose keeps the fences; the gut backend consumes the lifted
// copies.
func liftExamples(doc string) []model.Example {
	if doc == "" {
		return nil
	}
	source := []byte(doc)
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(source))

	var examples []model.Example
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fence, ok := n.(*ast.FencedCodeBlock)
		if !ok || string(fence.Language(source)) != ExampleLanguage {
			return ast.WalkContinue, nil
		}
		var sb strings.Builder
		lines := fence.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			sb.Write(seg.Value(source))
		}
		examples = append(examples, model.Example{
			Index: len(examples),
			Code:  sb.String(),
		})
		return ast.WalkContinue, nil
	})
	return examples
}
