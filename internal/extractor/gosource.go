package extractor

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// Source is the item-visitor capability set the rest of the pipeline
// depends on. It isolates the pipeline from source grammar specifics: any
// parser that can enumerate annotated classes and their methods can back it.
type Source interface {
	// PackageDoc returns the package documentation of the file declaring
	// the first class, or "".
	PackageDoc() string
	// Classes returns class declarations in declaration order.
	Classes() []*ClassDecl
	// MethodsOf returns the raw method declarations whose receiver (or
	// constructor target) is the given declared class, in declaration order.
	MethodsOf(class string) []*MethodDecl
}

// ClassDecl is a struct declaration carrying the class directive.
type ClassDecl struct {
	Name    string
	Inherit string
	Doc     string // prose, directives removed
	File    string
	Line    int
	// DirectiveWarns are malformed-directive notices attached to this item.
	DirectiveWarns []string
}

// MethodDecl is a raw method or constructor declaration, unfiltered and
// untyped; the builder decides whether it enters the model.
type MethodDecl struct {
	Class       string
	GoName      string
	Doc         string
	Exported    bool
	Constructor bool
	// Params are the declared parameters except the receiver, one entry
	// per name, verbatim types.
	Params []RawParam
	// Results are the declared result types, verbatim.
	Results        []string
	Defaults       map[string]string
	File           string
	Line           int
	DirectiveWarns []string
}

// RawParam is a declared parameter name/type pair before any binding
// convention is applied.
type RawParam struct {
	Name string
	Type string
}

const declQuery = `
	(type_spec) @type
	(method_declaration) @method
	(function_declaration) @func
`

// GoSource walks Go files with tree-sitter and implements Source.
type GoSource struct {
	packageDoc string
	classes    []*ClassDecl
	methods    []*MethodDecl
}

var _ Source = (*GoSource)(nil)

func (s *GoSource) PackageDoc() string    { return s.packageDoc }
func (s *GoSource) Classes() []*ClassDecl { return s.classes }

func (s *GoSource) MethodsOf(class string) []*MethodDecl {
	var out []*MethodDecl
	for _, m := range s.methods {
		if m.Class == class {
			out = append(out, m)
		}
	}
	return out
}

// ParseDir parses every non-test Go file under root, in sorted path order so
// declaration order is stable across runs.
func ParseDir(root string) (*GoSource, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, ".") || name == "vendor" || name == "testdata") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(files)

	src := &GoSource{}
	packageDocs := make(map[string]string)
	for _, path := range files {
		if err := src.parseFile(path, packageDocs); err != nil {
			return nil, err
		}
	}
	if len(src.classes) > 0 {
		src.packageDoc = packageDocs[src.classes[0].File]
	}
	// Constructors were collected by Go name; bind them to their class now
	// that every declaration is known.
	src.bindConstructors()
	return src, nil
}

func (s *GoSource) parseFile(path string, packageDocs map[string]string) error {
	sourceCode, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, sourceCode)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	query, err := sitter.NewQuery([]byte(declQuery), golang.GetLanguage())
	if err != nil {
		return fmt.Errorf("declaration query: %w", err)
	}

	type capture struct {
		name string
		node *sitter.Node
	}
	var captures []capture
	qc := sitter.NewQueryCursor()
	qc.Exec(query, tree.RootNode())
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range m.Captures {
			captures = append(captures, capture{query.CaptureNameForId(c.Index), c.Node})
		}
	}
	sort.SliceStable(captures, func(i, j int) bool {
		return captures[i].node.StartByte() < captures[j].node.StartByte()
	})

	for _, c := range captures {
		switch c.name {
		case "type":
			s.collectClass(c.node, sourceCode, path)
		case "method":
			s.collectMethod(c.node, sourceCode, path)
		case "func":
			s.collectFunction(c.node, sourceCode, path)
		}
	}

	packageDocs[path] = packageDocOf(tree.RootNode(), sourceCode)
	return nil
}

func (s *GoSource) collectClass(node *sitter.Node, sourceCode []byte, path string) {
	nameNode := node.ChildByFieldName("name")
	typeNode := node.ChildByFieldName("type")
	if nameNode == nil || typeNode == nil || typeNode.Type() != "struct_type" {
		return
	}
	// The doc comment sits above the enclosing type_declaration.
	parentNode := node.Parent()
	if parentNode == nil || parentNode.Type() != "type_declaration" {
		parentNode = node
	}
	prose, d, warns := splitDoc(docCommentOf(parentNode, sourceCode))
	if !d.class {
		return
	}
	s.classes = append(s.classes, &ClassDecl{
		Name:           nameNode.Content(sourceCode),
		Inherit:        d.inherit,
		Doc:            prose,
		File:           path,
		Line:           int(node.StartPoint().Row + 1),
		DirectiveWarns: warns,
	})
}

func (s *GoSource) collectMethod(node *sitter.Node, sourceCode []byte, path string) {
	nameNode := node.ChildByFieldName("name")
	receiverNode := node.ChildByFieldName("receiver")
	if nameNode == nil || receiverNode == nil {
		return
	}
	prose, d, warns := splitDoc(docCommentOf(node, sourceCode))
	s.methods = append(s.methods, &MethodDecl{
		Class:          receiverTypeName(receiverNode, sourceCode),
		GoName:         nameNode.Content(sourceCode),
		Doc:            prose,
		Exported:       d.export,
		Params:         paramsOf(node.ChildByFieldName("parameters"), sourceCode),
		Results:        resultsOf(node.ChildByFieldName("result"), sourceCode),
		Defaults:       d.opts,
		File:           path,
		Line:           int(node.StartPoint().Row + 1),
		DirectiveWarns: warns,
	})
}

// collectFunction keeps package-level functions that look like binding
// constructors (NewFoo). Their class is resolved in bindConstructors once
// all classes are known.
func (s *GoSource) collectFunction(node *sitter.Node, sourceCode []byte, path string) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	goName := nameNode.Content(sourceCode)
	if !strings.HasPrefix(goName, "New") || goName == "New" {
		return
	}
	prose, d, warns := splitDoc(docCommentOf(node, sourceCode))
	s.methods = append(s.methods, &MethodDecl{
		Class:          strings.TrimPrefix(goName, "New"),
		GoName:         goName,
		Doc:            prose,
		Exported:       d.export,
		Constructor:    true,
		Params:         paramsOf(node.ChildByFieldName("parameters"), sourceCode),
		Results:        resultsOf(node.ChildByFieldName("result"), sourceCode),
		Defaults:       d.opts,
		File:           path,
		Line:           int(node.StartPoint().Row + 1),
		DirectiveWarns: warns,
	})
}

func (s *GoSource) bindConstructors() {
	declared := make(map[string]bool, len(s.classes))
	for _, c := range s.classes {
		declared[c.Name] = true
	}
	kept := s.methods[:0]
	for _, m := range s.methods {
		if m.Constructor && !declared[m.Class] {
			// Not a binding constructor after all (e.g. NewParser helper).
			continue
		}
		kept = append(kept, m)
	}
	s.methods = kept
}

// docCommentOf gathers the contiguous comment block immediately above node.
func docCommentOf(node *sitter.Node, sourceCode []byte) string {
	var lines []string
	current := node
	for {
		prev := current.PrevSibling()
		if prev == nil || prev.Type() != "comment" {
			break
		}
		if current.StartPoint().Row-prev.EndPoint().Row > 1 {
			break
		}
		lines = append([]string{prev.Content(sourceCode)}, lines...)
		current = prev
	}
	return cleanDocComment(strings.Join(lines, "\n"))
}

func packageDocOf(root *sitter.Node, sourceCode []byte) string {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() == "package_clause" {
			return docCommentOf(child, sourceCode)
		}
	}
	return ""
}

// cleanDocComment strips comment markers while keeping the markdown
// indentation that follows the canonical "// " prefix.
func cleanDocComment(raw string) string {
	if raw == "" {
		return ""
	}
	lines := strings.Split(raw, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if rest, ok := strings.CutPrefix(l, "//"); ok {
			l = strings.TrimPrefix(rest, " ")
		} else {
			l = strings.TrimSuffix(strings.TrimPrefix(l, "/*"), "*/")
			l = strings.TrimSpace(l)
		}
		cleaned = append(cleaned, l)
	}
	return strings.Join(cleaned, "\n")
}

func receiverTypeName(receiverNode *sitter.Node, sourceCode []byte) string {
	for i := 0; i < int(receiverNode.NamedChildCount()); i++ {
		child := receiverNode.NamedChild(i)
		if child.Type() != "parameter_declaration" {
			continue
		}
		if tn := child.ChildByFieldName("type"); tn != nil {
			return strings.TrimPrefix(tn.Content(sourceCode), "*")
		}
	}
	return ""
}

// paramsOf flattens a parameter_list into one entry per declared name.
func paramsOf(paramsNode *sitter.Node, sourceCode []byte) []RawParam {
	if paramsNode == nil {
		return nil
	}
	var params []RawParam
	for i := 0; i < int(paramsNode.NamedChildCount()); i++ {
		decl := paramsNode.NamedChild(i)
		if decl.Type() != "parameter_declaration" {
			continue
		}
		typeText := ""
		if tn := decl.ChildByFieldName("type"); tn != nil {
			typeText = tn.Content(sourceCode)
		}
		found := false
		cursor := sitter.NewTreeCursor(decl)
		if cursor.GoToFirstChild() {
			for {
				if cursor.CurrentNode().Type() == "identifier" {
					params = append(params, RawParam{
						Name: cursor.CurrentNode().Content(sourceCode),
						Type: typeText,
					})
					found = true
				}
				if !cursor.GoToNextSibling() {
					break
				}
			}
		}
		cursor.Close()
		if !found {
			params = append(params, RawParam{Type: typeText})
		}
	}
	return params
}

func resultsOf(resultNode *sitter.Node, sourceCode []byte) []string {
	if resultNode == nil {
		return nil
	}
	if resultNode.Type() != "parameter_list" {
		return []string{resultNode.Content(sourceCode)}
	}
	var results []string
	for _, p := range paramsOf(resultNode, sourceCode) {
		results = append(results, p.Type)
	}
	return results
}
