package links

import (
	"strings"

	"gddoc/internal/model"
)

// Method doc headings drop below the generated "### func ..." heading.
const proseHeadingShift = 3

// ResolvedModel is the read-only result of resolving a documentation model.
// Backends consume it without further lookups.
type ResolvedModel struct {
	Model *model.Documentation
	// RootDoc is the resolved index prose with its own link set.
	RootDoc   string
	RootLinks *LinkSet
	Classes   []*ResolvedClass
}

// ResolvedClass is one output unit: all text of a class, resolved, plus the
// deduplicated footer definitions it accumulated.
type ResolvedClass struct {
	Class *model.Class
	// Display is the heading/file name: the configured rename, or the
	// declared name.
	Display string
	// InheritMD is the resolved inherit reference, "" when the class has
	// no inherit clause.
	InheritMD string
	Doc       string
	Methods   []ResolvedMethod
	Links     *LinkSet
}

// ResolvedMethod pairs a method with its rendered signature line and
// resolved prose.
type ResolvedMethod struct {
	Method    *model.Method
	Signature string
	Doc       string
}

// ResolveModel resolves every text span of the model. Per class the
// signatures resolve before the prose, so a type's first appearance (and
// the label of its footer definition) always comes from a signature.
func (r *Resolver) ResolveModel(doc *model.Documentation) *ResolvedModel {
	resolved := &ResolvedModel{Model: doc, RootLinks: NewLinkSet()}
	resolved.RootDoc = r.ResolveDoc(doc.RootDoc, resolved.RootLinks, 0)

	for _, class := range doc.Classes {
		rc := &ResolvedClass{
			Class:   class,
			Display: r.db.Display(class.Name),
			Links:   NewLinkSet(),
		}
		if class.Inherit != "" {
			if target, ok := r.resolve(class.Inherit); ok {
				rc.InheritMD = r.reference(rc.Links, target, false)
			} else {
				r.warnUnknown(class.Inherit)
				rc.InheritMD = class.Inherit
			}
		}
		for _, method := range class.Methods {
			rc.Methods = append(rc.Methods, ResolvedMethod{
				Method:    method,
				Signature: r.signature(method, rc.Links),
			})
		}
		rc.Doc = r.ResolveDoc(class.Doc, rc.Links, proseHeadingShift)
		for i, method := range class.Methods {
			rc.Methods[i].Doc = r.ResolveDoc(method.Doc, rc.Links, proseHeadingShift)
		}
		resolved.Classes = append(resolved.Classes, rc)
	}
	return resolved
}

// signature renders "func name(param: Type, ...) -> ReturnType" with
// resolved type links, "= literal" defaults and "(opt)" optional markers.
func (r *Resolver) signature(m *model.Method, set *LinkSet) string {
	var sb strings.Builder
	sb.WriteString("func ")
	sb.WriteString(m.Name)
	sb.WriteString("(")
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name)
		sb.WriteString(": ")
		sb.WriteString(r.TypeMarkdown(p.Type, set))
		if p.Default != nil {
			sb.WriteString(" = ")
			sb.WriteString(*p.Default)
		}
	}
	sb.WriteString(") -> ")
	sb.WriteString(r.TypeMarkdown(m.Return, set))
	return sb.String()
}
