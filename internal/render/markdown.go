package render

import (
	"fmt"
	"strings"

	"gddoc/internal/linkdb"
	"gddoc/internal/links"
)

// Markdown renders one file per class plus an index file, with a footer of
// deduplicated shortcut-link definitions per file.
type Markdown struct {
	opts Options
}

// NewMarkdown builds the markdown backend.
func NewMarkdown(opts Options) *Markdown { return &Markdown{opts: opts} }

func (m *Markdown) Name() string      { return "markdown" }
func (m *Markdown) Extension() string { return "md" }

func (m *Markdown) RenderClass(rc *links.ResolvedClass, _ *links.ResolvedModel) ([]byte, error) {
	var sb strings.Builder
	if m.opts.OpeningComment {
		fmt.Fprintf(&sb, "<!-- This file was automatically generated by gddoc from class %s. Do not edit. -->\n\n", rc.Class.Name)
	}
	fmt.Fprintf(&sb, "# %s\n\n", rc.Display)
	if rc.Class.Inherit != "" {
		fmt.Fprintf(&sb, "**Inherit:** %s\n\n", rc.InheritMD)
	}
	sb.WriteString("## Description\n\n")
	if rc.Doc != "" {
		sb.WriteString(rc.Doc)
		sb.WriteString("\n\n")
	}
	sb.WriteString("## Methods\n")
	for _, rm := range rc.Methods {
		fmt.Fprintf(&sb, "\n### %s\n", rm.Signature)
		if rm.Doc != "" {
			sb.WriteString("\n")
			sb.WriteString(rm.Doc)
			sb.WriteString("\n")
		}
	}
	m.writeFooter(&sb, rc.Links)
	return []byte(sb.String()), nil
}

func (m *Markdown) RenderIndex(resolved *links.ResolvedModel) ([]byte, bool) {
	var sb strings.Builder
	if m.opts.OpeningComment {
		sb.WriteString("<!-- This file was automatically generated by gddoc. Do not edit. -->\n\n")
	}
	if resolved.RootDoc != "" {
		sb.WriteString(resolved.RootDoc)
		sb.WriteString("\n\n")
	}
	sb.WriteString("# Classes:\n\n")
	for _, e := range BuildTOC(resolved, m.Extension()).Entries {
		fmt.Fprintf(&sb, "- [%s](%s)\n", e.Display, e.File)
	}
	m.writeFooter(&sb, resolved.RootLinks)
	return []byte(sb.String()), true
}

// writeFooter appends the unit's shortcut-link definitions in first-use
// order. Internal targets point at the sibling file for this backend.
func (m *Markdown) writeFooter(sb *strings.Builder, set *links.LinkSet) {
	if set.Empty() {
		return
	}
	sb.WriteString("\n")
	for _, def := range set.Definitions() {
		fmt.Fprintf(sb, "[%s]: %s\n", def.Label, m.destination(def.Target))
	}
}

func (m *Markdown) destination(t linkdb.Target) string {
	if t.Kind == linkdb.TargetInternal {
		return "./" + t.Class + "." + m.Extension()
	}
	return t.URL
}
