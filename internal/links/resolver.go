// Package links rewrites documentation text against the link database.
//
// Candidates are shortcut references with a bare-identifier target and
// inline code spans wrapping a bare identifier. Resolved candidates become
// shortcut-style links sharing one footer definition per target per output
// unit; unknown identifiers are left untouched and reported once.
//
// Resolution is a pure function of (model, database): identical inputs
// always produce identical resolved text, and resolving already-resolved
// text again is a no-op.
package links

import (
	"sort"

	"gddoc/internal/linkdb"
	"gddoc/internal/model"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
)

// Warning reports one identifier that matched a candidate form but is
// absent from the link database. Deduplicated per identifier per run.
type Warning struct {
	Ident string
}

// Unsupported reports a markdown construct the writer cannot re-emit.
type Unsupported struct {
	Construct string
}

// Resolver owns the database and the run-scoped warning state.
type Resolver struct {
	db *linkdb.DB
	md goldmark.Markdown

	unknown     []Warning
	unknownSeen map[string]bool
	unsupported map[string]bool
}

// NewResolver builds a resolver. Extenders come from the configuration's
// enabled markdown options.
func NewResolver(db *linkdb.DB, exts []goldmark.Extender) *Resolver {
	return &Resolver{
		db:          db,
		md:          goldmark.New(goldmark.WithExtensions(exts...)),
		unknownSeen: make(map[string]bool),
		unsupported: make(map[string]bool),
	}
}

// Warnings returns the unresolved-identifier warnings in first-seen order.
func (r *Resolver) Warnings() []Warning { return r.unknown }

// UnsupportedConstructs returns the markdown constructs that were dropped,
// sorted for stable reporting.
func (r *Resolver) UnsupportedConstructs() []Unsupported {
	names := make([]string, 0, len(r.unsupported))
	for name := range r.unsupported {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Unsupported, len(names))
	for i, name := range names {
		out[i] = Unsupported{Construct: name}
	}
	return out
}

func (r *Resolver) resolve(ident string) (linkdb.Target, bool) {
	return r.db.Resolve(ident)
}

func (r *Resolver) warnUnknown(ident string) {
	if r.unknownSeen[ident] {
		return
	}
	r.unknownSeen[ident] = true
	r.unknown = append(r.unknown, Warning{Ident: ident})
}

func (r *Resolver) warnUnsupported(construct string) {
	r.unsupported[construct] = true
}

// ResolveDoc rewrites one markdown document, registering footer definitions
// in set. headingShift pushes the prose's headings down so they nest under
// the generated section headings (H1 becomes H4, capped at H6).
func (r *Resolver) ResolveDoc(doc string, set *LinkSet, headingShift int) string {
	if doc == "" {
		return ""
	}
	src := []byte(doc)
	root := r.md.Parser().Parse(text.NewReader(src))
	w := &mdWriter{r: r, set: set, src: src, headingShift: headingShift}
	w.writeBlocks(root, "")
	return w.String()
}

// reference emits a shortcut reference to target and registers its footer
// definition. code styles the text as an inline code span.
func (r *Resolver) reference(set *LinkSet, target linkdb.Target, code bool) string {
	natural := target.Display
	if code {
		natural = "`" + target.Display + "`"
	}
	label := set.Register(target, natural)
	if label == natural {
		return "[" + natural + "]"
	}
	return "[" + natural + "][" + label + "]"
}

// TypeMarkdown renders one signature type reference: a shortcut link when
// the name resolves, the verbatim name otherwise (with a warning), "void"
// for the unit type, an "(opt)" suffix for optional references.
func (r *Resolver) TypeMarkdown(t model.TypeRef, set *LinkSet) string {
	if t.Void() {
		return "void"
	}
	var out string
	if target, ok := r.resolve(t.Name); ok {
		out = r.reference(set, target, false)
	} else {
		r.warnUnknown(t.Name)
		out = t.Name
	}
	if t.Optional {
		out += " (opt)"
	}
	return out
}
