package links

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// identRe matches a bare identifier, the only shape the link database
// accepts as a lookup key.
var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// shortcutRe finds unresolved shortcut references left as literal text,
// e.g. "[Bool]".
var shortcutRe = regexp.MustCompile(`\[([A-Za-z_][A-Za-z0-9_]*)\]`)

// trailingLabelRe matches the "][Label]" tail of an already-resolved
// code-form reference so a second resolution pass consumes it whole.
var trailingLabelRe = regexp.MustCompile(`^\]\[([A-Za-z_][A-Za-z0-9_]*)\]`)

// mdWriter re-emits a goldmark AST as markdown, rewriting link candidates
// through the resolver on the way out.
type mdWriter struct {
	r            *Resolver
	set          *LinkSet
	src          []byte
	sb           strings.Builder
	headingShift int
	// insideLink suppresses candidate rewriting; a link's destination is
	// resolved instead of its text.
	insideLink bool
}

func (w *mdWriter) String() string {
	return strings.TrimRight(w.sb.String(), "\n")
}

func (w *mdWriter) writeBlocks(parent ast.Node, indent string) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		w.writeBlock(n, indent)
		if n.NextSibling() != nil {
			w.sb.WriteString("\n")
			w.sb.WriteString(indent)
		}
	}
}

func (w *mdWriter) writeBlock(n ast.Node, indent string) {
	switch b := n.(type) {
	case *ast.Heading:
		level := b.Level + w.headingShift
		if level > 6 {
			level = 6
		}
		w.sb.WriteString(strings.Repeat("#", level))
		w.sb.WriteByte(' ')
		w.writeInlines(n)
		w.sb.WriteString("\n")
	case *ast.Paragraph, *ast.TextBlock:
		w.writeInlines(n)
		w.sb.WriteString("\n")
	case *ast.FencedCodeBlock:
		lang := string(b.Language(w.src))
		w.sb.WriteString("```")
		w.sb.WriteString(lang)
		w.sb.WriteString("\n")
		w.writeRawLines(b.Lines(), indent)
		w.sb.WriteString(indent)
		w.sb.WriteString("```\n")
	case *ast.CodeBlock:
		w.writeIndentedCode(b.Lines(), indent)
	case *ast.Blockquote:
		w.writeQuoted(n, indent)
	case *ast.List:
		w.writeList(b, indent)
	case *ast.ThematicBreak:
		w.sb.WriteString("________\n")
	case *ast.HTMLBlock:
		w.writeRawLines(b.Lines(), indent)
		if b.HasClosure() {
			w.sb.WriteString(indent)
			w.sb.Write(b.ClosureLine.Value(w.src))
		}
	case *east.Table:
		// Same stance as the rest of the toolchain's markdown writer:
		// tables in doc comments are not re-emitted.
		w.r.warnUnsupported("table")
	default:
		// Unknown block kinds keep their children, losing only the
		// wrapper formatting.
		w.writeBlocks(n, indent)
	}
}

func (w *mdWriter) writeList(list *ast.List, indent string) {
	i := 0
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		w.sb.WriteString(indent)
		var marker string
		if list.IsOrdered() {
			marker = fmt.Sprintf("%d%c ", list.Start+i, list.Marker)
		} else {
			marker = string(list.Marker) + " "
		}
		w.sb.WriteString(marker)
		inner := indent + strings.Repeat(" ", len(marker))

		first := true
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if !first {
				w.sb.WriteString(inner)
			}
			if task, ok := firstTaskCheckBox(c); ok {
				if task.IsChecked {
					w.sb.WriteString("[x] ")
				} else {
					w.sb.WriteString("[ ] ")
				}
			}
			w.writeBlock(c, inner)
			first = false
		}
		i++
	}
}

func firstTaskCheckBox(n ast.Node) (*east.TaskCheckBox, bool) {
	if c := n.FirstChild(); c != nil {
		if task, ok := c.(*east.TaskCheckBox); ok {
			return task, true
		}
	}
	return nil, false
}

func (w *mdWriter) writeQuoted(n ast.Node, indent string) {
	var inner mdWriter
	inner = mdWriter{r: w.r, set: w.set, src: w.src, headingShift: w.headingShift}
	inner.writeBlocks(n, "")
	for _, line := range strings.Split(inner.String(), "\n") {
		w.sb.WriteString("> ")
		w.sb.WriteString(line)
		w.sb.WriteString("\n")
		w.sb.WriteString(indent)
	}
}

func (w *mdWriter) writeRawLines(lines *text.Segments, indent string) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		w.sb.Write(seg.Value(w.src))
		if i+1 < lines.Len() {
			w.sb.WriteString(indent)
		}
	}
}

func (w *mdWriter) writeIndentedCode(lines *text.Segments, indent string) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		w.sb.WriteString("    ")
		w.sb.Write(seg.Value(w.src))
		if i+1 < lines.Len() {
			w.sb.WriteString(indent)
		}
	}
}

// writeInlines walks the inline children of a block with explicit sibling
// control: the backticked reference form spans three siblings and has to be
// consumed as one candidate.
func (w *mdWriter) writeInlines(parent ast.Node) {
	for n := parent.FirstChild(); n != nil; {
		n = w.writeInline(n)
	}
}

// writeInline renders one inline node and returns the next sibling to
// process (candidates may consume more than one node).
func (w *mdWriter) writeInline(n ast.Node) ast.Node {
	switch i := n.(type) {
	case *ast.Text:
		return w.writeText(i)
	case *ast.String:
		w.sb.Write(i.Value)
	case *ast.CodeSpan:
		content := inlineText(n, w.src)
		if !w.insideLink && identRe.MatchString(content) {
			if target, ok := w.r.resolve(content); ok {
				w.sb.WriteString(w.r.reference(w.set, target, true))
				return n.NextSibling()
			}
			w.r.warnUnknown(content)
		}
		w.writeCodeSpan(content)
	case *ast.Emphasis:
		marker := "*"
		if i.Level == 2 {
			marker = "**"
		}
		w.sb.WriteString(marker)
		w.writeInlines(n)
		w.sb.WriteString(marker)
	case *east.Strikethrough:
		w.sb.WriteString("~~")
		w.writeInlines(n)
		w.sb.WriteString("~~")
	case *ast.Link:
		w.writeLink(i)
	case *ast.AutoLink:
		w.sb.WriteByte('<')
		w.sb.Write(i.URL(w.src))
		w.sb.WriteByte('>')
	case *ast.Image:
		w.sb.WriteString("![")
		w.writeInlines(n)
		w.sb.WriteString("](")
		w.sb.Write(i.Destination)
		if len(i.Title) > 0 {
			w.sb.WriteString(" \"")
			w.sb.Write(i.Title)
			w.sb.WriteString("\"")
		}
		w.sb.WriteString(")")
	case *ast.RawHTML:
		for j := 0; j < i.Segments.Len(); j++ {
			seg := i.Segments.At(j)
			w.sb.Write(seg.Value(w.src))
		}
	case *east.TaskCheckBox:
		// Rendered by the list writer.
	default:
		w.writeInlines(n)
	}
	return n.NextSibling()
}

// writeText emits a text run, rewriting candidate forms: a plain "[Ident]"
// inside the text, and a run ending in "[" followed by a code span and a
// text starting with "]" (the backticked reference form).
func (w *mdWriter) writeText(t *ast.Text) ast.Node {
	content, last := w.textRun(t)

	if !w.insideLink {
		if next, consumed := w.tryCodeReference(last, content); consumed {
			return next
		}
		content = w.rewriteShortcuts(content)
	}
	w.sb.WriteString(content)

	if last.HardLineBreak() {
		w.sb.WriteString("\\\n")
	} else if last.SoftLineBreak() {
		w.sb.WriteString("\n")
	}
	return last.NextSibling()
}

// textRun merges consecutive text siblings into one string. The parser
// gives unmatched bracket characters their own node, so a candidate like
// "[Ident]" only becomes visible on the merged run. Line breaks inside the
// run are kept in place.
func (w *mdWriter) textRun(t *ast.Text) (string, *ast.Text) {
	var sb strings.Builder
	cur := t
	for {
		sb.Write(cur.Segment.Value(w.src))
		next, ok := cur.NextSibling().(*ast.Text)
		if !ok {
			return sb.String(), cur
		}
		if cur.HardLineBreak() {
			sb.WriteString("\\\n")
		} else if cur.SoftLineBreak() {
			sb.WriteString("\n")
		}
		cur = next
	}
}

// tryCodeReference handles `Text "[" + CodeSpan + Text "]"`. It returns the
// node to continue from and whether the pattern was consumed.
func (w *mdWriter) tryCodeReference(last *ast.Text, content string) (ast.Node, bool) {
	if !strings.HasSuffix(content, "[") || last.HardLineBreak() || last.SoftLineBreak() {
		return nil, false
	}
	code, ok := last.NextSibling().(*ast.CodeSpan)
	if !ok {
		return nil, false
	}
	closing, ok := code.NextSibling().(*ast.Text)
	if !ok {
		return nil, false
	}
	closingText, closingLast := w.textRun(closing)
	if !strings.HasPrefix(closingText, "]") {
		return nil, false
	}
	ident := inlineText(code, w.src)
	if !identRe.MatchString(ident) {
		return nil, false
	}
	target, resolved := w.r.resolve(ident)
	if !resolved {
		w.r.warnUnknown(ident)
		return nil, false
	}

	w.sb.WriteString(w.rewriteShortcuts(strings.TrimSuffix(content, "[")))
	w.sb.WriteString(w.r.reference(w.set, target, true))

	// A previous resolution pass may have left an explicit "[Label]" tail;
	// swallow it so re-resolution stays a no-op.
	rest := strings.TrimPrefix(closingText, "]")
	if m := trailingLabelRe.FindStringSubmatch("]" + rest); m != nil {
		if prior, ok := w.r.resolve(m[1]); ok && prior.Key() == target.Key() {
			rest = strings.TrimPrefix(rest, "["+m[1]+"]")
		}
	}
	w.sb.WriteString(w.rewriteShortcuts(rest))
	if closingLast.HardLineBreak() {
		w.sb.WriteString("\\\n")
	} else if closingLast.SoftLineBreak() {
		w.sb.WriteString("\n")
	}
	return closingLast.NextSibling(), true
}

// rewriteShortcuts resolves plain "[Ident]" occurrences left as literal
// text by the parser (references without a matching definition).
func (w *mdWriter) rewriteShortcuts(content string) string {
	return shortcutRe.ReplaceAllStringFunc(content, func(match string) string {
		ident := match[1 : len(match)-1]
		target, ok := w.r.resolve(ident)
		if !ok {
			w.r.warnUnknown(ident)
			return match
		}
		return w.r.reference(w.set, target, false)
	})
}

func (w *mdWriter) writeCodeSpan(content string) {
	w.sb.WriteByte('`')
	w.sb.WriteString(content)
	w.sb.WriteByte('`')
}

func (w *mdWriter) writeLink(l *ast.Link) {
	dest := string(l.Destination)
	if identRe.MatchString(dest) {
		if target, ok := w.r.resolve(dest); ok {
			// Re-emit as a shortcut reference so the footer definition
			// carries the destination.
			w.sb.WriteByte('[')
			prev := w.insideLink
			w.insideLink = true
			w.writeInlines(l)
			w.insideLink = prev
			w.sb.WriteByte(']')
			label := w.set.Register(target, target.Display)
			txt := inlineText(l, w.src)
			if txt != label {
				w.sb.WriteString("[" + label + "]")
			}
			return
		}
		w.r.warnUnknown(dest)
	}
	w.sb.WriteByte('[')
	prev := w.insideLink
	w.insideLink = true
	w.writeInlines(l)
	w.insideLink = prev
	w.sb.WriteString("](")
	w.sb.WriteString(dest)
	if len(l.Title) > 0 {
		w.sb.WriteString(" \"")
		w.sb.Write(l.Title)
		w.sb.WriteString("\"")
	}
	w.sb.WriteString(")")
}

// inlineText flattens the literal text of an inline subtree.
func inlineText(n ast.Node, src []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
		case *ast.String:
			sb.Write(t.Value)
		default:
			sb.WriteString(inlineText(c, src))
		}
	}
	return sb.String()
}
