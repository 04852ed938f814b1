package render

import "gddoc/internal/links"

// TOC is the index artifact: one entry per class, in model order. It is a
// pure function of the resolved model, so repeated runs over unchanged
// input produce the same entries in the same order.
type TOC struct {
	Entries []TOCEntry
}

// TOCEntry links a class to its backend-specific output unit.
type TOCEntry struct {
	Display string
	File    string
}

// BuildTOC lists every class for the backend with the given extension.
func BuildTOC(resolved *links.ResolvedModel, ext string) TOC {
	toc := TOC{Entries: make([]TOCEntry, 0, len(resolved.Classes))}
	for _, rc := range resolved.Classes {
		toc.Entries = append(toc.Entries, TOCEntry{
			Display: rc.Display,
			File:    "./" + rc.Display + "." + ext,
		})
	}
	return toc
}
