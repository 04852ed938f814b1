package links

import "gddoc/internal/linkdb"

// LinkSet collects the shortcut-link definitions of one output unit.
// Definitions are content-addressed by resolved target: repeated references
// to the same target share a single footer entry, and the first occurrence
// fixes the display label.
type LinkSet struct {
	order  []linkdb.Target
	labels map[string]string
}

// NewLinkSet returns an empty set.
func NewLinkSet() *LinkSet {
	return &LinkSet{labels: make(map[string]string)}
}

// Register records a reference to target and returns the label its footer
// definition carries. natural is the label the caller would use if the
// target were new.
func (s *LinkSet) Register(target linkdb.Target, natural string) string {
	key := target.Key()
	if label, ok := s.labels[key]; ok {
		return label
	}
	s.labels[key] = natural
	s.order = append(s.order, target)
	return natural
}

// Definition is one footer entry.
type Definition struct {
	Label  string
	Target linkdb.Target
}

// Definitions returns the footer entries in first-use order.
func (s *LinkSet) Definitions() []Definition {
	defs := make([]Definition, 0, len(s.order))
	for _, t := range s.order {
		defs = append(defs, Definition{Label: s.labels[t.Key()], Target: t})
	}
	return defs
}

// Empty reports whether no definition was registered.
func (s *LinkSet) Empty() bool { return len(s.order) == 0 }
