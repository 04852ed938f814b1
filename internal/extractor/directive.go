package extractor

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Binding directives recognized in doc comments. A directive line never
// reaches the documentation prose.
const (
	directiveClass  = "godot:class"
	directiveExport = "godot:export"
)

// directives holds the parsed annotation state of one declaration.
type directives struct {
	class   bool
	export  bool
	inherit string
	opts    map[string]string
}

// splitDoc separates binding directives from documentation prose. Malformed
// directive arguments come back as warnings; the directive itself still
// takes effect where its meaning is unambiguous.
func splitDoc(doc string) (string, directives, []string) {
	var (
		d     directives
		prose []string
		warns []string
	)
	for _, line := range strings.Split(doc, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, directiveClass):
			d.class = true
			args := strings.TrimSpace(strings.TrimPrefix(trimmed, directiveClass))
			for _, arg := range strings.Fields(args) {
				key, value, ok := strings.Cut(arg, "=")
				if !ok || key != "inherit" {
					warns = append(warns, fmt.Sprintf("unknown %s argument %q", directiveClass, arg))
					continue
				}
				d.inherit = value
			}
		case strings.HasPrefix(trimmed, directiveExport):
			d.export = true
			args := strings.TrimSpace(strings.TrimPrefix(trimmed, directiveExport))
			opts, ws := parseOptArgs(args)
			if d.opts == nil {
				d.opts = opts
			} else {
				for k, v := range opts {
					d.opts[k] = v
				}
			}
			warns = append(warns, ws...)
		default:
			prose = append(prose, line)
		}
	}
	return strings.TrimSpace(strings.Join(prose, "\n")), d, warns
}

// parseOptArgs reads the optional-parameter clause of an export directive:
//
//	opt(name=literal, other="text")
func parseOptArgs(args string) (map[string]string, []string) {
	if args == "" {
		return nil, nil
	}
	var warns []string
	inner, ok := strings.CutPrefix(args, "opt(")
	if !ok || !strings.HasSuffix(inner, ")") {
		return nil, []string{fmt.Sprintf("unknown %s argument %q", directiveExport, args)}
	}
	inner = strings.TrimSuffix(inner, ")")

	opts := make(map[string]string)
	for _, pair := range splitTopLevel(inner) {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			warns = append(warns, fmt.Sprintf("malformed opt() entry %q", pair))
			continue
		}
		opts[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if len(opts) == 0 {
		opts = nil
	}
	return opts, warns
}

// splitTopLevel splits on commas outside quoted strings.
func splitTopLevel(s string) []string {
	var (
		parts   []string
		start   int
		inQuote rune
	)
	for i, r := range s {
		switch {
		case inQuote != 0:
			if r == inQuote {
				inQuote = 0
			}
		case r == '"' || r == '\'':
			inQuote = r
		case r == ',':
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// isLiteral reports whether a default value is representable in the
// generated signature: bools, null, numbers and quoted strings.
func isLiteral(s string) bool {
	switch s {
	case "true", "false", "null":
		return true
	}
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return true
		}
	}
	if _, err := strconv.ParseInt(s, 0, 64); err == nil {
		return true
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	return false
}

// snakeCase converts an exported Go name to the scripting-side spelling:
// RecalculateCost becomes recalculate_cost, HTTPGet becomes http_get.
func snakeCase(name string) string {
	runes := []rune(name)
	var sb strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && (prevLower || nextLower) {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
