// Package linkdb builds the name-to-target lookup table used by link
// resolution: builtin engine classes and constants for the configured Godot
// version, user URL overrides, Go-to-GDScript type renames, and the classes
// declared in the documented source.
package linkdb

import (
	"bufio"
	"embed"
	"fmt"
	"strings"

	"gddoc/internal/config"
)

//go:embed classes/godot_classes-*.txt
var classTables embed.FS

// TargetKind discriminates the resolved target variants.
type TargetKind int

const (
	// TargetExternal links to a URL, usually the engine documentation.
	TargetExternal TargetKind = iota
	// TargetInternal links to another generated output unit. The final
	// destination depends on the backend's file extension.
	TargetInternal
)

// Target is one resolved lookup result.
type Target struct {
	Kind TargetKind
	// URL is set for external targets.
	URL string
	// Class is the display name of the linked class for internal targets;
	// backends derive the destination from it.
	Class string
	// Display is the text a link to this target should carry.
	Display string
}

// Key returns a stable identity for footer-definition deduplication.
func (t Target) Key() string {
	if t.Kind == TargetInternal {
		return "internal:" + t.Class
	}
	return "url:" + t.URL
}

// Constants that should link into the engine documentation alongside the
// class table. Section may be empty.
var godotConstants = []struct {
	name    string
	page    string
	section string
}{
	{"true", "class_bool", ""},
	{"false", "class_bool", ""},
	{"PI", "class_@gdscript", "constants"},
	{"TAU", "class_@gdscript", "constants"},
	{"INF", "class_@gdscript", "constants"},
	{"NAN", "class_@gdscript", "constants"},
	{"FAILED", "class_@globalscope", "enum-globalscope-error"},
	{"OK", "class_@globalscope", "enum-globalscope-error"},
}

// goToGodot maps Go type names used by the binding layer to their GDScript
// counterparts. Extraction keeps the Go names verbatim; the database owns
// the rename.
var goToGodot = map[string]string{
	"int":       "int",
	"int8":      "int",
	"int16":     "int",
	"int32":     "int",
	"int64":     "int",
	"uint":      "int",
	"uint8":     "int",
	"uint16":    "int",
	"uint32":    "int",
	"uint64":    "int",
	"float32":   "float",
	"float64":   "float",
	"string":    "String",
	"any":       "Variant",
	"[]byte":    "PoolByteArray",
	"[]int32":   "PoolIntArray",
	"[]float32": "PoolRealArray",
	"[]string":  "PoolStringArray",
	"[]Vector2": "PoolVector2Array",
	"[]Vector3": "PoolVector3Array",
	"[]Color":   "PoolColorArray",
	"[]any":     "Array",
}

// DB is the immutable link database for one run.
type DB struct {
	version   string
	builtins  map[string]string // name -> URL
	overrides map[string]string
	renames   map[string]string // declared class -> display
	classes   map[string]string // declared class -> display
	byDisplay map[string]string // display -> declared class
}

// Build assembles the database. classNames are the declared classes in
// model order; cached entries (from the fetched class-table store) extend
// and refresh the embedded table for the same version.
func Build(cfg *config.Config, classNames []string, cached map[string]string) (*DB, error) {
	builtins, err := builtinTable(cfg.GodotVersion)
	if err != nil {
		return nil, err
	}
	for name, url := range cached {
		builtins[name] = url
	}

	db := &DB{
		version:   cfg.GodotVersion,
		builtins:  builtins,
		overrides: cfg.URLOverrides,
		renames:   cfg.RenameClasses,
		classes:   make(map[string]string, len(classNames)),
		byDisplay: make(map[string]string, len(classNames)),
	}
	for _, name := range classNames {
		display := name
		if r, ok := cfg.RenameClasses[name]; ok {
			display = r
		}
		db.classes[name] = display
		db.byDisplay[display] = name
	}

	// An override naming both a builtin and a declared class is ambiguous;
	// refuse to pick a winner.
	for name := range cfg.URLOverrides {
		if _, isBuiltin := builtins[name]; !isBuiltin {
			continue
		}
		if _, isClass := db.classes[name]; isClass {
			return nil, config.Errorf("url_overrides",
				"%q names both a builtin type and a documented class", name)
		}
	}
	return db, nil
}

func builtinTable(version string) (map[string]string, error) {
	raw, err := classTables.ReadFile("classes/godot_classes-" + version + ".txt")
	if err != nil {
		return nil, fmt.Errorf("no builtin class table for godot %s: %w", version, err)
	}
	table := make(map[string]string)
	sc := bufio.NewScanner(strings.NewReader(string(raw)))
	for sc.Scan() {
		class := strings.TrimSpace(sc.Text())
		if class == "" {
			continue
		}
		table[class] = ClassURL(version, class)
	}
	for _, c := range godotConstants {
		url := fmt.Sprintf("%s/%s.html", docBaseURL(version), c.page)
		if c.section != "" {
			url += "#" + c.section
		}
		table[c.name] = url
	}
	return table, nil
}

func docBaseURL(version string) string {
	return fmt.Sprintf("https://docs.godotengine.org/en/%s/classes", version)
}

// ClassURL returns the engine documentation URL of a builtin class for the
// given Godot version.
func ClassURL(version, class string) string {
	return fmt.Sprintf("%s/class_%s.html", docBaseURL(version), strings.ToLower(class))
}

// Display returns the name a reference to ident should show: the configured
// rename for declared classes, the GDScript spelling for Go builtin types,
// otherwise the identifier itself.
func (db *DB) Display(ident string) string {
	if d, ok := db.classes[ident]; ok {
		return d
	}
	if g, ok := goToGodot[ident]; ok {
		return g
	}
	return ident
}

// Resolve looks up an identifier. Lookup is exact-match and case-sensitive.
// The second return is false when the identifier is unknown, in which case
// the caller must leave the original text untouched.
func (db *DB) Resolve(ident string) (Target, bool) {
	// Declared classes resolve through classTarget under every spelling,
	// so the declared name, the display name and any override all land on
	// the same target and re-resolving already-resolved text is a no-op.
	if declared, ok := db.declaredFor(ident); ok {
		return db.classTarget(declared), true
	}
	if url, ok := db.overrides[ident]; ok {
		return Target{Kind: TargetExternal, URL: url, Display: db.Display(ident)}, true
	}

	godotName := ident
	if g, ok := goToGodot[ident]; ok {
		godotName = g
	}
	if url, ok := db.overrides[godotName]; ok {
		return Target{Kind: TargetExternal, URL: url, Display: godotName}, true
	}
	if url, ok := db.builtins[godotName]; ok {
		return Target{Kind: TargetExternal, URL: url, Display: godotName}, true
	}
	return Target{}, false
}

// declaredFor maps a declared class name or a display alias back to the
// declared name.
func (db *DB) declaredFor(ident string) (string, bool) {
	if _, ok := db.classes[ident]; ok {
		return ident, true
	}
	if declared, ok := db.byDisplay[ident]; ok {
		return declared, true
	}
	return "", false
}

// classTarget resolves a declared class. An override on either the declared
// or the display name wins over the internal unit.
func (db *DB) classTarget(declared string) Target {
	display := db.classes[declared]
	if url, ok := db.overrides[declared]; ok {
		return Target{Kind: TargetExternal, URL: url, Display: display}
	}
	if url, ok := db.overrides[display]; ok {
		return Target{Kind: TargetExternal, URL: url, Display: display}
	}
	return Target{Kind: TargetInternal, Class: display, Display: display}
}

// Version returns the Godot version the table was built for.
func (db *DB) Version() string { return db.version }
