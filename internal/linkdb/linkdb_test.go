package linkdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gddoc/internal/config"
)

func testDB(t *testing.T, cfg *config.Config, classes []string) *DB {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	db, err := Build(cfg, classes, nil)
	require.NoError(t, err)
	return db
}

func TestResolve_BuiltinClass(t *testing.T) {
	db := testDB(t, nil, nil)

	target, ok := db.Resolve("Node")
	require.True(t, ok)
	assert.Equal(t, TargetExternal, target.Kind)
	assert.Equal(t, "https://docs.godotengine.org/en/3.5/classes/class_node.html", target.URL)
	assert.Equal(t, "Node", target.Display)
}

func TestResolve_GoTypeRename(t *testing.T) {
	db := testDB(t, nil, nil)

	tests := []struct {
		ident   string
		display string
		page    string
	}{
		{"int64", "int", "class_int.html"},
		{"float32", "float", "class_float.html"},
		{"string", "String", "class_string.html"},
		{"[]int32", "PoolIntArray", "class_poolintarray.html"},
	}
	for _, tt := range tests {
		t.Run(tt.ident, func(t *testing.T) {
			target, ok := db.Resolve(tt.ident)
			require.True(t, ok)
			assert.Equal(t, TargetExternal, target.Kind)
			assert.Equal(t, tt.display, target.Display)
			assert.Contains(t, target.URL, tt.page)
		})
	}
}

func TestResolve_Constants(t *testing.T) {
	db := testDB(t, nil, nil)

	target, ok := db.Resolve("PI")
	require.True(t, ok)
	assert.Equal(t, "https://docs.godotengine.org/en/3.5/classes/class_@gdscript.html#constants", target.URL)

	target, ok = db.Resolve("FAILED")
	require.True(t, ok)
	assert.Contains(t, target.URL, "class_@globalscope.html#enum-globalscope-error")
}

func TestResolve_DeclaredClassBeatsBuiltin(t *testing.T) {
	// A documented class shadowing a builtin name links internally.
	db := testDB(t, nil, []string{"Node"})

	target, ok := db.Resolve("Node")
	require.True(t, ok)
	assert.Equal(t, TargetInternal, target.Kind)
	assert.Equal(t, "Node", target.Class)
}

func TestResolve_RenamedClassAliases(t *testing.T) {
	cfg := config.Default()
	cfg.RenameClasses = map[string]string{"Foo": "Bar"}
	db := testDB(t, cfg, []string{"Foo"})

	byDeclared, ok := db.Resolve("Foo")
	require.True(t, ok)
	byDisplay, ok := db.Resolve("Bar")
	require.True(t, ok)

	// Both names land on the same target, so re-resolving resolved text
	// cannot drift.
	assert.Equal(t, byDeclared.Key(), byDisplay.Key())
	assert.Equal(t, "Bar", byDeclared.Class)
	assert.Equal(t, "Bar", db.Display("Foo"))
}

func TestResolve_OverridePrecedence(t *testing.T) {
	cfg := config.Default()
	cfg.URLOverrides = map[string]string{"Node": "https://example.com/node"}
	db := testDB(t, cfg, nil)

	target, ok := db.Resolve("Node")
	require.True(t, ok)
	assert.Equal(t, TargetExternal, target.Kind)
	assert.Equal(t, "https://example.com/node", target.URL)
}

func TestResolve_OverrideAppliesAfterRename(t *testing.T) {
	cfg := config.Default()
	cfg.URLOverrides = map[string]string{"int": "https://example.com/int"}
	db := testDB(t, cfg, nil)

	// "int64" renames to "int" first, then the override wins.
	target, ok := db.Resolve("int64")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/int", target.URL)
}

func TestResolve_OverrideOnDeclaredClass(t *testing.T) {
	cfg := config.Default()
	cfg.URLOverrides = map[string]string{"Foo": "https://example.com/foo"}
	cfg.RenameClasses = map[string]string{"Foo": "Bar"}
	db := testDB(t, cfg, []string{"Foo"})

	// The override wins over the internal unit under the declared name and
	// under the display alias alike, so a second resolution pass over
	// already-resolved text keeps pointing at the same URL.
	byDeclared, ok := db.Resolve("Foo")
	require.True(t, ok)
	byDisplay, ok := db.Resolve("Bar")
	require.True(t, ok)

	assert.Equal(t, TargetExternal, byDeclared.Kind)
	assert.Equal(t, "https://example.com/foo", byDeclared.URL)
	assert.Equal(t, "Bar", byDeclared.Display)
	assert.Equal(t, byDeclared.Key(), byDisplay.Key())
}

func TestResolve_OverrideOnDisplayName(t *testing.T) {
	cfg := config.Default()
	cfg.URLOverrides = map[string]string{"Bar": "https://example.com/bar"}
	cfg.RenameClasses = map[string]string{"Foo": "Bar"}
	db := testDB(t, cfg, []string{"Foo"})

	byDeclared, ok := db.Resolve("Foo")
	require.True(t, ok)
	byDisplay, ok := db.Resolve("Bar")
	require.True(t, ok)

	assert.Equal(t, TargetExternal, byDeclared.Kind)
	assert.Equal(t, "https://example.com/bar", byDeclared.URL)
	assert.Equal(t, byDeclared.Key(), byDisplay.Key())
}

func TestResolve_Unknown(t *testing.T) {
	db := testDB(t, nil, nil)

	_, ok := db.Resolve("DefinitelyNotAClass")
	assert.False(t, ok)

	// Lookup is case-sensitive.
	_, ok = db.Resolve("node")
	assert.False(t, ok)
}

func TestBuild_AmbiguousOverride(t *testing.T) {
	cfg := config.Default()
	cfg.URLOverrides = map[string]string{"Node": "https://example.com/node"}

	_, err := Build(cfg, []string{"Node"}, nil)
	require.Error(t, err)
	assert.True(t, config.IsConfigError(err))
	assert.Contains(t, err.Error(), "url_overrides")
}

func TestBuild_UnknownVersion(t *testing.T) {
	cfg := config.Default()
	cfg.GodotVersion = "9.9"

	_, err := Build(cfg, nil, nil)
	require.Error(t, err)
}

func TestBuild_CachedClassesExtendTable(t *testing.T) {
	cfg := config.Default()
	db, err := Build(cfg, nil, map[string]string{
		"FreshClass": "https://docs.godotengine.org/en/3.5/classes/class_freshclass.html",
	})
	require.NoError(t, err)

	target, ok := db.Resolve("FreshClass")
	require.True(t, ok)
	assert.Equal(t, TargetExternal, target.Kind)
	assert.Contains(t, target.URL, "class_freshclass.html")
}

func TestBuild_EveryVersionHasTable(t *testing.T) {
	for _, version := range config.SupportedGodotVersions {
		t.Run(version, func(t *testing.T) {
			cfg := config.Default()
			cfg.GodotVersion = version
			db, err := Build(cfg, nil, nil)
			require.NoError(t, err)

			_, ok := db.Resolve("Object")
			assert.True(t, ok)
			assert.Equal(t, version, db.Version())
		})
	}
}

func TestTargetKey(t *testing.T) {
	internal := Target{Kind: TargetInternal, Class: "Bar", Display: "Bar"}
	external := Target{Kind: TargetExternal, URL: "https://example.com", Display: "Bar"}
	assert.Equal(t, "internal:Bar", internal.Key())
	assert.Equal(t, "url:https://example.com", external.Key())
	assert.NotEqual(t, internal.Key(), external.Key())
}
