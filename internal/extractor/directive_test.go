package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitDoc(t *testing.T) {
	t.Run("class directive with inherit", func(t *testing.T) {
		prose, d, warns := splitDoc("Counter accumulates values.\n\ngodot:class inherit=Node")
		assert.Empty(t, warns)
		assert.True(t, d.class)
		assert.Equal(t, "Node", d.inherit)
		assert.Equal(t, "Counter accumulates values.", prose)
	})

	t.Run("export directive with options", func(t *testing.T) {
		prose, d, warns := splitDoc("Scales the value.\n\ngodot:export opt(factor=2, label=\"x\")")
		assert.Empty(t, warns)
		assert.True(t, d.export)
		assert.Equal(t, "2", d.opts["factor"])
		assert.Equal(t, "\"x\"", d.opts["label"])
		assert.Equal(t, "Scales the value.", prose)
	})

	t.Run("no directive", func(t *testing.T) {
		prose, d, warns := splitDoc("Just prose.")
		assert.Empty(t, warns)
		assert.False(t, d.class)
		assert.False(t, d.export)
		assert.Equal(t, "Just prose.", prose)
	})

	t.Run("unknown class argument warns", func(t *testing.T) {
		_, d, warns := splitDoc("godot:class extends=Node")
		assert.True(t, d.class)
		require.Len(t, warns, 1)
		assert.Contains(t, warns[0], "extends=Node")
	})

	t.Run("malformed opt clause warns", func(t *testing.T) {
		_, d, warns := splitDoc("godot:export opt(factor)")
		assert.True(t, d.export)
		require.Len(t, warns, 1)
		assert.Contains(t, warns[0], "factor")
	})

	t.Run("directive lines never reach the prose", func(t *testing.T) {
		prose, _, _ := splitDoc("Line one.\ngodot:export\nLine two.")
		assert.Equal(t, "Line one.\nLine two.", prose)
	})
}

func TestParseOptArgs_QuotedComma(t *testing.T) {
	opts, warns := parseOptArgs(`opt(greeting="hello, world", count=3)`)
	assert.Empty(t, warns)
	assert.Equal(t, `"hello, world"`, opts["greeting"])
	assert.Equal(t, "3", opts["count"])
}

func TestIsLiteral(t *testing.T) {
	literals := []string{"true", "false", "null", "0", "-42", "3.14", "1e9", `"text"`, "'c'"}
	for _, s := range literals {
		assert.True(t, isLiteral(s), "%q should be a literal", s)
	}
	notLiterals := []string{"MaxInt", "Vector2()", "", "1 + 2", "someVar"}
	for _, s := range notLiterals {
		assert.False(t, isLiteral(s), "%q should not be a literal", s)
	}
}

func TestSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Add":             "add",
		"RecalculateCost": "recalculate_cost",
		"HTTPGet":         "http_get",
		"ParseJSON":       "parse_json",
		"A":               "a",
		"Get2D":           "get2d",
	}
	for in, want := range tests {
		assert.Equal(t, want, snakeCase(in), "snakeCase(%q)", in)
	}
}
