package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(""))
	require.NoError(t, err)

	assert.Equal(t, DefaultGodotVersion, cfg.GodotVersion)
	assert.True(t, cfg.OpeningCommentEnabled())
	assert.Empty(t, cfg.MarkdownOptions)
	assert.Empty(t, cfg.URLOverrides)
}

func TestParse_FullDocument(t *testing.T) {
	raw := []byte(`
godot_version: "3.4"
url_overrides:
  Reference: "https://example.com/reference.html"
rename_classes:
  Foo: Bar
markdown_options:
  - TABLES
  - STRIKETHROUGH
opening_comment: false
`)
	cfg, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "3.4", cfg.GodotVersion)
	assert.Equal(t, "https://example.com/reference.html", cfg.URLOverrides["Reference"])
	assert.Equal(t, "Bar", cfg.RenameClasses["Foo"])
	assert.False(t, cfg.OpeningCommentEnabled())
	assert.Len(t, cfg.MarkdownExtensions(), 2)
}

func TestParse_Rejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unknown key", "godot_versoin: \"3.5\"\n"},
		{"unsupported version", "godot_version: \"4.0\"\n"},
		{"unknown markdown option", "markdown_options: [TABLES, FOOTNOTE]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			require.Error(t, err)
			assert.True(t, IsConfigError(err), "should be a config error: %v", err)
		})
	}
}

func TestParse_EnvOverridesVersion(t *testing.T) {
	t.Setenv("GDDOC_GODOT_VERSION", "3.2")

	cfg, err := Parse([]byte("godot_version: \"3.5\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "3.2", cfg.GodotVersion)
}

func TestParse_EnvOverrideStillValidated(t *testing.T) {
	t.Setenv("GDDOC_GODOT_VERSION", "2.1")

	_, err := Parse([]byte(""))
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestMarkdownExtensions_AllOptions(t *testing.T) {
	cfg, err := Parse([]byte(`
markdown_options:
  - FOOTNOTES
  - SMART_PUNCTUATION
  - STRIKETHROUGH
  - TABLES
  - TASKLISTS
`))
	require.NoError(t, err)
	assert.Len(t, cfg.MarkdownExtensions(), 5)
}

func TestErrorf_Message(t *testing.T) {
	err := Errorf("godot_version", "unsupported version %q", "9.9")
	assert.Equal(t, `config: godot_version: unsupported version "9.9"`, err.Error())
	assert.True(t, IsConfigError(err))
}
