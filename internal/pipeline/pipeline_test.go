package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gddoc/internal/config"
	"gddoc/internal/render"
)

func TestRun_EndToEnd(t *testing.T) {
	cfg, err := config.Parse([]byte(`
rename_classes:
  Machine: Device
`))
	require.NoError(t, err)

	mdDir := t.TempDir()
	gutDir := t.TempDir()
	report, err := Run(Options{
		SourceRoot: filepath.Join("testdata", "src"),
		Config:     cfg,
		Backends: []render.Job{
			{Backend: render.NewMarkdown(render.Options{OpeningComment: true}), OutputDir: mdDir},
			{Backend: render.NewGut(render.Options{OpeningComment: true}), OutputDir: gutDir},
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "3.5", report.GodotVersion)
	assert.Equal(t, 1, report.Classes)
	assert.Equal(t, 3, report.Methods)
	assert.Empty(t, report.BackendErrors())

	t.Run("markdown output", func(t *testing.T) {
		raw, err := os.ReadFile(filepath.Join(mdDir, "Device.md"))
		require.NoError(t, err)
		out := string(raw)

		assert.Contains(t, out, "# Device\n")
		assert.Contains(t, out, "**Inherit:** [Reference]\n")
		assert.Contains(t, out, "Pair it with a [Node] in the scene.")
		assert.Contains(t, out, "### func new() -> [Device]\n")
		assert.Contains(t, out, "### func boost(amount: [int] = 1) -> [int]\n")
		assert.Contains(t, out, "[Device]: ./Device.md\n")
		assert.Contains(t, out, "[Reference]: https://docs.godotengine.org/en/3.5/classes/class_reference.html\n")
		// Unresolved identifiers stay verbatim.
		assert.Contains(t, out, "[WhoKnows]")
	})

	t.Run("index", func(t *testing.T) {
		raw, err := os.ReadFile(filepath.Join(mdDir, "index.md"))
		require.NoError(t, err)
		out := string(raw)

		assert.Contains(t, out, "Package machine drives the demo device exposed to scripts.")
		assert.Contains(t, out, "- [Device](./Device.md)\n")
	})

	t.Run("gut output", func(t *testing.T) {
		raw, err := os.ReadFile(filepath.Join(gutDir, "Device.gd"))
		require.NoError(t, err)
		out := string(raw)

		assert.Contains(t, out, `extends "res://addons/gut/test.gd"`)
		assert.Contains(t, out, "func test_boost():\n    var m = Machine.new()\n    assert_eq(m.boost(3), 3)\n")
	})

	t.Run("warnings", func(t *testing.T) {
		var idents []string
		for _, w := range report.Warnings {
			if w.Stage == "resolve" {
				idents = append(idents, w.Item)
			}
		}
		assert.Contains(t, idents, "WhoKnows")
	})
}

func TestRun_ConfigErrorIsFatal(t *testing.T) {
	// An override naming both a builtin and a documented class is refused.
	cfg := config.Default()
	cfg.URLOverrides = map[string]string{"Node": "https://example.com/node"}

	_, err := Run(Options{
		SourceRoot: filepath.Join("testdata", "shadow"),
		Config:     cfg,
		Backends:   []render.Job{{Backend: render.NewMarkdown(render.Options{}), OutputDir: t.TempDir()}},
	})
	require.Error(t, err)
	assert.True(t, config.IsConfigError(err))
}

func TestRun_MissingSourceIsFatal(t *testing.T) {
	_, err := Run(Options{
		SourceRoot: filepath.Join("testdata", "does-not-exist"),
		Backends:   []render.Job{{Backend: render.NewMarkdown(render.Options{}), OutputDir: t.TempDir()}},
	})
	require.Error(t, err)
	assert.False(t, config.IsConfigError(err))
}

func TestReport_AllBackendsFailed(t *testing.T) {
	r := &Report{Backends: []render.Result{{Backend: "markdown", Err: assert.AnError}}}
	assert.True(t, r.AllBackendsFailed())

	r.Backends = append(r.Backends, render.Result{Backend: "gut"})
	assert.False(t, r.AllBackendsFailed())

	empty := &Report{}
	assert.False(t, empty.AllBackendsFailed())
}

func TestWarning_String(t *testing.T) {
	w := Warning{Stage: "extract", Item: "Foo.Bar", Message: "dropped"}
	assert.Equal(t, "[extract] Foo.Bar: dropped", w.String())

	w = Warning{Stage: "resolve", Message: "general"}
	assert.Equal(t, "[resolve] general", w.String())
}
