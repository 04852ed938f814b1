// Package pipeline sequences one documentation run: extract, build the link
// database, resolve, render. It returns structured results only; logging
// and exit codes belong to the caller.
package pipeline

import (
	"fmt"

	"github.com/google/uuid"

	"gddoc/internal/config"
	"gddoc/internal/extractor"
	"gddoc/internal/linkdb"
	"gddoc/internal/links"
	"gddoc/internal/render"
)

// Options configures one run.
type Options struct {
	SourceRoot string
	Config     *config.Config
	Backends   []render.Job
	// CachedClasses extends the embedded builtin table, usually loaded
	// from the fetch cache. May be nil.
	CachedClasses map[string]string
}

// Warning is one recovered condition, aggregated and reported at run end.
type Warning struct {
	Stage   string
	Item    string
	Message string
}

func (w Warning) String() string {
	if w.Item == "" {
		return fmt.Sprintf("[%s] %s", w.Stage, w.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", w.Stage, w.Item, w.Message)
}

// Report is the structured outcome of a run.
type Report struct {
	RunID        string
	GodotVersion string
	Classes      int
	Methods      int
	Warnings     []Warning
	Backends     []render.Result
}

// BackendErrors returns the failures of individual backends.
func (r *Report) BackendErrors() []error {
	var errs []error
	for _, res := range r.Backends {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errs
}

// AllBackendsFailed reports whether no backend produced output. A partial
// failure still counts as a (degraded) success.
func (r *Report) AllBackendsFailed() bool {
	return len(r.Backends) > 0 && len(r.BackendErrors()) == len(r.Backends)
}

// Run executes the pipeline. The returned error is fatal: configuration
// problems or a source tree that cannot be extracted at all. Everything
// else degrades into report warnings and per-backend errors.
func Run(opts Options) (*Report, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	report := &Report{
		RunID:        uuid.NewString(),
		GodotVersion: cfg.GodotVersion,
	}

	doc, extractWarns, err := extractor.ExtractDir(opts.SourceRoot, cfg.RenameClasses)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	for _, w := range extractWarns {
		report.Warnings = append(report.Warnings, Warning{Stage: "extract", Item: w.Item, Message: w.Message})
	}
	report.Classes = len(doc.Classes)
	report.Methods = doc.MethodCount()

	classNames := make([]string, 0, len(doc.Classes))
	for _, class := range doc.Classes {
		classNames = append(classNames, class.Name)
	}
	db, err := linkdb.Build(cfg, classNames, opts.CachedClasses)
	if err != nil {
		return nil, err
	}

	resolver := links.NewResolver(db, cfg.MarkdownExtensions())
	resolved := resolver.ResolveModel(doc)
	for _, w := range resolver.Warnings() {
		report.Warnings = append(report.Warnings, Warning{
			Stage: "resolve", Item: w.Ident, Message: "unresolved reference left unchanged",
		})
	}
	for _, u := range resolver.UnsupportedConstructs() {
		report.Warnings = append(report.Warnings, Warning{
			Stage: "resolve", Item: u.Construct, Message: "markdown construct not supported by the writer",
		})
	}

	report.Backends = render.RenderAll(resolved, opts.Backends)
	return report, nil
}
