// Command gddoc generates cross-referenced documentation for Go classes
// exposed to the Godot runtime through a GDNative-style binding layer.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"gddoc/internal/config"
	"gddoc/internal/fetch"
	"gddoc/internal/pipeline"
	"gddoc/internal/render"
	"gddoc/internal/storage"
)

// Exit codes, from most to least specific.
const (
	exitOK     = 0
	exitConfig = 7
	exitBuild  = 11
	exitError  = 1
)

var (
	configPath string
	cachePath  string
	verbose    bool

	sourceRoot  string
	markdownOut string
	gutOut      string
)

var rootCmd = &cobra.Command{
	Use:           "gddoc",
	Short:         "Documentation generator for Godot binding classes",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(exitCodeFor(err))
	}
}

func init() {
	cobra.OnInitialize(setupLogging)
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", "gddoc-cache.db", "Path to the fetched class-table cache (SQLite)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	generateCmd.Flags().StringVarP(&sourceRoot, "source", "s", ".", "Root of the annotated source tree")
	generateCmd.Flags().StringVar(&markdownOut, "markdown-out", "", "Output directory for the markdown backend")
	generateCmd.Flags().StringVar(&gutOut, "gut-out", "", "Output directory for the gut backend")
	watchCmd.Flags().AddFlagSet(generateCmd.Flags())

	fetchCmd.Flags().String("version", "", "Godot version to fetch (defaults to the configured one)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(watchCmd)
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// buildError marks run outcomes that should exit with the build code.
type buildError struct{ msg string }

func (e *buildError) Error() string { return e.msg }

func exitCodeFor(err error) int {
	if err == nil {
		return exitOK
	}
	if config.IsConfigError(err) {
		return exitConfig
	}
	var be *buildError
	if errors.As(err, &be) {
		return exitBuild
	}
	return exitError
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

// loadCachedClasses pulls the fetched class table for the configured
// version, if a cache database exists. A missing cache is not an error.
func loadCachedClasses(ctx context.Context, version string) map[string]string {
	if cachePath == "" {
		return nil
	}
	if _, err := os.Stat(cachePath); err != nil {
		return nil
	}
	store, err := storage.Open(cachePath)
	if err != nil {
		slog.Warn("class cache unavailable", "path", cachePath, "error", err)
		return nil
	}
	defer store.Close()
	classes, err := store.LoadClasses(ctx, version)
	if err != nil {
		slog.Warn("class cache unreadable", "path", cachePath, "error", err)
		return nil
	}
	if len(classes) > 0 {
		slog.Debug("using fetched class table", "version", version, "classes", len(classes))
	}
	return classes
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate documentation for the annotated source tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd.Context())
	},
}

func runGenerate(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := render.Options{OpeningComment: cfg.OpeningCommentEnabled()}
	var jobs []render.Job
	if markdownOut != "" {
		jobs = append(jobs, render.Job{Backend: render.NewMarkdown(opts), OutputDir: markdownOut})
	}
	if gutOut != "" {
		jobs = append(jobs, render.Job{Backend: render.NewGut(opts), OutputDir: gutOut})
	}
	if len(jobs) == 0 {
		return errors.New("no backend selected: pass --markdown-out and/or --gut-out")
	}

	report, err := pipeline.Run(pipeline.Options{
		SourceRoot:    sourceRoot,
		Config:        cfg,
		Backends:      jobs,
		CachedClasses: loadCachedClasses(ctx, cfg.GodotVersion),
	})
	if err != nil {
		if config.IsConfigError(err) {
			return err
		}
		return &buildError{msg: err.Error()}
	}

	slog.Info("documentation generated",
		"run_id", report.RunID,
		"godot_version", report.GodotVersion,
		"classes", report.Classes,
		"methods", report.Methods,
	)
	// Warnings are aggregated here, after the run, never interleaved with
	// output writing.
	for _, w := range report.Warnings {
		slog.Warn(w.String())
	}
	for _, res := range report.Backends {
		if res.Err != nil {
			slog.Error("backend failed", "backend", res.Backend, "error", res.Err)
			continue
		}
		slog.Debug("backend complete", "backend", res.Backend, "files", len(res.Files))
	}
	if report.AllBackendsFailed() {
		return &buildError{msg: "every backend failed"}
	}
	return nil
}

var fetchCmd = &cobra.Command{
	Use:   "fetch-classes",
	Short: "Fetch the builtin class table from the engine repository into the local cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		version, _ := cmd.Flags().GetString("version")
		if version == "" {
			version = cfg.GodotVersion
		}

		slog.Info("fetching class table", "version", version)
		fetcher := &fetch.Fetcher{}
		classes, err := fetcher.Classes(cmd.Context(), version)
		if err != nil {
			return err
		}

		store, err := storage.Open(cachePath)
		if err != nil {
			return fmt.Errorf("open cache %s: %w", cachePath, err)
		}
		defer store.Close()
		if err := store.SaveClasses(cmd.Context(), version, classes); err != nil {
			return fmt.Errorf("save cache: %w", err)
		}
		slog.Info("class table cached", "version", version, "classes", len(classes), "cache", cachePath)
		return nil
	},
}
