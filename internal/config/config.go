// Package config loads and validates the gddoc configuration file.
//
// The file is YAML. Unknown keys are rejected so a typo never silently
// disables an override. Values can be overlaid from the environment
// (GDDOC_*), with a .env file loaded first when present.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// DefaultGodotVersion is used when the config file does not pin one.
const DefaultGodotVersion = "3.5"

// SupportedGodotVersions lists the engine versions with a builtin class table.
var SupportedGodotVersions = []string{"3.2", "3.3", "3.4", "3.5"}

// Markdown extension flags accepted in markdown_options.
const (
	OptionFootnotes        = "FOOTNOTES"
	OptionSmartPunctuation = "SMART_PUNCTUATION"
	OptionStrikethrough    = "STRIKETHROUGH"
	OptionTables           = "TABLES"
	OptionTasklists        = "TASKLISTS"
)

// Error is a fatal configuration error. The run aborts before extraction
// when one is returned.
type Error struct {
	Key    string
	Reason string
}

func (e *Error) Error() string {
	if e.Key == "" {
		return "config: " + e.Reason
	}
	return fmt.Sprintf("config: %s: %s", e.Key, e.Reason)
}

// Errorf builds a config Error for the given key.
func Errorf(key, format string, args ...any) *Error {
	return &Error{Key: key, Reason: fmt.Sprintf(format, args...)}
}

// IsConfigError reports whether err is (or wraps) a configuration error.
func IsConfigError(err error) bool {
	var ce *Error
	return errors.As(err, &ce)
}

// Config is the consumed configuration shape.
type Config struct {
	// GodotVersion selects the builtin class table, e.g. "3.5".
	GodotVersion string `yaml:"godot_version"`
	// URLOverrides force the link target for a name, beating the builtin
	// table.
	URLOverrides map[string]string `yaml:"url_overrides"`
	// RenameClasses maps a declared class name to the display name used in
	// headings and link text. The lookup key stays the declared name.
	RenameClasses map[string]string `yaml:"rename_classes"`
	// MarkdownOptions enables markdown extensions by flag name.
	MarkdownOptions []string `yaml:"markdown_options"`
	// OpeningComment controls the generated-file header comment.
	// Defaults to true.
	OpeningComment *bool `yaml:"opening_comment"`
}

// Load reads, overlays and validates the configuration at path.
func Load(path string) (*Config, error) {
	// .env is optional; ignore a missing file.
	_ = godotenv.Load()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes and validates a raw YAML document.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, Errorf("", "parse: %v", err)
	}

	if v := os.Getenv("GDDOC_GODOT_VERSION"); v != "" {
		cfg.GodotVersion = v
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.GodotVersion == "" {
		c.GodotVersion = DefaultGodotVersion
	}
	if c.OpeningComment == nil {
		enabled := true
		c.OpeningComment = &enabled
	}
}

func (c *Config) validate() error {
	if !supportedVersion(c.GodotVersion) {
		return Errorf("godot_version", "unsupported version %q (supported: %v)",
			c.GodotVersion, SupportedGodotVersions)
	}
	for _, opt := range c.MarkdownOptions {
		switch opt {
		case OptionFootnotes, OptionSmartPunctuation, OptionStrikethrough,
			OptionTables, OptionTasklists:
		default:
			return Errorf("markdown_options", "unknown option %q", opt)
		}
	}
	return nil
}

func supportedVersion(v string) bool {
	for _, s := range SupportedGodotVersions {
		if s == v {
			return true
		}
	}
	return false
}

// OpeningCommentEnabled resolves the header-comment toggle.
func (c *Config) OpeningCommentEnabled() bool {
	return c.OpeningComment == nil || *c.OpeningComment
}

// MarkdownExtensions maps the enabled option flags to goldmark extenders.
// Validation has already rejected unknown flags.
func (c *Config) MarkdownExtensions() []goldmark.Extender {
	var exts []goldmark.Extender
	for _, opt := range c.MarkdownOptions {
		switch opt {
		case OptionFootnotes:
			exts = append(exts, extension.Footnote)
		case OptionSmartPunctuation:
			exts = append(exts, extension.Typographer)
		case OptionStrikethrough:
			exts = append(exts, extension.Strikethrough)
		case OptionTables:
			exts = append(exts, extension.Table)
		case OptionTasklists:
			exts = append(exts, extension.TaskList)
		}
	}
	return exts
}
