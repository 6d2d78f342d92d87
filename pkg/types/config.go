// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// ScanConfig holds settings for the disk collector.
type ScanConfig struct {
	// DocsDir is the directory scanned for documents.
	DocsDir string `json:"docs_dir" yaml:"docs_dir" mapstructure:"docs_dir"`

	// Extensions lists the file extensions to include (e.g. ".md", ".pdf").
	Extensions []string `json:"extensions" yaml:"extensions" mapstructure:"extensions"`

	// Frontmatter controls whether Markdown frontmatter is parsed for title and author.
	Frontmatter bool `json:"frontmatter" yaml:"frontmatter" mapstructure:"frontmatter"`
}

// DefaultExtensions are scanned when ScanConfig.Extensions is empty.
var DefaultExtensions = []string{".md", ".markdown", ".pdf", ".txt"}

// StoreConfig holds settings for the SQLite store collector.
type StoreConfig struct {
	// DBPath is the SQLite database file.
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`

	// Partition restricts records to one importer (e.g. "anarchist-library").
	// Empty selects every record.
	Partition string `json:"partition" yaml:"partition" mapstructure:"partition"`
}

// ReconcileConfig holds settings for the match engine.
type ReconcileConfig struct {
	// MinPartialLen is the minimum length of the shorter key in a
	// substring match (default 10).
	MinPartialLen int `json:"min_partial_len" yaml:"min_partial_len" mapstructure:"min_partial_len"`
}

// OutputFormat selects how a report is rendered.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// OutputConfig holds settings for report rendering and audit files.
type OutputConfig struct {
	// Format selects the terminal rendering: table, json, or yaml.
	Format OutputFormat `json:"format" yaml:"format" mapstructure:"format"`

	// Limit caps the rows shown per table section. Zero shows everything.
	Limit int `json:"limit" yaml:"limit" mapstructure:"limit"`

	// CSVPath, when set, receives the disk-only and store-only entries.
	CSVPath string `json:"csv_path,omitempty" yaml:"csv_path,omitempty" mapstructure:"csv_path"`

	// SQLPath, when set, receives UPDATE statements for store-only records.
	SQLPath string `json:"sql_path,omitempty" yaml:"sql_path,omitempty" mapstructure:"sql_path"`

	// SQLTable and SQLSet configure the generated UPDATE statements
	// (e.g. table "documents", set "status = 'missing_file'").
	SQLTable string `json:"sql_table" yaml:"sql_table" mapstructure:"sql_table"`
	SQLSet   string `json:"sql_set" yaml:"sql_set" mapstructure:"sql_set"`
}

// AuthorConfig holds settings for author write-back.
type AuthorConfig struct {
	// MinConfidence is the lowest extraction confidence proposed for write-back.
	MinConfidence int `json:"min_confidence" yaml:"min_confidence" mapstructure:"min_confidence"`
}

// Config groups all settings for one invocation.
type Config struct {
	Scan      ScanConfig      `json:"scan" yaml:"scan" mapstructure:"scan"`
	Store     StoreConfig     `json:"store" yaml:"store" mapstructure:"store"`
	Reconcile ReconcileConfig `json:"reconcile" yaml:"reconcile" mapstructure:"reconcile"`
	Output    OutputConfig    `json:"output" yaml:"output" mapstructure:"output"`
	Author    AuthorConfig    `json:"author" yaml:"author" mapstructure:"author"`
}

// Validate reports the first invalid setting, if any.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Scan.DocsDir) == "" {
		return fmt.Errorf("scan.docs_dir is required")
	}
	if strings.TrimSpace(c.Store.DBPath) == "" {
		return fmt.Errorf("store.db_path is required")
	}
	if c.Reconcile.MinPartialLen < 1 {
		return fmt.Errorf("reconcile.min_partial_len must be at least 1, got %d", c.Reconcile.MinPartialLen)
	}
	switch c.Output.Format {
	case FormatTable, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unsupported output format %q: use table, json, or yaml", c.Output.Format)
	}
	if c.Output.Limit < 0 {
		return fmt.Errorf("output.limit must not be negative, got %d", c.Output.Limit)
	}
	if c.Output.SQLPath != "" && (c.Output.SQLTable == "" || c.Output.SQLSet == "") {
		return fmt.Errorf("output.sql_table and output.sql_set are required when output.sql_path is set")
	}
	if c.Author.MinConfidence < 0 || c.Author.MinConfidence > 100 {
		return fmt.Errorf("author.min_confidence must be between 0 and 100, got %d", c.Author.MinConfidence)
	}
	return nil
}
