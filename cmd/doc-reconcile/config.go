// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doc-reconcile/internal/reconcile"
	"github.com/pdiddy/doc-reconcile/pkg/types"
)

// envKeyReplacer maps "store.db_path" to DOC_RECONCILE_STORE_DB_PATH.
var envKeyReplacer = strings.NewReplacer(".", "_")

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"docs-dir":        "scan.docs_dir",
	"ext":             "scan.extensions",
	"frontmatter":     "scan.frontmatter",
	"db":              "store.db_path",
	"partition":       "store.partition",
	"min-partial-len": "reconcile.min_partial_len",
	"format":          "output.format",
	"limit":           "output.limit",
	"csv":             "output.csv_path",
	"sql":             "output.sql_path",
	"sql-table":       "output.sql_table",
	"sql-set":         "output.sql_set",
	"min-confidence":  "author.min_confidence",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("scan.docs_dir", ".")
	v.SetDefault("scan.extensions", types.DefaultExtensions)
	v.SetDefault("scan.frontmatter", true)
	v.SetDefault("store.db_path", "doc-reconcile.db")
	v.SetDefault("store.partition", "")
	v.SetDefault("reconcile.min_partial_len", reconcile.DefaultMinPartialLen)
	v.SetDefault("output.format", string(types.FormatTable))
	v.SetDefault("output.limit", 20)
	v.SetDefault("output.csv_path", "")
	v.SetDefault("output.sql_path", "")
	v.SetDefault("output.sql_table", "documents")
	v.SetDefault("output.sql_set", "status = 'missing_file'")
	v.SetDefault("author.min_confidence", 80)
}

// resolveConfig binds the flags cmd defines to their configuration keys
// and returns the merged, validated configuration.
func resolveConfig(cmd *cobra.Command, v *viper.Viper) (types.Config, error) {
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return types.Config{}, fmt.Errorf("binding flag --%s: %w", flag, err)
			}
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}
