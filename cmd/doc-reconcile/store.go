// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doc-reconcile/internal/store"
	"github.com/pdiddy/doc-reconcile/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the SQLite catalog",
	Long: `Store loads records into the SQLite catalog and lists them. Records
are grouped by importer; --partition selects one importer's records.`,
}

// --- import subcommand ---

var storeImportCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Load catalog records from a YAML list",
	Long: `Import reads a YAML list of records (id, title, author, created) and
upserts them under --importer. Records without an id get the slug of
their title.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := storeConfig(cmd)
		if err != nil {
			return err
		}
		importer, _ := cmd.Flags().GetString("importer")
		return runStoreImport(cmd.Context(), cfg, args[0], importer, cmd.OutOrStdout())
	},
}

func runStoreImport(ctx context.Context, cfg types.StoreConfig, path, importer string, out io.Writer) error {
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := st.ImportYAML(ctx, path, importer)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Imported %s record(s) into %s\n", humanize.Comma(int64(n)), cfg.DBPath)
	return nil
}

// --- list subcommand ---

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog records",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := storeConfig(cmd)
		if err != nil {
			return err
		}
		return runStoreList(cmd.Context(), cfg, cmd.OutOrStdout())
	},
}

func runStoreList(ctx context.Context, cfg types.StoreConfig, out io.Writer) error {
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	st.SetLogger(logger)

	records, err := st.Records(ctx, cfg.Partition)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No records found.")
		return nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"ID", "Title", "Author", "Created"})
	for _, r := range records {
		t.AppendRow(table.Row{r.Identifier, r.RawTitle, r.RawAuthor, humanize.Time(r.Created)})
	}
	t.AppendFooter(table.Row{"", "", "Total", humanize.Comma(int64(len(records)))})
	fmt.Fprintln(out, t.Render())
	return nil
}

// storeConfig resolves only the catalog settings; the store subcommands do
// not need a docs directory.
func storeConfig(cmd *cobra.Command) (types.StoreConfig, error) {
	v := viper.GetViper()
	for _, flag := range []string{"db", "partition"} {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(flagKeys[flag], f); err != nil {
				return types.StoreConfig{}, fmt.Errorf("binding flag --%s: %w", flag, err)
			}
		}
	}
	cfg := types.StoreConfig{
		DBPath:    v.GetString("store.db_path"),
		Partition: v.GetString("store.partition"),
	}
	if cfg.DBPath == "" {
		return types.StoreConfig{}, fmt.Errorf("store.db_path is required")
	}
	return cfg, nil
}

func init() {
	storeImportCmd.Flags().String("importer", "manual", "importer name recorded on each record")

	storeCmd.AddCommand(storeImportCmd)
	storeCmd.AddCommand(storeListCmd)
	rootCmd.AddCommand(storeCmd)
}
