// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doc-reconcile/internal/reconcile"
	"github.com/pdiddy/doc-reconcile/internal/report"
	"github.com/pdiddy/doc-reconcile/internal/scan"
	"github.com/pdiddy/doc-reconcile/internal/store"
	"github.com/pdiddy/doc-reconcile/pkg/types"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Compare the documents on disk with the catalog",
	Long: `Reconcile scans the docs directory, loads the catalog records, and
matches them by normalized title: exact matches first, then substring
matches between the leftovers. The report lists documents missing from
the catalog, records missing from disk, duplicate content, and titles
that could not be normalized.

Use --csv to write the unmatched entries for review and --sql to write
UPDATE statements that flag records whose files are gone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd, viper.GetViper())
		if err != nil {
			return err
		}
		showProgress, _ := cmd.Flags().GetBool("progress")
		_, err = runReconcile(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), showProgress)
		return err
	},
}

func init() {
	addScanFlags(reconcileCmd)
	reconcileCmd.Flags().Int("min-partial-len", reconcile.DefaultMinPartialLen, "shortest title key allowed in a substring match")
	reconcileCmd.Flags().String("format", "table", "output format: table, json, yaml")
	reconcileCmd.Flags().Int("limit", 20, "rows per table section (0 shows all)")
	reconcileCmd.Flags().String("csv", "", "write unmatched entries to this CSV file")
	reconcileCmd.Flags().String("sql", "", "write UPDATE statements for records missing from disk to this file")
	reconcileCmd.Flags().String("sql-table", "documents", "table named in generated UPDATE statements")
	reconcileCmd.Flags().String("sql-set", "status = 'missing_file'", "SET clause of generated UPDATE statements")
	reconcileCmd.Flags().Bool("progress", false, "show a progress bar while scanning")

	rootCmd.AddCommand(reconcileCmd)
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().String("docs-dir", ".", "directory of documents to scan")
	cmd.Flags().StringSlice("ext", types.DefaultExtensions, "file extensions to scan")
	cmd.Flags().Bool("frontmatter", true, "read title and author from Markdown frontmatter")
}

// collect scans the docs directory and loads the catalog partition, then
// runs the match engine over both.
func collect(ctx context.Context, cfg types.Config, errOut io.Writer, showProgress bool) (*types.MatchReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	opts := scan.Options{Logger: logger}
	if showProgress {
		candidates, err := scan.Candidates(cfg.Scan)
		if err != nil {
			return nil, err
		}
		bar := progressbar.NewOptions(len(candidates),
			progressbar.OptionSetWriter(errOut),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Scanning documents"),
			progressbar.OptionClearOnFinish(),
		)
		opts.Progress = func(string) { _ = bar.Add(1) }
		defer bar.Finish()
	}

	scanned, err := scan.Scan(ctx, cfg.Scan, opts)
	if err != nil {
		return nil, err
	}
	if scanned.Failed > 0 {
		logger.Warn("some documents could not be read", "failed", scanned.Failed, "total", scanned.Total())
	}

	st, err := store.Open(cfg.Store)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	st.SetLogger(logger)

	records, err := st.Records(ctx, cfg.Store.Partition)
	if err != nil {
		return nil, err
	}
	logger.Debug("collected inputs", "disk", len(scanned.Documents), "store", len(records))

	return reconcile.Reconcile(scanned.Documents, records, reconcile.Options{
		MinPartialLen: cfg.Reconcile.MinPartialLen,
		Logger:        logger,
	})
}

func runReconcile(ctx context.Context, cfg types.Config, out, errOut io.Writer, showProgress bool) (report.Report, error) {
	mr, err := collect(ctx, cfg, errOut, showProgress)
	if err != nil {
		return report.Report{}, err
	}
	r := report.Build(mr)

	switch cfg.Output.Format {
	case types.FormatJSON:
		err = report.FormatJSON(r, out)
	case types.FormatYAML:
		err = report.FormatYAML(r, out)
	default:
		report.FormatTable(r, out, cfg.Output.Limit)
	}
	if err != nil {
		return r, err
	}

	if cfg.Output.CSVPath != "" {
		if err := writeFile(cfg.Output.CSVPath, func(w io.Writer) error {
			return report.WriteCSV(r, w)
		}); err != nil {
			return r, err
		}
		fmt.Fprintf(errOut, "Wrote %d unmatched entries to %s\n", r.Counts.DiskOnly+r.Counts.StoreOnly, cfg.Output.CSVPath)
	}
	if cfg.Output.SQLPath != "" {
		ids := r.StoreOnlyIDs()
		if err := writeFile(cfg.Output.SQLPath, func(w io.Writer) error {
			return report.WriteSQL(w, cfg.Output.SQLTable, cfg.Output.SQLSet, ids, report.DefaultSQLBatchSize)
		}); err != nil {
			return r, err
		}
		fmt.Fprintf(errOut, "Wrote UPDATE statements for %d records to %s\n", len(ids), cfg.Output.SQLPath)
	}
	return r, nil
}

// writeFile creates path and hands it to write, reporting the first error
// from either the write or the close.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
