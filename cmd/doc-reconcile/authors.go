// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doc-reconcile/internal/author"
	"github.com/pdiddy/doc-reconcile/internal/reconcile"
	"github.com/pdiddy/doc-reconcile/internal/report"
	"github.com/pdiddy/doc-reconcile/internal/store"
	"github.com/pdiddy/doc-reconcile/pkg/types"
)

var authorsCmd = &cobra.Command{
	Use:   "authors",
	Short: "Propose catalog authors recovered from matched documents",
	Long: `Authors reconciles the docs directory with the catalog and, for every
matched record that has no author, proposes the author found in the
document's frontmatter or filename. Only authors at or above
--min-confidence are proposed.

By default the proposals are printed as SQL for review. --apply writes
them to the catalog; records that already have an author are never
overwritten.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd, viper.GetViper())
		if err != nil {
			return err
		}
		apply, _ := cmd.Flags().GetBool("apply")
		asTable, _ := cmd.Flags().GetBool("table")
		_, err = runAuthors(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), apply, asTable)
		return err
	},
}

func init() {
	addScanFlags(authorsCmd)
	authorsCmd.Flags().Int("min-partial-len", reconcile.DefaultMinPartialLen, "shortest title key allowed in a substring match")
	authorsCmd.Flags().Int("min-confidence", 80, "lowest extraction confidence to propose (0-100)")
	authorsCmd.Flags().String("sql-table", "documents", "table named in generated UPDATE statements")
	authorsCmd.Flags().Bool("table", false, "print proposals as a table instead of SQL")
	authorsCmd.Flags().Bool("apply", false, "write the proposed authors to the catalog")

	rootCmd.AddCommand(authorsCmd)
}

func runAuthors(ctx context.Context, cfg types.Config, out, errOut io.Writer, apply, asTable bool) ([]types.AuthorUpdate, error) {
	mr, err := collect(ctx, cfg, errOut, false)
	if err != nil {
		return nil, err
	}
	updates := author.PlanUpdates(mr.Results, cfg.Author.MinConfidence)
	if len(updates) == 0 {
		fmt.Fprintln(errOut, "No author updates proposed.")
		return nil, nil
	}

	if asTable {
		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"Record", "Author", "Rule", "Conf", "Source"})
		for _, u := range updates {
			t.AppendRow(table.Row{u.RecordID, u.Author, u.Rule, u.Confidence, u.Source})
		}
		fmt.Fprintln(out, t.Render())
	} else if err := report.WriteAuthorSQL(out, cfg.Output.SQLTable, updates); err != nil {
		return updates, err
	}

	if !apply {
		fmt.Fprintf(errOut, "%d author update(s) proposed; rerun with --apply to write them.\n", len(updates))
		return updates, nil
	}

	st, err := store.Open(cfg.Store)
	if err != nil {
		return updates, err
	}
	defer st.Close()

	changed, err := st.ApplyAuthorUpdates(ctx, updates)
	if err != nil {
		return updates, err
	}
	logger.Info("applied author updates", "proposed", len(updates), "changed", changed)
	fmt.Fprintf(errOut, "Updated %d of %d record(s).\n", changed, len(updates))
	return updates, nil
}
