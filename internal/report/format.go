// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"go.yaml.in/yaml/v3"
)

const maxCellWidth = 60

// FormatTable writes a human-readable summary and one table per non-empty
// section. limit caps the rows printed per section; zero prints all rows.
func FormatTable(r Report, w io.Writer, limit int) {
	c := r.Counts
	summary := newTable()
	summary.AppendHeader(table.Row{"Category", "Count"})
	summary.AppendRows([]table.Row{
		{"Disk documents", c.DiskTotal},
		{"Store records", c.StoreTotal},
		{"Exact matches", c.Exact},
		{"Partial matches", c.Partial},
		{"Disk only", c.DiskOnly},
		{"Store only", c.StoreOnly},
		{"Unparseable", c.Unparseable},
		{"Index collisions", c.IndexCollisions},
		{"Duplicate groups", c.DuplicateGroups},
		{"Hash collisions", c.HashCollisions},
	})
	summary.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	fmt.Fprintln(w, summary.Render())

	if len(r.Partial) > 0 {
		t := newTable()
		t.AppendHeader(table.Row{"Disk", "Store ID", "Store title", "Reason"})
		for _, p := range limitSlice(r.Partial, limit) {
			t.AppendRow(table.Row{p.DiskID, p.StoreID, p.StoreTitle, p.Reason})
		}
		writeSection(w, "Partial matches", t, len(r.Partial), limit)
	}

	if len(r.DiskOnly) > 0 {
		t := newTable()
		t.AppendHeader(table.Row{"File", "Title", "Author"})
		for _, d := range limitSlice(r.DiskOnly, limit) {
			t.AppendRow(table.Row{d.Identifier, d.Title, d.Author})
		}
		writeSection(w, "Missing from store", t, len(r.DiskOnly), limit)
	}

	if len(r.StoreOnly) > 0 {
		t := newTable()
		t.AppendHeader(table.Row{"ID", "Title", "Author", "Created"})
		for _, s := range limitSlice(r.StoreOnly, limit) {
			created := ""
			if !s.Created.IsZero() {
				created = s.Created.Format("2006-01-02")
			}
			t.AppendRow(table.Row{s.Identifier, s.Title, s.Author, created})
		}
		writeSection(w, "Missing from disk", t, len(r.StoreOnly), limit)
	}

	if len(r.Duplicates) > 0 {
		t := newTable()
		t.AppendHeader(table.Row{"Hash", "Size", "Copies", "Files"})
		for _, g := range limitSlice(r.Duplicates, limit) {
			for i, d := range g.Documents {
				if i == 0 {
					t.AppendRow(table.Row{g.ContentHash, humanize.Bytes(uint64(g.ByteSize)), len(g.Documents), d.Identifier})
					continue
				}
				t.AppendRow(table.Row{"", "", "", d.Identifier})
			}
			t.AppendSeparator()
		}
		writeSection(w, "Duplicate content", t, len(r.Duplicates), limit)
	}

	if len(r.Unparseable) > 0 {
		t := newTable()
		t.AppendHeader(table.Row{"Side", "Identifier", "Raw title"})
		for _, u := range limitSlice(r.Unparseable, limit) {
			t.AppendRow(table.Row{u.Side, u.Identifier, strconv.Quote(u.RawTitle)})
		}
		writeSection(w, "Unparseable titles", t, len(r.Unparseable), limit)
	}
}

// FormatJSON writes the report as indented JSON.
func FormatJSON(r Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// FormatYAML writes the report as YAML.
func FormatYAML(r Report, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	return t
}

func writeSection(w io.Writer, title string, t table.Writer, total, limit int) {
	t.SetTitle("%s", title)
	t.SetColumnConfigs(wrapColumns(4))
	fmt.Fprintln(w)
	fmt.Fprintln(w, t.Render())
	if limit > 0 && total > limit {
		fmt.Fprintf(w, "... and %d more\n", total-limit)
	}
}

func wrapColumns(n int) []table.ColumnConfig {
	cfgs := make([]table.ColumnConfig, n)
	for i := range cfgs {
		cfgs[i] = table.ColumnConfig{Number: i + 1, WidthMax: maxCellWidth, WidthMaxEnforcer: text.Trim}
	}
	return cfgs
}

func limitSlice[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
