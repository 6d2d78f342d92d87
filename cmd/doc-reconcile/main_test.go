// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doc-reconcile/internal/report"
	"github.com/pdiddy/doc-reconcile/internal/store"
	"github.com/pdiddy/doc-reconcile/pkg/types"
)

// --- test helpers ---

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// testLibrary builds a docs directory and a catalog with one exact match,
// one partial match, one document missing from the catalog, and one record
// missing from disk.
func testLibrary(t *testing.T) types.Config {
	t.Helper()
	root := t.TempDir()
	docs := filepath.Join(root, "docs")
	require.NoError(t, os.MkdirAll(docs, 0o755))

	writeDoc(t, docs, "The Conquest of Bread -- Peter Kropotkin -- Penguin Books.pdf", "bread")
	writeDoc(t, docs, "mutual-aid.md", "---\ntitle: \"Mutual Aid: A Factor of Evolution\"\nauthor: Peter Kropotkin\n---\nbody\n")
	writeDoc(t, docs, "orphan.txt", "nobody catalogued this")

	cfg := types.Config{
		Scan:      types.ScanConfig{DocsDir: docs, Extensions: types.DefaultExtensions, Frontmatter: true},
		Store:     types.StoreConfig{DBPath: filepath.Join(root, "catalog.db")},
		Reconcile: types.ReconcileConfig{MinPartialLen: 10},
		Output:    types.OutputConfig{Format: types.FormatJSON, SQLTable: "documents", SQLSet: "status = 'missing_file'"},
		Author:    types.AuthorConfig{MinConfidence: 80},
	}

	st, err := store.Open(cfg.Store)
	require.NoError(t, err)
	defer st.Close()
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err = st.Upsert(context.Background(), []types.StoreRecord{
		{Identifier: "bread", RawTitle: "The Conquest of Bread", Created: created},
		{Identifier: "mutual", RawTitle: "Mutual Aid", Created: created.Add(time.Hour)},
		{Identifier: "god", RawTitle: "God and the State", RawAuthor: "Mikhail Bakunin", Created: created.Add(2 * time.Hour)},
	}, "anarchist-library")
	require.NoError(t, err)
	return cfg
}

// --- reconcile ---

func TestRunReconcileJSON(t *testing.T) {
	cfg := testLibrary(t)
	var out, errOut bytes.Buffer

	r, err := runReconcile(context.Background(), cfg, &out, &errOut, false)
	require.NoError(t, err)

	var decoded report.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, r.Counts, decoded.Counts)

	c := decoded.Counts
	assert.Equal(t, 3, c.DiskTotal)
	assert.Equal(t, 3, c.StoreTotal)
	assert.Equal(t, 1, c.Exact)
	assert.Equal(t, 1, c.Partial)
	assert.Equal(t, 1, c.DiskOnly)
	assert.Equal(t, 1, c.StoreOnly)

	require.Len(t, decoded.StoreOnly, 1)
	assert.Equal(t, "god", decoded.StoreOnly[0].Identifier)
	require.Len(t, decoded.DiskOnly, 1)
	assert.Equal(t, "orphan.txt", decoded.DiskOnly[0].Identifier)
}

func TestRunReconcileTableWithAuditFiles(t *testing.T) {
	cfg := testLibrary(t)
	dir := t.TempDir()
	cfg.Output.Format = types.FormatTable
	cfg.Output.CSVPath = filepath.Join(dir, "unmatched.csv")
	cfg.Output.SQLPath = filepath.Join(dir, "missing.sql")
	var out, errOut bytes.Buffer

	_, err := runReconcile(context.Background(), cfg, &out, &errOut, true)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Missing from store")
	assert.Contains(t, out.String(), "Missing from disk")

	csvData, err := os.ReadFile(cfg.Output.CSVPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csvData)), "\n")
	assert.Len(t, lines, 3, "header plus one row per unmatched entry")

	sqlData, err := os.ReadFile(cfg.Output.SQLPath)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE documents SET status = 'missing_file' WHERE id IN ('god');\n", string(sqlData))
}

func TestRunReconcilePartition(t *testing.T) {
	cfg := testLibrary(t)
	cfg.Store.Partition = "someone-else"
	var out, errOut bytes.Buffer

	r, err := runReconcile(context.Background(), cfg, &out, &errOut, false)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Counts.StoreTotal)
	assert.Equal(t, 3, r.Counts.DiskOnly)
}

func TestRunReconcileMissingDocsDir(t *testing.T) {
	cfg := testLibrary(t)
	cfg.Scan.DocsDir = filepath.Join(t.TempDir(), "nope")
	var out, errOut bytes.Buffer

	_, err := runReconcile(context.Background(), cfg, &out, &errOut, false)
	assert.Error(t, err)
}

// --- authors ---

func TestRunAuthorsPrintsSQL(t *testing.T) {
	cfg := testLibrary(t)
	var out, errOut bytes.Buffer

	updates, err := runAuthors(context.Background(), cfg, &out, &errOut, false, false)
	require.NoError(t, err)
	require.Len(t, updates, 2)
	assert.Equal(t, "bread", updates[0].RecordID)
	assert.Equal(t, "Peter Kropotkin", updates[0].Author)
	assert.Equal(t, "double_dash_author", updates[0].Rule)
	assert.Equal(t, "mutual", updates[1].RecordID)
	assert.Equal(t, 100, updates[1].Confidence)

	assert.Contains(t, out.String(), "UPDATE documents SET author = 'Peter Kropotkin' WHERE id = 'bread'")
	assert.Contains(t, errOut.String(), "--apply")

	st, err := store.Open(cfg.Store)
	require.NoError(t, err)
	defer st.Close()
	recs, err := st.Records(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, recs[0].RawAuthor, "dry run must not write")
}

func TestRunAuthorsApply(t *testing.T) {
	cfg := testLibrary(t)
	var out, errOut bytes.Buffer

	_, err := runAuthors(context.Background(), cfg, &out, &errOut, true, true)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "double_dash_author")
	assert.Contains(t, errOut.String(), "Updated 2 of 2")

	st, err := store.Open(cfg.Store)
	require.NoError(t, err)
	defer st.Close()
	recs, err := st.Records(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "Peter Kropotkin", recs[0].RawAuthor)
	assert.Equal(t, "Peter Kropotkin", recs[1].RawAuthor)
	assert.Equal(t, "Mikhail Bakunin", recs[2].RawAuthor)
}

func TestRunAuthorsThreshold(t *testing.T) {
	cfg := testLibrary(t)
	cfg.Author.MinConfidence = 100
	var out, errOut bytes.Buffer

	updates, err := runAuthors(context.Background(), cfg, &out, &errOut, false, false)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, "mutual", updates[0].RecordID)
}

// --- store ---

func TestStoreImportAndList(t *testing.T) {
	dir := t.TempDir()
	cfg := types.StoreConfig{DBPath: filepath.Join(dir, "catalog.db")}
	path := filepath.Join(dir, "records.yaml")
	writeDoc(t, dir, "records.yaml", "- title: Mutual Aid\n  author: Peter Kropotkin\n  created: 2024-03-01T00:00:00Z\n")

	var out bytes.Buffer
	require.NoError(t, runStoreImport(context.Background(), cfg, path, "anarchist-library", &out))
	assert.Contains(t, out.String(), "Imported 1 record(s)")

	out.Reset()
	require.NoError(t, runStoreList(context.Background(), cfg, &out))
	assert.Contains(t, out.String(), "mutual-aid")
	assert.Contains(t, out.String(), "Peter Kropotkin")

	out.Reset()
	cfg.Partition = "marxists"
	require.NoError(t, runStoreList(context.Background(), cfg, &out))
	assert.Equal(t, "No records found.\n", out.String())
}

// --- configuration ---

func TestResolveConfigDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg, err := resolveConfig(versionCmd, v)
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Scan.DocsDir)
	assert.True(t, cfg.Scan.Frontmatter)
	assert.Equal(t, types.DefaultExtensions, cfg.Scan.Extensions)
	assert.Equal(t, 10, cfg.Reconcile.MinPartialLen)
	assert.Equal(t, types.FormatTable, cfg.Output.Format)
	assert.Equal(t, 80, cfg.Author.MinConfidence)
}

func TestResolveConfigOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("output.format", "yaml")
	v.Set("store.partition", "marxists")

	cfg, err := resolveConfig(versionCmd, v)
	require.NoError(t, err)
	assert.Equal(t, types.FormatYAML, cfg.Output.Format)
	assert.Equal(t, "marxists", cfg.Store.Partition)
}

func TestResolveConfigInvalid(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("output.format", "xml")

	_, err := resolveConfig(versionCmd, v)
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	t.Cleanup(func() { versionCmd.SetOut(nil) })
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "doc-reconcile dev\n", out.String())
}
