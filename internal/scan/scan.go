// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan enumerates documents in a directory and builds DiskDocuments
// from their contents, YAML frontmatter, and filenames.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/doc-reconcile/internal/author"
	"github.com/pdiddy/doc-reconcile/internal/fingerprint"
	"github.com/pdiddy/doc-reconcile/pkg/types"
)

// RuleFrontmatter is the AuthorRule recorded for authors read from frontmatter.
const RuleFrontmatter = "frontmatter"

// Options controls logging and progress reporting during a scan.
type Options struct {
	// Logger receives per-file failures. Nil discards them.
	Logger *slog.Logger

	// Progress, when set, is called after each candidate file is processed.
	Progress func(path string)
}

// Result holds the documents read and per-file failure counts.
type Result struct {
	Documents []types.DiskDocument
	Failed    int
}

// Total returns the number of candidate files processed.
func (r Result) Total() int {
	return len(r.Documents) + r.Failed
}

// Candidates returns the paths under cfg.DocsDir, in lexical order, whose
// extension is selected by cfg. Hidden files and directories are skipped.
func Candidates(cfg types.ScanConfig) ([]string, error) {
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = types.DefaultExtensions
	}
	want := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" && !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		want[e] = true
	}

	var paths []string
	err := filepath.WalkDir(cfg.DocsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != cfg.DocsDir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if want[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", cfg.DocsDir, err)
	}
	return paths, nil
}

// Scan reads every candidate file under cfg.DocsDir. Files that cannot be
// read are logged and counted in Result.Failed; the scan continues. The
// scan stops early, returning ctx.Err(), when ctx is cancelled.
func Scan(ctx context.Context, cfg types.ScanConfig, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	paths, err := Candidates(cfg)
	if err != nil {
		return Result{}, err
	}

	result := Result{Documents: make([]types.DiskDocument, 0, len(paths))}
	for _, path := range paths {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		doc, err := readDocument(cfg, path, logger)
		if err != nil {
			logger.Warn("skipping unreadable document", "path", path, "error", err)
			result.Failed++
		} else {
			result.Documents = append(result.Documents, doc)
		}
		if opts.Progress != nil {
			opts.Progress(path)
		}
	}
	return result, nil
}

func readDocument(cfg types.ScanConfig, path string, logger *slog.Logger) (types.DiskDocument, error) {
	rel, err := filepath.Rel(cfg.DocsDir, path)
	if err != nil {
		rel = path
	}
	doc := types.DiskDocument{Identifier: filepath.ToSlash(rel)}

	if cfg.Frontmatter && isMarkdown(path) {
		content, err := os.ReadFile(path)
		if err != nil {
			return types.DiskDocument{}, fmt.Errorf("reading %s: %w", path, err)
		}
		doc.ContentHash = fingerprint.Sum(content)
		doc.ByteSize = int64(len(content))

		fm, ok, err := parseFrontmatter(content)
		if err != nil {
			logger.Debug("ignoring malformed frontmatter", "path", path, "error", err)
		}
		if ok {
			doc.RawTitle = strings.TrimSpace(fm.Title)
			if a := fm.author(); a != "" {
				doc.RawAuthor = a
				doc.AuthorConfidence = 100
				doc.AuthorRule = RuleFrontmatter
			}
		}
	} else {
		f, err := os.Open(path)
		if err != nil {
			return types.DiskDocument{}, fmt.Errorf("opening %s: %w", path, err)
		}
		hash, size, err := fingerprint.Reader(f)
		f.Close()
		if err != nil {
			return types.DiskDocument{}, fmt.Errorf("reading %s: %w", path, err)
		}
		doc.ContentHash = hash
		doc.ByteSize = size
	}

	name := filepath.Base(path)
	if doc.RawTitle == "" {
		doc.RawTitle = TitleFromFilename(name)
	}
	if doc.RawAuthor == "" {
		if ext := author.Extract(name); ext.Found() {
			doc.RawAuthor = ext.Author
			doc.AuthorConfidence = ext.Confidence
			doc.AuthorRule = ext.Rule
		}
	}
	return doc, nil
}

// TitleFromFilename derives a title from a filename: the extension is
// dropped and, for "Title -- Author -- Publisher" names, only the first
// segment is kept.
func TitleFromFilename(name string) string {
	stem := author.Stem(name)
	if first, _, found := strings.Cut(stem, "--"); found {
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	return stem
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
