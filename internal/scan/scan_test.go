package scan

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/doc-reconcile/internal/author"
	"github.com/pdiddy/doc-reconcile/internal/fingerprint"
	"github.com/pdiddy/doc-reconcile/pkg/types"
)

// --- test helpers ---

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testCfg(dir string) types.ScanConfig {
	return types.ScanConfig{DocsDir: dir, Frontmatter: true}
}

func byID(docs []types.DiskDocument) map[string]types.DiskDocument {
	m := make(map[string]types.DiskDocument, len(docs))
	for _, d := range docs {
		m[d.Identifier] = d
	}
	return m
}

// --- candidates ---

func TestCandidates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.md", "b")
	writeFile(t, dir, "a.PDF", "a")
	writeFile(t, dir, "notes.docx", "x")
	writeFile(t, dir, ".hidden.md", "h")
	writeFile(t, dir, ".git/config.md", "g")
	writeFile(t, dir, "sub/c.txt", "c")

	paths, err := Candidates(testCfg(dir))
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.PDF"),
		filepath.Join(dir, "b.md"),
		filepath.Join(dir, "sub", "c.txt"),
	}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %s, want %s", i, paths[i], want[i])
		}
	}
}

func TestCandidatesCustomExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "a")
	writeFile(t, dir, "b.epub", "b")

	cfg := testCfg(dir)
	cfg.Extensions = []string{"epub"}
	paths, err := Candidates(cfg)
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}
	if len(paths) != 1 || filepath.Base(paths[0]) != "b.epub" {
		t.Errorf("paths = %v, want only b.epub", paths)
	}
}

func TestCandidatesMissingDir(t *testing.T) {
	if _, err := Candidates(testCfg(filepath.Join(t.TempDir(), "nope"))); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

// --- scan ---

func TestScanFrontmatter(t *testing.T) {
	dir := t.TempDir()
	content := "---\ntitle: The Conquest of Bread\nauthor: Peter Kropotkin\n---\n\n# Chapter 1\n"
	writeFile(t, dir, "bread.md", content)

	res, err := Scan(context.Background(), testCfg(dir), Options{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(res.Documents) != 1 {
		t.Fatalf("len(Documents) = %d, want 1", len(res.Documents))
	}
	d := res.Documents[0]
	if d.Identifier != "bread.md" {
		t.Errorf("Identifier = %q, want bread.md", d.Identifier)
	}
	if d.RawTitle != "The Conquest of Bread" {
		t.Errorf("RawTitle = %q", d.RawTitle)
	}
	if d.RawAuthor != "Peter Kropotkin" || d.AuthorConfidence != 100 || d.AuthorRule != RuleFrontmatter {
		t.Errorf("author = %q (%d, %s), want Peter Kropotkin (100, frontmatter)", d.RawAuthor, d.AuthorConfidence, d.AuthorRule)
	}
	if d.ContentHash != fingerprint.Sum([]byte(content)) {
		t.Errorf("ContentHash = %s, want %s", d.ContentHash, fingerprint.Sum([]byte(content)))
	}
	if d.ByteSize != int64(len(content)) {
		t.Errorf("ByteSize = %d, want %d", d.ByteSize, len(content))
	}
}

func TestScanAuthorsList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "manifesto.md", "---\ntitle: The Communist Manifesto\nauthors:\n  - Karl Marx\n  - Friedrich Engels\n---\nbody")

	res, err := Scan(context.Background(), testCfg(dir), Options{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if got := res.Documents[0].RawAuthor; got != "Karl Marx, Friedrich Engels" {
		t.Errorf("RawAuthor = %q", got)
	}
}

func TestScanFilenameFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Slow Down -- Kohei Saito -- Penguin Random House.pdf", "%PDF-1.4")
	writeFile(t, dir, "Anarchism_and_Other_Essays.md", "# no frontmatter here")
	writeFile(t, dir, "broken.md", "---\ntitle: [unclosed\n---\nbody")

	res, err := Scan(context.Background(), testCfg(dir), Options{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	docs := byID(res.Documents)

	pdf := docs["Slow Down -- Kohei Saito -- Penguin Random House.pdf"]
	if pdf.RawTitle != "Slow Down" {
		t.Errorf("pdf title = %q, want Slow Down", pdf.RawTitle)
	}
	if pdf.RawAuthor != "Kohei Saito" || pdf.AuthorConfidence != 90 || pdf.AuthorRule != author.RuleDoubleDash {
		t.Errorf("pdf author = %q (%d, %s)", pdf.RawAuthor, pdf.AuthorConfidence, pdf.AuthorRule)
	}

	md := docs["Anarchism_and_Other_Essays.md"]
	if md.RawTitle != "Anarchism_and_Other_Essays" {
		t.Errorf("md title = %q", md.RawTitle)
	}
	if md.RawAuthor != "" {
		t.Errorf("md author = %q, want empty", md.RawAuthor)
	}

	if got := docs["broken.md"].RawTitle; got != "broken" {
		t.Errorf("malformed frontmatter title = %q, want filename fallback", got)
	}
}

func TestScanFrontmatterDisabled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bread.md", "---\ntitle: The Conquest of Bread\n---\n")

	cfg := testCfg(dir)
	cfg.Frontmatter = false
	res, err := Scan(context.Background(), cfg, Options{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if got := res.Documents[0].RawTitle; got != "bread" {
		t.Errorf("RawTitle = %q, want bread", got)
	}
}

func TestScanDuplicateContentSameHash(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.pdf", "identical bytes")
	writeFile(t, dir, "two.pdf", "identical bytes")

	res, err := Scan(context.Background(), testCfg(dir), Options{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if res.Documents[0].ContentHash != res.Documents[1].ContentHash {
		t.Errorf("hashes differ for identical content: %s vs %s",
			res.Documents[0].ContentHash, res.Documents[1].ContentHash)
	}
}

func TestScanProgressAndFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "a")
	unreadable := writeFile(t, dir, "b.md", "b")
	if err := os.Chmod(unreadable, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(unreadable, 0o644) })
	if f, err := os.Open(unreadable); err == nil {
		f.Close()
		t.Skip("running with permissions that ignore file modes")
	}

	var logBuf bytes.Buffer
	var seen []string
	res, err := Scan(context.Background(), testCfg(dir), Options{
		Logger:   slog.New(slog.NewTextHandler(&logBuf, nil)),
		Progress: func(path string) { seen = append(seen, filepath.Base(path)) },
	})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if res.Failed != 1 || len(res.Documents) != 1 || res.Total() != 2 {
		t.Errorf("result = %d docs, %d failed; want 1 and 1", len(res.Documents), res.Failed)
	}
	if len(seen) != 2 {
		t.Errorf("progress called %d times, want 2", len(seen))
	}
	if !bytes.Contains(logBuf.Bytes(), []byte("b.md")) {
		t.Errorf("log %q does not mention the failed file", logBuf.String())
	}
}

func TestScanCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Scan(ctx, testCfg(dir), Options{}); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

// --- filename titles ---

func TestTitleFromFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Slow Down -- Kohei Saito -- Penguin Random House.pdf", "Slow Down"},
		{"The Conquest of Bread.md", "The Conquest of Bread"},
		{"-- Anonymous -- Zine.pdf", "-- Anonymous -- Zine"},
	}
	for _, tt := range tests {
		if got := TitleFromFilename(tt.in); got != tt.want {
			t.Errorf("TitleFromFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// --- frontmatter ---

func TestSplitFrontmatter(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"basic", "---\ntitle: X\n---\nbody", "title: X\n", true},
		{"crlf", "---\r\ntitle: X\r\n---\r\nbody", "title: X\n", true},
		{"dots terminator", "---\ntitle: X\n...\nbody", "title: X\n", true},
		{"bom", "\xEF\xBB\xBF---\ntitle: X\n---\n", "title: X\n", true},
		{"empty block", "---\n---\n", "", true},
		{"no header", "# Title\n", "", false},
		{"unclosed", "---\ntitle: X\n", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := splitFrontmatter([]byte(tt.in))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if string(got) != tt.want {
				t.Errorf("block = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseFrontmatterAuthorsScalar(t *testing.T) {
	fm, ok, err := parseFrontmatter([]byte("---\nauthors: Emma Goldman\n---\n"))
	if err != nil || !ok {
		t.Fatalf("parseFrontmatter: ok=%v err=%v", ok, err)
	}
	if fm.author() != "Emma Goldman" {
		t.Errorf("author() = %q", fm.author())
	}
}

func TestParseFrontmatterBadAuthors(t *testing.T) {
	_, _, err := parseFrontmatter([]byte("---\nauthors:\n  name: x\n---\n"))
	if err == nil {
		t.Fatal("expected error for mapping authors field")
	}
}
