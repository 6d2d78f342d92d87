// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/doc-reconcile/pkg/types"
)

// DefaultSQLBatchSize is the number of identifiers per UPDATE statement.
const DefaultSQLBatchSize = 500

// WriteSQL writes bulk UPDATE statements of the form
//
//	UPDATE <table> SET <set> WHERE id IN ('a', 'b', ...);
//
// with at most batchSize identifiers each. The statements are meant for
// review before being run against the store; nothing is executed here.
// Only the identifiers are quoted: table and set are trusted SQL from the
// operator's configuration and are written verbatim.
func WriteSQL(w io.Writer, table, set string, ids []string, batchSize int) error {
	if table == "" || set == "" {
		return fmt.Errorf("table and set clause are required")
	}
	if batchSize <= 0 {
		batchSize = DefaultSQLBatchSize
	}
	for start := 0; start < len(ids); start += batchSize {
		end := min(start+batchSize, len(ids))
		quoted := make([]string, 0, end-start)
		for _, id := range ids[start:end] {
			quoted = append(quoted, quoteLiteral(id))
		}
		if _, err := fmt.Fprintf(w, "UPDATE %s SET %s WHERE id IN (%s);\n",
			table, set, strings.Join(quoted, ", ")); err != nil {
			return fmt.Errorf("writing SQL: %w", err)
		}
	}
	return nil
}

// WriteAuthorSQL writes one UPDATE per proposed author write-back. Each
// statement only fills records whose author is still empty. table is
// written verbatim.
func WriteAuthorSQL(w io.Writer, table string, updates []types.AuthorUpdate) error {
	if table == "" {
		return fmt.Errorf("table is required")
	}
	for _, u := range updates {
		if _, err := fmt.Fprintf(w,
			"UPDATE %s SET author = %s WHERE id = %s AND (author IS NULL OR author = ''); -- %s (%d) from %s\n",
			table, quoteLiteral(u.Author), quoteLiteral(u.RecordID), u.Rule, u.Confidence,
			strings.ReplaceAll(u.Source, "\n", " ")); err != nil {
			return fmt.Errorf("writing SQL: %w", err)
		}
	}
	return nil
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
