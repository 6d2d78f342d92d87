// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

var csvHeader = []string{"category", "identifier", "title", "author", "content_hash", "byte_size", "created"}

// WriteCSV writes the disk-only and store-only entries as a delimited
// file for manual review. Disk entries come first, each group in report order.
func WriteCSV(r Report, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, d := range r.DiskOnly {
		row := []string{"missing_from_store", d.Identifier, d.Title, d.Author, d.ContentHash, strconv.FormatInt(d.ByteSize, 10), ""}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %s: %w", d.Identifier, err)
		}
	}
	for _, s := range r.StoreOnly {
		created := ""
		if !s.Created.IsZero() {
			created = s.Created.UTC().Format(time.RFC3339)
		}
		row := []string{"missing_from_disk", s.Identifier, s.Title, s.Author, "", "", created}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %s: %w", s.Identifier, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
