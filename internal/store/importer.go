// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doc-reconcile/pkg/types"
)

// importEntry is one record in a YAML import file.
type importEntry struct {
	ID      string    `yaml:"id"`
	Title   string    `yaml:"title"`
	Author  string    `yaml:"author"`
	Created time.Time `yaml:"created"`
}

// ImportYAML loads a YAML list of records from path and upserts them
// under importer.
//
//   - id: conquest-of-bread
//     title: The Conquest of Bread
//     author: Peter Kropotkin
//     created: 2024-03-01T12:00:00Z
func (s *Store) ImportYAML(ctx context.Context, path, importer string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading import file %s: %w", path, err)
	}
	var entries []importEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("parsing import file %s: %w", path, err)
	}

	records := make([]types.StoreRecord, len(entries))
	for i, e := range entries {
		records[i] = types.StoreRecord{
			Identifier: e.ID,
			RawTitle:   e.Title,
			RawAuthor:  e.Author,
			Created:    e.Created,
		}
	}
	return s.Upsert(ctx, records, importer)
}
