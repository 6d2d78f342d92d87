// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report turns a match report into a serializable audit structure
// and renders it for terminals, review spreadsheets, and SQL follow-ups.
package report

import (
	"time"

	"github.com/pdiddy/doc-reconcile/pkg/types"
)

// Counts summarizes a run per category.
type Counts struct {
	DiskTotal          int `json:"disk_total" yaml:"disk_total"`
	StoreTotal         int `json:"store_total" yaml:"store_total"`
	Exact              int `json:"exact" yaml:"exact"`
	Partial            int `json:"partial" yaml:"partial"`
	DiskOnly           int `json:"disk_only" yaml:"disk_only"`
	StoreOnly          int `json:"store_only" yaml:"store_only"`
	Unparseable        int `json:"unparseable" yaml:"unparseable"`
	IndexCollisions    int `json:"index_collisions" yaml:"index_collisions"`
	DuplicateGroups    int `json:"duplicate_groups" yaml:"duplicate_groups"`
	DuplicateDocuments int `json:"duplicate_documents" yaml:"duplicate_documents"`
	HashCollisions     int `json:"hash_collisions" yaml:"hash_collisions"`
}

// Pair is a matched disk document and store record.
type Pair struct {
	Key        string `json:"key" yaml:"key"`
	DiskID     string `json:"disk_id" yaml:"disk_id"`
	DiskTitle  string `json:"disk_title" yaml:"disk_title"`
	StoreID    string `json:"store_id" yaml:"store_id"`
	StoreTitle string `json:"store_title" yaml:"store_title"`
	Reason     string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// DiskEntry is a disk document with no counterpart in the store.
type DiskEntry struct {
	Identifier  string `json:"identifier" yaml:"identifier"`
	Title       string `json:"title" yaml:"title"`
	Author      string `json:"author,omitempty" yaml:"author,omitempty"`
	ContentHash string `json:"content_hash" yaml:"content_hash"`
	ByteSize    int64  `json:"byte_size" yaml:"byte_size"`
}

// StoreEntry is a store record with no counterpart on disk.
type StoreEntry struct {
	Identifier string    `json:"identifier" yaml:"identifier"`
	Title      string    `json:"title" yaml:"title"`
	Author     string    `json:"author,omitempty" yaml:"author,omitempty"`
	Created    time.Time `json:"created" yaml:"created"`
}

// Report is the full, untruncated outcome of a run.
type Report struct {
	Counts          Counts                 `json:"counts" yaml:"counts"`
	Exact           []Pair                 `json:"exact" yaml:"exact"`
	Partial         []Pair                 `json:"partial" yaml:"partial"`
	DiskOnly        []DiskEntry            `json:"disk_only" yaml:"disk_only"`
	StoreOnly       []StoreEntry           `json:"store_only" yaml:"store_only"`
	Duplicates      []types.DuplicateGroup `json:"duplicates" yaml:"duplicates"`
	HashCollisions  []types.HashCollision  `json:"hash_collisions" yaml:"hash_collisions"`
	IndexCollisions []types.IndexCollision `json:"index_collisions" yaml:"index_collisions"`
	Unparseable     []types.Unparseable    `json:"unparseable" yaml:"unparseable"`
}

// Build converts a match report into a Report. A nil input yields an
// empty report.
func Build(mr *types.MatchReport) Report {
	if mr == nil {
		return Report{}
	}

	r := Report{
		Duplicates:      mr.Duplicates,
		HashCollisions:  mr.HashCollisions,
		IndexCollisions: mr.IndexCollisions,
		Unparseable:     mr.Unparseable,
	}

	for _, res := range mr.Results {
		switch res.Kind {
		case types.MatchExact:
			r.Exact = append(r.Exact, pairOf(res))
		case types.MatchPartial:
			r.Partial = append(r.Partial, pairOf(res))
		case types.MatchDiskOnly:
			d := res.Disk
			r.DiskOnly = append(r.DiskOnly, DiskEntry{
				Identifier:  d.Identifier,
				Title:       d.RawTitle,
				Author:      d.RawAuthor,
				ContentHash: d.ContentHash,
				ByteSize:    d.ByteSize,
			})
		case types.MatchStoreOnly:
			s := res.Store
			r.StoreOnly = append(r.StoreOnly, StoreEntry{
				Identifier: s.Identifier,
				Title:      s.RawTitle,
				Author:     s.RawAuthor,
				Created:    s.Created,
			})
		}
	}

	dupDocs := 0
	for _, g := range mr.Duplicates {
		dupDocs += len(g.Documents)
	}

	r.Counts = Counts{
		DiskTotal:          mr.DiskTotal,
		StoreTotal:         mr.StoreTotal,
		Exact:              len(r.Exact),
		Partial:            len(r.Partial),
		DiskOnly:           len(r.DiskOnly),
		StoreOnly:          len(r.StoreOnly),
		Unparseable:        len(mr.Unparseable),
		IndexCollisions:    len(mr.IndexCollisions),
		DuplicateGroups:    len(mr.Duplicates),
		DuplicateDocuments: dupDocs,
		HashCollisions:     len(mr.HashCollisions),
	}
	return r
}

// StoreOnlyIDs returns the identifiers of store-only records in report order.
func (r Report) StoreOnlyIDs() []string {
	ids := make([]string, len(r.StoreOnly))
	for i, s := range r.StoreOnly {
		ids[i] = s.Identifier
	}
	return ids
}

func pairOf(res types.MatchResult) Pair {
	return Pair{
		Key:        res.Key,
		DiskID:     res.Disk.Identifier,
		DiskTitle:  res.Disk.RawTitle,
		StoreID:    res.Store.Identifier,
		StoreTitle: res.Store.RawTitle,
		Reason:     res.Reason,
	}
}
