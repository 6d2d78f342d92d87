// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// MatchKind classifies how a disk document and a store record were paired.
type MatchKind string

const (
	MatchExact     MatchKind = "exact"
	MatchPartial   MatchKind = "partial"
	MatchDiskOnly  MatchKind = "disk_only"
	MatchStoreOnly MatchKind = "store_only"
)

// Side identifies which input population an entry came from.
type Side string

const (
	SideDisk  Side = "disk"
	SideStore Side = "store"
)

// MatchResult is one classified outcome. Disk is nil for StoreOnly results
// and Store is nil for DiskOnly results. Reason is set for Partial results.
type MatchResult struct {
	Kind   MatchKind     `json:"kind" yaml:"kind"`
	Key    string        `json:"key" yaml:"key"`
	Disk   *DiskDocument `json:"disk,omitempty" yaml:"disk,omitempty"`
	Store  *StoreRecord  `json:"store,omitempty" yaml:"store,omitempty"`
	Reason string        `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// DuplicateGroup holds disk documents with identical content hash and
// byte size. It always has at least two members.
type DuplicateGroup struct {
	ContentHash string         `json:"content_hash" yaml:"content_hash"`
	ByteSize    int64          `json:"byte_size" yaml:"byte_size"`
	Documents   []DiskDocument `json:"documents" yaml:"documents"`
}

// HashCollision records documents that share a content hash but differ in
// size. They are never merged into a DuplicateGroup.
type HashCollision struct {
	ContentHash string         `json:"content_hash" yaml:"content_hash"`
	Documents   []DiskDocument `json:"documents" yaml:"documents"`
}

// IndexCollision records a document that lost its index slot because a
// later document on the same side normalized to the same key. Kept names
// the document that holds the key at the end of indexing.
type IndexCollision struct {
	Side      Side   `json:"side" yaml:"side"`
	Key       string `json:"key" yaml:"key"`
	Kept      string `json:"kept" yaml:"kept"`
	Displaced string `json:"displaced" yaml:"displaced"`
}

// Unparseable is a document whose title normalized to an empty key.
type Unparseable struct {
	Side       Side   `json:"side" yaml:"side"`
	Identifier string `json:"identifier" yaml:"identifier"`
	RawTitle   string `json:"raw_title" yaml:"raw_title"`
}

// MatchReport is the full output of one reconciliation run.
type MatchReport struct {
	Results         []MatchResult    `json:"results" yaml:"results"`
	Duplicates      []DuplicateGroup `json:"duplicates" yaml:"duplicates"`
	HashCollisions  []HashCollision  `json:"hash_collisions" yaml:"hash_collisions"`
	IndexCollisions []IndexCollision `json:"index_collisions" yaml:"index_collisions"`
	Unparseable     []Unparseable    `json:"unparseable" yaml:"unparseable"`

	// DiskTotal and StoreTotal are the sizes of the two input collections.
	DiskTotal  int `json:"disk_total" yaml:"disk_total"`
	StoreTotal int `json:"store_total" yaml:"store_total"`
}

// ByKind returns the results of the given kind in report order.
func (r *MatchReport) ByKind(kind MatchKind) []MatchResult {
	var out []MatchResult
	for _, res := range r.Results {
		if res.Kind == kind {
			out = append(out, res)
		}
	}
	return out
}

// Count returns the number of results of the given kind.
func (r *MatchReport) Count(kind MatchKind) int {
	n := 0
	for _, res := range r.Results {
		if res.Kind == kind {
			n++
		}
	}
	return n
}
