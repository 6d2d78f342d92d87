// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for doc-reconcile: the two
// input populations (documents on disk, records in a store), the match
// engine's output, and the configuration handed to adapters.
package types

import "time"

// DiskDocument is a document found by scanning a directory. It is built
// once per run by the scanner and never modified afterwards.
type DiskDocument struct {
	// Identifier is the path of the file relative to the scanned directory.
	Identifier string `json:"identifier" yaml:"identifier"`

	// RawTitle is the title as read from frontmatter or derived from the filename.
	RawTitle string `json:"raw_title" yaml:"raw_title"`

	// RawAuthor is the author, if one could be determined.
	RawAuthor string `json:"raw_author,omitempty" yaml:"raw_author,omitempty"`

	// AuthorConfidence is 0-100; 100 when the author came from frontmatter.
	AuthorConfidence int `json:"author_confidence,omitempty" yaml:"author_confidence,omitempty"`

	// AuthorRule names the frontmatter field or filename rule that produced RawAuthor.
	AuthorRule string `json:"author_rule,omitempty" yaml:"author_rule,omitempty"`

	// ContentHash is the fingerprint of the file contents.
	ContentHash string `json:"content_hash" yaml:"content_hash"`

	// ByteSize is the file size in bytes.
	ByteSize int64 `json:"byte_size" yaml:"byte_size"`
}

// StoreRecord is a document row loaded from the store. Identifier is
// assigned by the store and unique within it.
type StoreRecord struct {
	Identifier string    `json:"identifier" yaml:"identifier"`
	RawTitle   string    `json:"raw_title" yaml:"raw_title"`
	RawAuthor  string    `json:"raw_author,omitempty" yaml:"raw_author,omitempty"`
	Created    time.Time `json:"created" yaml:"created"`
}

// AuthorExtraction is the outcome of running the filename rules. A zero
// Confidence means no rule produced a plausible author.
type AuthorExtraction struct {
	Author     string `json:"author,omitempty" yaml:"author,omitempty"`
	Confidence int    `json:"confidence" yaml:"confidence"`
	Rule       string `json:"rule,omitempty" yaml:"rule,omitempty"`
}

// Found reports whether an author was extracted.
func (a AuthorExtraction) Found() bool {
	return a.Author != "" && a.Confidence > 0
}

// AuthorUpdate proposes writing an author back to a store record.
type AuthorUpdate struct {
	RecordID   string `json:"record_id" yaml:"record_id"`
	Author     string `json:"author" yaml:"author"`
	Confidence int    `json:"confidence" yaml:"confidence"`
	Rule       string `json:"rule" yaml:"rule"`

	// Source is the disk document the author was taken from.
	Source string `json:"source" yaml:"source"`
}
