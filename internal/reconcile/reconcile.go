// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reconcile pairs documents on disk with records in a store using
// normalized titles, and groups disk documents with identical content.
//
// A run is a pure function of its two inputs: it performs no I/O, holds no
// state between calls, and returns the same report for the same inputs.
package reconcile

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/pdiddy/doc-reconcile/internal/normalize"
	"github.com/pdiddy/doc-reconcile/pkg/types"
)

// DefaultMinPartialLen is the shortest key allowed to take part in a
// substring match.
const DefaultMinPartialLen = 10

// ErrNilInput is returned when either input collection is nil. An empty,
// non-nil slice is valid input.
var ErrNilInput = errors.New("reconcile: nil input collection")

// Options tunes a reconciliation run.
type Options struct {
	// MinPartialLen is the minimum length of the shorter key in a partial
	// match. Zero or negative uses DefaultMinPartialLen.
	MinPartialLen int

	// Logger receives collision warnings. Nil discards them.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.MinPartialLen <= 0 {
		o.MinPartialLen = DefaultMinPartialLen
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Reconcile classifies every disk document and store record as an exact
// match, a partial match, disk-only, or store-only, and groups duplicate
// disk content.
//
// Documents whose title normalizes to an empty key are reported as
// unparseable. When two documents on the same side share a key, the later
// one keeps the index slot and the earlier one is reported as displaced.
func Reconcile(disk []types.DiskDocument, store []types.StoreRecord, opts Options) (*types.MatchReport, error) {
	if disk == nil || store == nil {
		return nil, ErrNilInput
	}
	opts = opts.withDefaults()

	report := &types.MatchReport{
		DiskTotal:  len(disk),
		StoreTotal: len(store),
	}

	diskIdx := newIndex[*types.DiskDocument](types.SideDisk)
	for i := range disk {
		d := &disk[i]
		key := normalize.Normalize(d.RawTitle)
		if !normalize.Valid(key) {
			report.Unparseable = append(report.Unparseable, types.Unparseable{
				Side: types.SideDisk, Identifier: d.Identifier, RawTitle: d.RawTitle,
			})
			continue
		}
		diskIdx.put(key, d, d.Identifier)
	}

	storeIdx := newIndex[*types.StoreRecord](types.SideStore)
	for i := range store {
		s := &store[i]
		key := normalize.Normalize(s.RawTitle)
		if !normalize.Valid(key) {
			report.Unparseable = append(report.Unparseable, types.Unparseable{
				Side: types.SideStore, Identifier: s.Identifier, RawTitle: s.RawTitle,
			})
			continue
		}
		storeIdx.put(key, s, s.Identifier)
	}

	report.IndexCollisions = append(report.IndexCollisions, diskIdx.finalCollisions()...)
	report.IndexCollisions = append(report.IndexCollisions, storeIdx.finalCollisions()...)
	for _, c := range report.IndexCollisions {
		opts.Logger.Debug("index collision",
			"side", c.Side, "key", c.Key, "kept", c.Kept, "displaced", c.Displaced)
	}

	// Exact pass.
	var diskOnly []string
	for _, key := range diskIdx.order {
		d := diskIdx.entries[key]
		if s, ok := storeIdx.entries[key]; ok {
			report.Results = append(report.Results, types.MatchResult{
				Kind: types.MatchExact, Key: key, Disk: copyDisk(d), Store: copyStore(s),
			})
			storeIdx.consume(key)
			continue
		}
		diskOnly = append(diskOnly, key)
	}

	// Partial pass: each store record is consumed by at most one disk document.
	var unmatched []string
	for _, dk := range diskOnly {
		d := diskIdx.entries[dk]
		sk, reason, ok := findPartial(dk, storeIdx, opts.MinPartialLen)
		if !ok {
			unmatched = append(unmatched, dk)
			continue
		}
		report.Results = append(report.Results, types.MatchResult{
			Kind: types.MatchPartial, Key: dk, Disk: copyDisk(d), Store: copyStore(storeIdx.entries[sk]), Reason: reason,
		})
		storeIdx.consume(sk)
	}

	for _, dk := range unmatched {
		report.Results = append(report.Results, types.MatchResult{
			Kind: types.MatchDiskOnly, Key: dk, Disk: copyDisk(diskIdx.entries[dk]),
		})
	}
	for _, sk := range storeIdx.order {
		if storeIdx.consumed[sk] {
			continue
		}
		report.Results = append(report.Results, types.MatchResult{
			Kind: types.MatchStoreOnly, Key: sk, Store: copyStore(storeIdx.entries[sk]),
		})
	}

	report.Duplicates, report.HashCollisions = groupDuplicates(disk)
	for _, hc := range report.HashCollisions {
		ids := make([]string, len(hc.Documents))
		for i, d := range hc.Documents {
			ids[i] = d.Identifier
		}
		opts.Logger.Warn("content hash shared by documents of different size",
			"hash", hc.ContentHash, "documents", strings.Join(ids, ", "))
	}

	return report, nil
}

// findPartial returns the first unconsumed store key, in store input
// order, that contains or is contained in diskKey with the shorter of the
// two at least minLen long.
func findPartial(diskKey string, storeIdx *index[*types.StoreRecord], minLen int) (string, string, bool) {
	if len(diskKey) < minLen {
		return "", "", false
	}
	for _, sk := range storeIdx.order {
		if storeIdx.consumed[sk] || len(sk) < minLen {
			continue
		}
		switch {
		case strings.Contains(sk, diskKey):
			return sk, "disk title contained in store title", true
		case strings.Contains(diskKey, sk):
			return sk, "store title contained in disk title", true
		}
	}
	return "", "", false
}

// Results hold copies so a report never aliases the caller's slices.
func copyDisk(d *types.DiskDocument) *types.DiskDocument {
	c := *d
	return &c
}

func copyStore(s *types.StoreRecord) *types.StoreRecord {
	c := *s
	return &c
}
