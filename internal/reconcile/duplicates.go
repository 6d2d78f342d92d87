// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import "github.com/pdiddy/doc-reconcile/pkg/types"

// groupDuplicates groups disk documents by content hash. Documents that
// share both hash and size form a DuplicateGroup; a hash seen with more
// than one size is reported as a HashCollision instead and its documents
// are not merged. Groups are ordered by first appearance in docs.
// Documents without a hash are ignored.
func groupDuplicates(docs []types.DiskDocument) ([]types.DuplicateGroup, []types.HashCollision) {
	byHash := make(map[string][]types.DiskDocument)
	var hashOrder []string
	for _, d := range docs {
		if d.ContentHash == "" {
			continue
		}
		if _, ok := byHash[d.ContentHash]; !ok {
			hashOrder = append(hashOrder, d.ContentHash)
		}
		byHash[d.ContentHash] = append(byHash[d.ContentHash], d)
	}

	var groups []types.DuplicateGroup
	var collisions []types.HashCollision
	for _, h := range hashOrder {
		members := byHash[h]
		if len(members) < 2 {
			continue
		}

		bySize := make(map[int64][]types.DiskDocument)
		var sizeOrder []int64
		for _, d := range members {
			if _, ok := bySize[d.ByteSize]; !ok {
				sizeOrder = append(sizeOrder, d.ByteSize)
			}
			bySize[d.ByteSize] = append(bySize[d.ByteSize], d)
		}
		if len(sizeOrder) > 1 {
			collisions = append(collisions, types.HashCollision{ContentHash: h, Documents: members})
		}
		for _, size := range sizeOrder {
			if same := bySize[size]; len(same) >= 2 {
				groups = append(groups, types.DuplicateGroup{ContentHash: h, ByteSize: size, Documents: same})
			}
		}
	}
	return groups, collisions
}
