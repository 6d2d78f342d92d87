// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import "github.com/pdiddy/doc-reconcile/pkg/types"

// index maps normalized keys to entries and remembers the order in which
// keys were first seen, so iteration never depends on map order.
type index[T any] struct {
	side       types.Side
	entries    map[string]T
	ids        map[string]string
	order      []string
	consumed   map[string]bool
	collisions []types.IndexCollision
}

func newIndex[T any](side types.Side) *index[T] {
	return &index[T]{
		side:     side,
		entries:  make(map[string]T),
		ids:      make(map[string]string),
		consumed: make(map[string]bool),
	}
}

// put stores v under key. Last write wins; the displaced entry is recorded
// as a collision and the key keeps its original position in order.
func (ix *index[T]) put(key string, v T, id string) {
	if prev, ok := ix.ids[key]; ok {
		ix.collisions = append(ix.collisions, types.IndexCollision{
			Side: ix.side, Key: key, Displaced: prev,
		})
	} else {
		ix.order = append(ix.order, key)
	}
	ix.entries[key] = v
	ix.ids[key] = id
}

// finalCollisions returns the recorded collisions with Kept set to the
// entry that holds each key once every put is done.
func (ix *index[T]) finalCollisions() []types.IndexCollision {
	out := make([]types.IndexCollision, len(ix.collisions))
	for i, c := range ix.collisions {
		c.Kept = ix.ids[c.Key]
		out[i] = c
	}
	return out
}

func (ix *index[T]) consume(key string) {
	ix.consumed[key] = true
}
