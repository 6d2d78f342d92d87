// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package author

import (
	"strings"

	"github.com/pdiddy/doc-reconcile/pkg/types"
)

// PlanUpdates proposes author write-backs for matched pairs whose store
// record has no author while the disk document carries one with at least
// minConfidence. It does not touch the store.
func PlanUpdates(results []types.MatchResult, minConfidence int) []types.AuthorUpdate {
	var updates []types.AuthorUpdate
	for _, res := range results {
		if res.Kind != types.MatchExact && res.Kind != types.MatchPartial {
			continue
		}
		if res.Disk == nil || res.Store == nil {
			continue
		}
		if strings.TrimSpace(res.Store.RawAuthor) != "" {
			continue
		}
		author := strings.TrimSpace(res.Disk.RawAuthor)
		if author == "" || res.Disk.AuthorConfidence < minConfidence {
			continue
		}
		updates = append(updates, types.AuthorUpdate{
			RecordID:   res.Store.Identifier,
			Author:     author,
			Confidence: res.Disk.AuthorConfidence,
			Rule:       res.Disk.AuthorRule,
			Source:     res.Disk.Identifier,
		})
	}
	return updates
}
