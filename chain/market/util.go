package market

import (
	"sort"

	"github.com/dcore-project/dcore/chain/types"
)

// sortedIDs fixes the iteration order of account-keyed maps. Every
// replaying node must mutate balances and emit operations in the same
// order, so map iteration is never used directly where order is
// observable.
func sortedIDs[T any](m map[types.AccountID]T) []types.AccountID {
	ids := make([]types.AccountID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func containsAccount(s []types.AccountID, id types.AccountID) bool {
	for _, e := range s {
		if e == id {
			return true
		}
	}
	return false
}

func copySplits(m map[types.AccountID]uint32) map[types.AccountID]uint32 {
	out := make(map[types.AccountID]uint32, len(m))
	for id, bp := range m {
		out[id] = bp
	}
	return out
}
