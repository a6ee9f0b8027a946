package keyindex

import (
	"fmt"

	"github.com/timzifer/kvfifo/internal/store"
)

// Check verifies that x indexes exactly the live entries of s: every key has
// a non-empty ID list, every ID is live and carries that key, IDs of a key
// appear in global order, and no live entry is missing.
func Check[K, V any](x *Index[K], s *store.Store[K, V]) error {
	rank := make(map[store.ID]int, s.Len())
	i := 0
	for id := range s.All() {
		rank[id] = i
		i++
	}

	seen := 0
	var err error
	x.tree.Ascend(func(b *bucket[K]) bool {
		if len(b.ids) == 0 {
			err = fmt.Errorf("key %v has no positions", b.key)
			return false
		}
		last := -1
		for _, id := range b.ids {
			r, ok := rank[id]
			if !ok {
				err = fmt.Errorf("key %v references dead slot %d", b.key, id)
				return false
			}
			if x.compare(s.Get(id).Key, b.key) != 0 {
				err = fmt.Errorf("slot %d holds key %v, indexed under %v", id, s.Get(id).Key, b.key)
				return false
			}
			if r <= last {
				err = fmt.Errorf("key %v positions out of global order", b.key)
				return false
			}
			last = r
			seen++
		}
		return true
	})
	if err != nil {
		return err
	}
	if seen != s.Len() || seen != x.ids {
		return fmt.Errorf("index holds %d positions (counter %d), store holds %d entries", seen, x.ids, s.Len())
	}
	return nil
}
