package progression

import "sync"

// lockManager hands out one mutex per (user, group) pair so the
// read-check-write sequence of a grant runs serialized per membership.
// Entries are never evicted; the map is bounded by the active member
// population.
type lockManager struct {
	locks sync.Map
}

func (lm *lockManager) lock(userID, groupID string) func() {
	key := userID + ":" + groupID
	mu, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}
