package security

import "sync"

// In-memory deny list of backend user ids, seeded from config at startup.
var (
	muDenied  sync.RWMutex
	denyUsers = make(map[int64]struct{})
)

// User denylist API
func DenyUser(id int64)  { muDenied.Lock(); denyUsers[id] = struct{}{}; muDenied.Unlock() }
func AllowUser(id int64) { muDenied.Lock(); delete(denyUsers, id); muDenied.Unlock() }
func IsUserDenied(id int64) bool {
	muDenied.RLock()
	_, ok := denyUsers[id]
	muDenied.RUnlock()
	return ok
}

// Load replaces the deny list with ids.
func Load(ids []int64) {
	muDenied.Lock()
	defer muDenied.Unlock()
	denyUsers = make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		denyUsers[id] = struct{}{}
	}
}
