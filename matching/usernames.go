package matching

import (
	"sync"

	"github.com/footprintlab/scanner/models"
)

// UsernameRegistry tracks usernames discovered per platform during profile
// matching. Post matching on a platform consults the registry only after the
// platform's profile phase has completed; the lock exists because profile
// chunks for different platforms record discoveries concurrently.
type UsernameRegistry struct {
	mu        sync.RWMutex
	platforms map[models.Platform]StringSet
}

func NewUsernameRegistry() *UsernameRegistry {
	return &UsernameRegistry{platforms: make(map[models.Platform]StringSet)}
}

// Record registers a discovered username for a platform.
func (r *UsernameRegistry) Record(platform models.Platform, username string) {
	if username == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.platforms[platform]
	if !ok {
		set = make(StringSet)
		r.platforms[platform] = set
	}
	set.Add(username)
}

// Discovered returns a snapshot of the usernames known for a platform.
func (r *UsernameRegistry) Discovered(platform models.Platform) StringSet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot := make(StringSet, len(r.platforms[platform]))
	for username := range r.platforms[platform] {
		snapshot[username] = struct{}{}
	}
	return snapshot
}

// All returns every discovered username across platforms.
func (r *UsernameRegistry) All() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var usernames []string
	for _, set := range r.platforms {
		for username := range set {
			usernames = append(usernames, username)
		}
	}
	return usernames
}
