package batch

import "sync"

// VisitedSet remembers which filenames have been claimed during one run
type VisitedSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewVisitedSet returns an empty set
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{seen: make(map[string]struct{})}
}

// Claim marks name as visited. It returns false if name was already claimed.
func (v *VisitedSet) Claim(name string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.seen[name]; ok {
		return false
	}
	v.seen[name] = struct{}{}
	return true
}
