package layer

import (
	"strconv"
	"sync"
)

// Registry tracks the ids of all simultaneously-live layer instances so
// uniqueness can be enforced at creation time. Registration is explicit
// on creation and deregistration explicit on destruction.
type Registry struct {
	mu   sync.Mutex
	live map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{live: make(map[string]struct{})}
}

// Register claims an id. It returns a DuplicateIDError when the id is
// already live.
func (r *Registry) Register(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.live[id]; ok {
		return &DuplicateIDError{ID: id}
	}
	r.live[id] = struct{}{}
	return nil
}

// Unregister releases an id. Releasing an unknown id is a no-op.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	delete(r.live, id)
	r.mu.Unlock()
}

// Live reports whether an id is currently registered.
func (r *Registry) Live(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.live[id]
	return ok
}

// DefaultRegistry is the process-wide registry used when a layer is
// created without an explicit one.
var DefaultRegistry = NewRegistry()

// SubLayerID derives a deterministic child id from a parent id and a
// per-parent index. Children never collide with each other or with any
// sibling as long as parent ids are unique.
func SubLayerID(parent string, index int) string {
	return parent + "-" + strconv.Itoa(index)
}
