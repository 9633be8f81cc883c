// Package registry is the authoritative collection of assembled groups.
package registry

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/tekalign/internal/engine/scene"
	"github.com/Faultbox/tekalign/internal/logger"
)

// ID identifies a registered group.
type ID = uuid.UUID

// Registry maps stable group ids to scene nodes and remembers insertion order.
// It is owned by the UI goroutine and is not safe for concurrent use.
type Registry struct {
	groups map[ID]*scene.Node
	ids    map[*scene.Node]ID
	order  []ID
	log    *zap.Logger
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		groups: make(map[ID]*scene.Node),
		ids:    make(map[*scene.Node]ID),
		log:    logger.Named("registry"),
	}
}

// Register adds group and returns its id. Registering a group twice returns
// the existing id.
func (r *Registry) Register(group *scene.Node) ID {
	if id, ok := r.ids[group]; ok {
		return id
	}
	id := uuid.New()
	r.groups[id] = group
	r.ids[group] = id
	r.order = append(r.order, id)
	r.log.Debug("group registered", zap.Stringer("id", id), zap.Int("total", len(r.order)))
	return id
}

// Unregister removes a group. Unknown ids are ignored.
func (r *Registry) Unregister(id ID) bool {
	g, ok := r.groups[id]
	if !ok {
		return false
	}
	delete(r.groups, id)
	delete(r.ids, g)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.log.Debug("group unregistered", zap.Stringer("id", id), zap.Int("total", len(r.order)))
	return true
}

// Get returns the group for id.
func (r *Registry) Get(id ID) (*scene.Node, bool) {
	g, ok := r.groups[id]
	return g, ok
}

// Contains reports whether id is registered.
func (r *Registry) Contains(id ID) bool {
	_, ok := r.groups[id]
	return ok
}

// IDOf returns the id of a registered group node.
func (r *Registry) IDOf(group *scene.Node) (ID, bool) {
	id, ok := r.ids[group]
	return id, ok
}

// All returns the registered groups in insertion order.
func (r *Registry) All() []*scene.Node {
	out := make([]*scene.Node, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.groups[id])
	}
	return out
}

// Len returns the number of registered groups.
func (r *Registry) Len() int {
	return len(r.order)
}
