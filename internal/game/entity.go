package game

import "fmt"

// Kind is the category an entity is indexed under.
type Kind int

const (
	KindWall Kind = iota
	KindSentinel
	KindPlayer
	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindWall:
		return "wall"
	case KindSentinel:
		return "sentinel"
	case KindPlayer:
		return "player"
	default:
		return "unknown"
	}
}

// Handle identifies an entity slot plus the generation it was issued for.
// A handle outlives its entity safely: once the slot is freed the generation
// moves on and the handle stops resolving. The zero Handle means "none".
type Handle struct {
	Index uint32
	Gen   uint32
}

// Valid reports whether h refers to anything at all (it may still be stale).
func (h Handle) Valid() bool { return h.Gen != 0 }

func (h Handle) String() string {
	if !h.Valid() {
		return "none"
	}
	return fmt.Sprintf("#%d.%d", h.Index, h.Gen)
}

// Entity is the common surface of everything stored in the registry.
type Entity interface {
	Handle() Handle
	Kind() Kind
	Pos() Vec2
}

// Steppable entities advance once per simulation step.
type Steppable interface {
	Step(w *World, dt float64)
}

// Revealable entities light up when a wavefront or cone touches them.
type Revealable interface {
	Reveal()
}

// Hearer receives a last-known target position.
type Hearer interface {
	Hear(pos Vec2)
}

type slot struct {
	gen    uint32
	entity Entity
}

// Registry owns entity slots. Freed slots are reused with a bumped generation.
type Registry struct {
	slots []slot
	free  []uint32
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Alloc reserves a slot and returns its handle. The caller attaches the entity
// with Bind once it has been constructed around the handle.
func (r *Registry) Alloc() Handle {
	if n := len(r.free); n > 0 {
		idx := r.free[n-1]
		r.free = r.free[:n-1]
		s := &r.slots[idx]
		s.gen++
		return Handle{Index: idx, Gen: s.gen}
	}
	r.slots = append(r.slots, slot{gen: 1})
	return Handle{Index: uint32(len(r.slots) - 1), Gen: 1}
}

// Bind attaches e to the slot named by its own handle.
func (r *Registry) Bind(e Entity) {
	h := e.Handle()
	if int(h.Index) >= len(r.slots) || r.slots[h.Index].gen != h.Gen {
		return
	}
	r.slots[h.Index].entity = e
}

// Free releases the slot. Stale or unknown handles are ignored.
func (r *Registry) Free(h Handle) {
	if !r.Alive(h) {
		return
	}
	s := &r.slots[h.Index]
	s.entity = nil
	s.gen++
	r.free = append(r.free, h.Index)
}

// Alive reports whether h still names a bound entity.
func (r *Registry) Alive(h Handle) bool {
	if !h.Valid() || int(h.Index) >= len(r.slots) {
		return false
	}
	s := r.slots[h.Index]
	return s.gen == h.Gen && s.entity != nil
}

// Lookup resolves a handle. Stale handles return (nil, false).
func (r *Registry) Lookup(h Handle) (Entity, bool) {
	if !r.Alive(h) {
		return nil, false
	}
	return r.slots[h.Index].entity, true
}

// Len returns the number of live entities.
func (r *Registry) Len() int {
	return len(r.slots) - len(r.free)
}
