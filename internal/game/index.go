package game

// Index is the categorical query surface: for each Kind it holds the live
// entities in insertion order. It is owned by the World and handed to whoever
// needs a query; there is no package-level registry.
type Index struct {
	byKind [kindCount][]Entity
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{}
}

// Insert adds e under its kind.
func (ix *Index) Insert(e Entity) {
	k := e.Kind()
	ix.byKind[k] = append(ix.byKind[k], e)
}

// Remove drops the entity with handle h from kind k, keeping order.
func (ix *Index) Remove(k Kind, h Handle) bool {
	list := ix.byKind[k]
	for i, e := range list {
		if e.Handle() == h {
			copy(list[i:], list[i+1:])
			list[len(list)-1] = nil
			ix.byKind[k] = list[:len(list)-1]
			return true
		}
	}
	return false
}

// Query returns the live entities of kind k. The slice is owned by the index;
// callers must not hold it across a Remove.
func (ix *Index) Query(k Kind) []Entity {
	return ix.byKind[k]
}

// Count returns how many entities of kind k are live.
func (ix *Index) Count(k Kind) int {
	return len(ix.byKind[k])
}

// Walls returns the typed wall set.
func (ix *Index) Walls() []*Wall {
	out := make([]*Wall, 0, len(ix.byKind[KindWall]))
	for _, e := range ix.byKind[KindWall] {
		out = append(out, e.(*Wall))
	}
	return out
}

// Sentinels returns the typed sentinel set as a snapshot copy, so removals
// during iteration do not disturb the caller.
func (ix *Index) Sentinels() []*Sentinel {
	out := make([]*Sentinel, 0, len(ix.byKind[KindSentinel]))
	for _, e := range ix.byKind[KindSentinel] {
		out = append(out, e.(*Sentinel))
	}
	return out
}

// Players returns the typed player set.
func (ix *Index) Players() []*Player {
	out := make([]*Player, 0, len(ix.byKind[KindPlayer]))
	for _, e := range ix.byKind[KindPlayer] {
		out = append(out, e.(*Player))
	}
	return out
}

// Within returns the entities of kind k whose centre lies within r of p.
func (ix *Index) Within(k Kind, p Vec2, r float64) []Entity {
	var out []Entity
	for _, e := range ix.byKind[k] {
		if e.Pos().Dist(p) <= r {
			out = append(out, e)
		}
	}
	return out
}
