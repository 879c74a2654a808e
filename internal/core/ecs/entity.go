package ecs

// EntityID encodes a 32-bit index in the lower bits and a 32-bit generation
// in the upper bits. Generation increments on destroy so a handle that
// outlived its instance no longer matches.
type EntityID uint64

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

// IDAllocator mints generational ids with a free list. Index 0 is reserved
// so the zero EntityID never names a live instance.
type IDAllocator struct {
	generations []uint32
	freeList    []uint32
	live        int
}

func NewIDAllocator() *IDAllocator {
	return &IDAllocator{
		generations: make([]uint32, 1, 1024),
		freeList:    make([]uint32, 0, 256),
	}
}

func (a *IDAllocator) Create() EntityID {
	a.live++
	if len(a.freeList) > 0 {
		idx := a.freeList[len(a.freeList)-1]
		a.freeList = a.freeList[:len(a.freeList)-1]
		return NewEntityID(idx, a.generations[idx])
	}
	idx := uint32(len(a.generations))
	a.generations = append(a.generations, 0)
	return NewEntityID(idx, 0)
}

func (a *IDAllocator) Alive(id EntityID) bool {
	idx := id.Index()
	if idx == 0 || int(idx) >= len(a.generations) {
		return false
	}
	return a.generations[idx] == id.Generation()
}

// Destroy invalidates id. Stale or unknown ids are ignored.
func (a *IDAllocator) Destroy(id EntityID) {
	if !a.Alive(id) {
		return
	}
	idx := id.Index()
	a.generations[idx]++
	a.freeList = append(a.freeList, idx)
	a.live--
}

// Live returns the number of ids handed out and not yet destroyed.
func (a *IDAllocator) Live() int { return a.live }
