package compiler

// storageAllocator hands out persistent storage slots to state variables in
// declaration order. Slot runs are gapless and never reclaimed.
type storageAllocator struct {
	slots map[DeclID]uint64
	size  uint64
}

func newStorageAllocator() storageAllocator {
	return storageAllocator{slots: make(map[DeclID]uint64)}
}

// allocate assigns the next run of sizeInSlots slots to decl and returns the
// run's first slot. Allocating twice for the same declaration is fatal.
func (s *storageAllocator) allocate(decl DeclID, sizeInSlots uint64) uint64 {
	if _, ok := s.slots[decl]; ok {
		ice("state variable %d already has a storage slot", decl)
	}
	slot := s.size
	s.slots[decl] = slot
	s.size += sizeInSlots
	return slot
}

// slotOf returns decl's assigned slot. An unknown declaration is fatal.
func (s *storageAllocator) slotOf(decl DeclID) uint64 {
	slot, ok := s.slots[decl]
	if !ok {
		ice("declaration %d has no storage slot", decl)
	}
	return slot
}

// totalSize returns the number of slots allocated so far.
func (s *storageAllocator) totalSize() uint64 {
	return s.size
}
