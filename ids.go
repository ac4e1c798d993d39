package strata

// SpriteID is a process-unique sprite identity. IDs are never reused.
type SpriteID uint32

// IDAllocator hands out monotonically increasing sprite IDs. It is a plain
// counter: strata is single-threaded and an Engine is its only writer.
type IDAllocator struct {
	next SpriteID
}

// Next returns a fresh identity.
func (a *IDAllocator) Next() SpriteID {
	id := a.next
	a.next++
	return id
}

// Peek returns the identity the next call to Next will return.
func (a *IDAllocator) Peek() SpriteID {
	return a.next
}
