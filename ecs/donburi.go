package ecs

import (
	"github.com/phanxgames/strata"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
	"github.com/yohamta/donburi/query"
)

// RenderableData holds an entity's latest sprite value.
type RenderableData struct {
	Sprite strata.Sprite
}

// Renderable is the component SyncSystem reads.
var Renderable = donburi.NewComponentType[RenderableData]()

// SpriteRemoved is published when SyncSystem despawns an entity because its
// sprite was marked for removal.
type SpriteRemoved struct {
	Entity   donburi.Entity
	SpriteID strata.SpriteID
	LayerID  string
}

// SpriteRemovedEventType is the Donburi event type for SpriteRemoved.
var SpriteRemovedEventType = events.NewEventType[SpriteRemoved]()

// SetSprite stores s on the entry's Renderable component.
func SetSprite(entry *donburi.Entry, s strata.Sprite) {
	Renderable.Get(entry).Sprite = s
}

// Sprite returns the sprite stored on the entry, or nil.
func Sprite(entry *donburi.Entry) strata.Sprite {
	return Renderable.Get(entry).Sprite
}

// SyncSystem pushes Renderable sprites into a strata Engine.
type SyncSystem struct {
	engine *strata.Engine
	query  *query.Query
	doomed []donburi.Entity
}

// NewSyncSystem returns a system feeding engine.
func NewSyncSystem(engine *strata.Engine) *SyncSystem {
	return &SyncSystem{
		engine: engine,
		query:  donburi.NewQuery(filter.Contains(Renderable)),
	}
}

// Update pushes every renderable sprite to the engine. Destroyed sprites are
// removed from the engine and their entities from the world. Removal events
// are queued; call SpriteRemovedEventType.ProcessEvents to deliver them.
func (s *SyncSystem) Update(world donburi.World) {
	s.doomed = s.doomed[:0]
	s.query.Each(world, func(entry *donburi.Entry) {
		sp := Sprite(entry)
		if sp == nil {
			return
		}
		s.engine.UpdateSprite(sp)
		if sp.Destroyed() {
			s.doomed = append(s.doomed, entry.Entity())
			SpriteRemovedEventType.Publish(world, SpriteRemoved{
				Entity:   entry.Entity(),
				SpriteID: sp.ID(),
				LayerID:  sp.LayerID(),
			})
		}
	})
	for _, e := range s.doomed {
		world.Remove(e)
	}
}

// Despawn removes the entry's sprite from the engine and the entity from the
// world immediately.
func (s *SyncSystem) Despawn(world donburi.World, entry *donburi.Entry) {
	if sp := Sprite(entry); sp != nil {
		s.engine.Remove(sp)
	}
	world.Remove(entry.Entity())
}
