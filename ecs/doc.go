// Package ecs connects strata to a [Donburi] world.
//
// Entities carry their current sprite value in the [Renderable] component.
// [SyncSystem] pushes every renderable to the engine once per frame; values
// that have not changed cost a comparison and leave their layer clean.
// Entities whose sprite is marked for removal are despawned, and a
// [SpriteRemoved] event is published for each.
//
// Usage:
//
//	world := donburi.NewWorld()
//	sync := ecs.NewSyncSystem(engine)
//
//	e := world.Create(ecs.Renderable)
//	ecs.SetSprite(world.Entry(e), engine.CreateImage("entities", patch))
//
//	// each tick
//	sync.Update(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
