// Package strata is a layered 2D sprite batcher for [Ebitengine].
//
// Games describe what to draw as sprite values routed to named layers.
// Each layer packs its members into four flat arrays (positions, texture
// coordinates, colors and indices) and is drawn with a single call, so a
// frame costs one draw per layer no matter how many sprites it holds.
//
// # Quick start
//
//	atlas, _ := strata.BuildAtlas(strata.ShelfPacker{}, sources)
//
//	e := strata.NewEngine(strata.NewEbitenBackend())
//	e.AddLayer(strata.LayerConfig{ID: "floors", Kind: strata.LayerImage, Depth: 0})
//	e.AddLayer(strata.LayerConfig{ID: "entities", Kind: strata.LayerImage, Depth: 20, Sort: true, Color: true})
//	e.SetAtlas(atlas)
//
//	hero := e.CreateImage("entities", strata.ImagePatch{
//		Region: strata.Set(atlas.Region("hero")),
//		X:      strata.Set(32.0),
//		Y:      strata.Set(48.0),
//	})
//
//	strata.Run(e, strata.RunConfig{Title: "Demo", Width: 800, Height: 600})
//
// # Sprites are values
//
// [ImageSprite], [TriangleSprite] and [LineSprite] are immutable. An update
// builds a new value with the same ID through WithChanges and hands it back
// to the engine:
//
//	hero, _ = e.UpdateImage(hero.ID(), strata.ImagePatch{X: strata.Set(40.0)})
//
// An update whose fields all equal the current ones reports no change and
// leaves the layer clean. Lines are composites: the engine registers their
// two triangles under their own IDs and never draws the line itself.
//
// # Layers and rebuilds
//
// Layers draw in ascending depth rank. Within a sorted layer, members draw
// in descending sprite depth, so larger depths end up underneath. Updates
// only queue work; [Engine.RenderLayers] rebuilds the dirty layers once per
// frame and then issues the draws. Layer offsets and the pixel scale are
// applied at draw time and never trigger a rebuild.
//
// # Atlas
//
// All layers sample one shared atlas. [ShelfPacker] composites named
// images into it and reserves a solid white block that triangles sample, so
// their vertex color alone decides their appearance. [LoadAtlas] reads
// TexturePacker JSON instead.
//
// # Logging
//
// strata logs through [log/slog] and is silent by default. Use [SetLogger]
// to route its records into your own handler.
//
// [Ebitengine]: https://ebitengine.org
package strata
