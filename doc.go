// Package gesturesound recognizes multi-touch gestures on a retained 2D node
// tree for [Ebitengine] programs.
//
// Raw pointer samples become [Cursor] values. Each cursor is bound at press
// time to the topmost interactable [Node] under it and offered to the
// [Processor] values registered on that node. Processors compete for
// cursors through a priority [Arbiter]: a higher priority recognizer takes a
// cursor away from a lower one, which is told so and may resume once the
// cursor is unlocked again.
//
// # Quick start
//
//	stage := gesturesound.NewStage(gesturesound.DefaultConfig())
//	scene := stage.NewScene()
//
//	card := gesturesound.NewNode("card")
//	card.Width, card.Height = 200, 120
//	card.Interactable = true
//	scene.Root().AddChild(card)
//
//	tap := scene.NewTapProcessor()
//	tap.AddListener(func(e gesturesound.GestureEvent) {
//		if p, ok := e.Tap(); ok && p.Outcome == gesturesound.TapClicked {
//			fmt.Println("clicked", e.Target.Name)
//		}
//	})
//	scene.RegisterProcessor(card, tap)
//
//	scale := scene.NewScaleProcessor()
//	scale.AddListener(gesturesound.ScaleAction(card, 0.25, 4))
//	scene.RegisterProcessor(card, scale)
//
//	gesturesound.Run(stage, gesturesound.RunConfig{})
//
// For full control, implement [ebiten.Game] yourself, feed samples with
// [Stage.Feed] and call [Stage.Update] once per tick.
//
// # Recognizers
//
// Tap and drag use one cursor; scale and rotate use two cursors on the same
// target. Default priorities put scale and rotate above tap and drag, so a
// second finger turns a pending tap into a pinch. Gestures are reported as
// [GestureEvent] values with a DETECTED, UPDATED, ENDED lifecycle.
//
// # Scenes
//
// A [Stage] owns the cursor table and arbiter shared by its scenes.
// [Stage.SetScene] closes every open gesture in the old scene and replays
// the cursors still down into the new one, so a finger that stays on the
// glass keeps working after a scene change.
//
// # Configuration
//
// [LoadConfig] reads a TOML file on top of [DefaultConfig]; [NewLogger]
// builds the structured logger shared by the stage and its recognizers.
//
// # ECS integration
//
// Set a [GestureStore] on a scene to forward gesture events into an entity
// component system. The gesturesound/ecs package provides a Donburi adapter.
//
// [Ebitengine]: https://ebitengine.org
package gesturesound
