// Package ecs provides ECS adapters for gesturesound's gesture events.
//
// The primary adapter is [NewDonburiStore], which bridges recognized
// gestures (tap, drag, scale, rotate) into a [Donburi] world as typed
// events. Subscribe to [GestureEventType] in your ECS systems to receive
// them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetGestureStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
