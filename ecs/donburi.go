package ecs

import (
	"github.com/rjmarsan/gesturesound"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// GestureEventType is the Donburi event type for gesture events.
var GestureEventType = events.NewEventType[gesturesound.GestureEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates a GestureStore backed by a Donburi world.
// Gestures are published to GestureEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) gesturesound.GestureStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitGesture(event gesturesound.GestureEvent) {
	GestureEventType.Publish(s.world, event)
}
