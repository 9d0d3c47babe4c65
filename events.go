package fern

import (
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType carries every dispatched UI event into the host
// world. Subscribe to it from ECS systems and drain it with ProcessEvents.
var InteractionEventType = events.NewEventType[Event]()

// LayoutEventType carries geometry changes into the host world.
var LayoutEventType = events.NewEventType[LayoutEvent]()
