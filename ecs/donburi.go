package ecs

import (
	"github.com/phanxgames/orchestra"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// PlaybackEventType is the Donburi event type for orchestra playback events.
var PlaybackEventType = events.NewEventType[orchestra.PlaybackEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Playback events are published to PlaybackEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) orchestra.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event orchestra.PlaybackEvent) {
	PlaybackEventType.Publish(s.world, event)
}
