// Package ecs provides ECS adapters for orchestra.
//
// The primary adapter is [NewDonburiSink], which bridges orchestra playback
// events (started, looped, finished) into a [Donburi] world as typed events.
// Subscribe to [PlaybackEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	player := orchestra.NewPlayer(store, orchestra.PlayerConfig{Sink: sink})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
