package orchestra

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// PlaybackEventType identifies a kind of playback event.
type PlaybackEventType uint8

const (
	PlaybackStarted  PlaybackEventType = iota // first Update of a player
	PlaybackLooped                            // playhead wrapped back to the start
	PlaybackFinished                          // playhead reached the end (not looping)
)

// PlaybackEvent carries playback state changes to an EventSink.
type PlaybackEvent struct {
	Type PlaybackEventType
	// Name is the player's name.
	Name string
	// Time is the playhead position in timeline units.
	Time float64
	// Loops counts completed passes.
	Loops int
}

// EventSink receives playback events. The ecs package provides a Donburi
// implementation.
type EventSink interface {
	EmitEvent(event PlaybackEvent)
}

// PlayerConfig configures a Player.
type PlayerConfig struct {
	// Name is reported in playback events.
	Name string
	// Duration is the wall-clock seconds for one pass over the timeline.
	// Zero plays one timeline unit per second.
	Duration float32
	// Ease shapes the playhead over a pass. Nil is linear.
	Ease ease.TweenFunc
	// Loop restarts the timeline after each pass instead of finishing.
	Loop bool
	// Sink receives playback events. Optional.
	Sink EventSink
}

// Player advances a playhead over a ClipStore's timeline and applies the
// values to every bound target each frame. Call Update(dt) once per frame.
//
// There is no global player manager. Users call Update themselves or
// attach the player to a Scene.
type Player struct {
	store *ClipStore
	tween *gween.Tween
	cfg   PlayerConfig

	time    float64
	loops   int
	started bool

	Paused bool
	Done   bool
}

// NewPlayer creates a player positioned at the start of the timeline.
func NewPlayer(store *ClipStore, cfg PlayerConfig) *Player {
	length := float32(store.TotalLength())
	if cfg.Duration <= 0 {
		cfg.Duration = length
	}
	if cfg.Ease == nil {
		cfg.Ease = ease.Linear
	}
	return &Player{
		store: store,
		tween: gween.New(0, length, cfg.Duration, cfg.Ease),
		cfg:   cfg,
	}
}

// Store returns the store this player drives.
func (p *Player) Store() *ClipStore {
	return p.store
}

// Time returns the playhead position in timeline units.
func (p *Player) Time() float64 {
	return p.time
}

// Loops returns the number of completed passes.
func (p *Player) Loops() int {
	return p.loops
}

// Update advances the playhead by dt seconds and applies the timeline at the
// new position. Paused or finished players do nothing.
func (p *Player) Update(dt float32) error {
	if p.Done || p.Paused {
		return nil
	}
	if !p.started {
		p.started = true
		p.emit(PlaybackStarted)
	}

	cur, finished := p.tween.Update(dt)
	p.time = float64(cur)
	if err := p.store.ApplyAll(p.time); err != nil {
		return err
	}
	if !finished {
		return nil
	}

	p.loops++
	if p.cfg.Loop && p.cfg.Duration > 0 {
		p.tween.Reset()
		p.emit(PlaybackLooped)
		return nil
	}
	p.Done = true
	p.emit(PlaybackFinished)
	return nil
}

// Seek moves the playhead to elapsed seconds into the current pass and
// applies the timeline there. A finished player becomes playable again.
func (p *Player) Seek(elapsed float32) error {
	cur, finished := p.tween.Set(elapsed)
	p.time = float64(cur)
	p.Done = finished && !p.cfg.Loop
	return p.store.ApplyAll(p.time)
}

// Reset rewinds to the start without applying.
func (p *Player) Reset() {
	p.tween.Reset()
	p.time = 0
	p.loops = 0
	p.started = false
	p.Done = false
}

func (p *Player) emit(typ PlaybackEventType) {
	if p.cfg.Sink == nil {
		return
	}
	p.cfg.Sink.EmitEvent(PlaybackEvent{Type: typ, Name: p.cfg.Name, Time: p.time, Loops: p.loops})
}
