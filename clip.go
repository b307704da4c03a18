package orchestra

import "maps"

// Point is a value pinned to a time on the timeline.
type Point struct {
	Time  float64
	Value Value
}

// Clip is one interpolation segment of a single field. Start.Time <= End.Time.
type Clip struct {
	Start  Point
	End    Point
	Config ResolvedConfig
}

// Duration returns End.Time - Start.Time.
func (c Clip) Duration() float64 {
	return c.End.Time - c.Start.Time
}

// Alpha returns the linear progress of t through the clip, clamped to
// [0, 1]. Zero-duration clips are always complete.
func (c Clip) Alpha(t float64) float64 {
	d := c.Duration()
	if d <= 0 {
		return 1
	}
	a := (t - c.Start.Time) / d
	switch {
	case a < 0:
		return 0
	case a > 1:
		return 1
	}
	return a
}

// ObjectClips is the compiled timeline of one object.
type ObjectClips struct {
	ID string
	// Fields lists the object's field ids in base-state order.
	Fields []string
	// Clips holds each field's ordered, contiguous clip list.
	Clips map[string][]Clip
	// Config is the object's resolved config (global merged with object).
	Config ResolvedConfig
}

// Keyframes is the compiled output of Compile. It is never mutated after
// compilation.
type Keyframes struct {
	order   []string
	objects map[string]*ObjectClips
}

// Objects returns the compiled object ids in base-state order.
func (k *Keyframes) Objects() []string {
	return append([]string(nil), k.order...)
}

// Object returns a copy of the compiled timeline of an object.
func (k *Keyframes) Object(id string) (*ObjectClips, bool) {
	o, ok := k.objects[id]
	if !ok {
		return nil, false
	}
	return o.clone(), true
}

func (o *ObjectClips) clone() *ObjectClips {
	c := *o
	c.Fields = append([]string(nil), o.Fields...)
	c.Config.Params = maps.Clone(o.Config.Params)
	c.Clips = make(map[string][]Clip, len(o.Clips))
	for field, clips := range o.Clips {
		c.Clips[field] = cloneClips(clips)
	}
	return &c
}

// Clips returns a copy of a field's clip list.
func (k *Keyframes) Clips(object, field string) ([]Clip, bool) {
	o, ok := k.objects[object]
	if !ok {
		return nil, false
	}
	clips, ok := o.Clips[field]
	if !ok {
		return nil, false
	}
	return cloneClips(clips), true
}

func cloneClips(clips []Clip) []Clip {
	out := append([]Clip(nil), clips...)
	for i := range out {
		out[i].Config.Params = maps.Clone(out[i].Config.Params)
	}
	return out
}

// NumClips returns the total number of clips across all objects and fields.
func (k *Keyframes) NumClips() int {
	n := 0
	for _, o := range k.objects {
		for _, clips := range o.Clips {
			n += len(clips)
		}
	}
	return n
}
