package orchestra

// Base is the initial state of every animated object. Objects and their
// fields keep the order in which they were added; that order drives
// compilation and evaluation.
type Base struct {
	objects []*ObjectBase
	index   map[string]*ObjectBase
}

// ObjectBase holds one object's initial field values and its object-level
// clip configuration.
type ObjectBase struct {
	ID     string
	Config ClipConfig

	fields []FieldValue
	index  map[string]int
}

// FieldValue pairs a field id with a stored value.
type FieldValue struct {
	Field string
	Value Value
}

// NewBase creates an empty base state.
func NewBase() *Base {
	return &Base{index: make(map[string]*ObjectBase)}
}

// Object returns the object with the given id, adding it if absent. A non-nil
// cfg replaces the object's config layer.
func (b *Base) Object(id string, cfg ...ClipConfig) *ObjectBase {
	o, ok := b.index[id]
	if !ok {
		o = &ObjectBase{ID: id, index: make(map[string]int)}
		b.index[id] = o
		b.objects = append(b.objects, o)
	}
	if len(cfg) > 0 {
		o.Config = cfg[0]
	}
	return o
}

// Lookup returns the object with the given id.
func (b *Base) Lookup(id string) (*ObjectBase, bool) {
	o, ok := b.index[id]
	return o, ok
}

// Objects returns the objects in insertion order.
func (b *Base) Objects() []*ObjectBase {
	return b.objects
}

// Set records the initial value of a field. Setting a field twice keeps its
// original position and replaces the value.
func (o *ObjectBase) Set(field string, v Value) *ObjectBase {
	if i, ok := o.index[field]; ok {
		o.fields[i].Value = v
		return o
	}
	o.index[field] = len(o.fields)
	o.fields = append(o.fields, FieldValue{Field: field, Value: v})
	return o
}

// Value returns the initial value of a field.
func (o *ObjectBase) Value(field string) (Value, bool) {
	i, ok := o.index[field]
	if !ok {
		return nil, false
	}
	return o.fields[i].Value, true
}

// Fields returns the field values in insertion order.
func (o *ObjectBase) Fields() []FieldValue {
	return o.fields
}

// Definition is the sparse keyframe definition: for every object, a list of
// frames at arbitrary times.
type Definition struct {
	objects []string
	frames  map[string][]*Frame
}

// Frame is the set of field entries specified at one time for one object.
type Frame struct {
	Time float64
	// Key is the textual time key the frame was loaded from, if any.
	Key     string
	Entries []Entry
}

// Entry is a single field's keyframe: either an inherit marker or a value
// with its per-frame config. An entry with neither is malformed.
type Entry struct {
	Field    string
	Inherit  bool
	HasValue bool
	Value    Value
	Config   ClipConfig
}

// NewDefinition creates an empty keyframe definition.
func NewDefinition() *Definition {
	return &Definition{frames: make(map[string][]*Frame)}
}

// At appends a new frame for object at time t. Frames sharing a time are
// compiled in the order they were added.
func (d *Definition) At(object string, t float64) *Frame {
	return d.AddFrame(object, &Frame{Time: t})
}

// AddFrame appends an already built frame for object.
func (d *Definition) AddFrame(object string, f *Frame) *Frame {
	if f == nil {
		panic("orchestra: nil frame")
	}
	if _, ok := d.frames[object]; !ok {
		d.objects = append(d.objects, object)
	}
	d.frames[object] = append(d.frames[object], f)
	return f
}

// Objects returns the object ids that have frames, in insertion order.
func (d *Definition) Objects() []string {
	return d.objects
}

// Frames returns the frames of an object in insertion order.
func (d *Definition) Frames(object string) []*Frame {
	return d.frames[object]
}

// Set adds a value entry. At most one config layer may be given.
func (f *Frame) Set(field string, v Value, cfg ...ClipConfig) *Frame {
	e := Entry{Field: field, HasValue: true, Value: v}
	if len(cfg) > 0 {
		e.Config = cfg[0]
	}
	f.Entries = append(f.Entries, e)
	return f
}

// Inherit adds an inherit marker: the field holds its previous value and the
// next clip starts at this frame's time.
func (f *Frame) Inherit(field string) *Frame {
	f.Entries = append(f.Entries, Entry{Field: field, Inherit: true})
	return f
}
