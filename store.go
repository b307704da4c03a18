package orchestra

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// StoreOptions holds everything a ClipStore is built from.
type StoreOptions struct {
	Fields    Fields
	Objects   []string
	Keyframes *Keyframes
	Base      *Base
	// Length is the total timeline length reported by TotalLength.
	Length float64

	Metrics *Metrics
	Logger  *slog.Logger
}

// ClipStore holds a compiled timeline and answers time-based value queries.
// The compiled clips are never mutated, so Evaluate and Sample may be called
// from several goroutines at once. Target bindings are guarded by a mutex;
// bindings added or detached while ApplyAll runs take effect on the next
// ApplyAll.
type ClipStore struct {
	fields    Fields
	objects   []string
	keyframes *Keyframes
	base      map[string]map[string]Value // object -> field -> base value
	length    float64
	metrics   *Metrics
	logger    *slog.Logger

	mu       sync.Mutex
	bindings []*Binding
}

// NewClipStore creates a store over already compiled keyframes. The base
// values are copied, so later changes to opts.Base do not reach the store.
func NewClipStore(opts StoreOptions) *ClipStore {
	if opts.Keyframes == nil {
		opts.Keyframes = &Keyframes{objects: map[string]*ObjectClips{}}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	base := make(map[string]map[string]Value)
	if opts.Base != nil {
		for _, ob := range opts.Base.Objects() {
			values := make(map[string]Value)
			for _, fv := range ob.Fields() {
				values[fv.Field] = fv.Value
			}
			base[ob.ID] = values
		}
	}
	return &ClipStore{
		fields:    opts.Fields,
		objects:   slices.Clone(opts.Objects),
		keyframes: opts.Keyframes,
		base:      base,
		length:    opts.Length,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
	}
}

// Orchestrate compiles the keyframe definition and returns a store over the
// result. No store is returned when compilation fails.
func Orchestrate(fields Fields, base *Base, def *Definition, cfg ClipsConfig, opts ...Option) (*ClipStore, error) {
	objects, kf, lastFrame, err := Compile(fields, base, def, cfg, opts...)
	if err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	length := lastFrame
	if cfg.Length != nil {
		length = *cfg.Length
	}
	return NewClipStore(StoreOptions{
		Fields:    fields,
		Objects:   objects,
		Keyframes: kf,
		Base:      base,
		Length:    length,
		Metrics:   o.metrics,
		Logger:    o.logger,
	}), nil
}

// TotalLength returns the explicit length override, or the largest keyframe
// time when none was given.
func (s *ClipStore) TotalLength() float64 {
	return s.length
}

// Keyframes gives read access to the compiled timeline. Its accessors
// return copies.
func (s *ClipStore) Keyframes() *Keyframes {
	return s.keyframes
}

// Objects returns the animated object ids in base order.
func (s *ClipStore) Objects() []string {
	return slices.Clone(s.objects)
}

// Sample describes where a query time falls on a field's timeline.
type Sample struct {
	// Index is the active clip's index, or -1 when the field has no clips.
	Index int
	Clip  Clip
	From  Value
	To    Value
	// Alpha is the linear progress through the clip in [0, 1].
	Alpha float64
	// Progress is Alpha after the clip's stepping and easing.
	Progress float64
}

// Sample locates the active clip of a field at time t without blending.
func (s *ClipStore) Sample(object, field string, t float64) (Sample, error) {
	if err := checkQueryTime(t); err != nil {
		s.countError("sample")
		return Sample{}, err
	}
	oc, err := s.lookup(object, field)
	if err != nil {
		s.countError("sample")
		return Sample{}, err
	}
	return s.sample(oc, field, t), nil
}

// Evaluate returns the blended value of a field at time t. Times before the
// first clip yield its start value and times after the last clip yield its
// end value, both returned as stored without interpolation. A field without
// clips evaluates to its base value. A NaN time is rejected with
// ErrInvalidTime.
func (s *ClipStore) Evaluate(object, field string, t float64) (Value, error) {
	if err := checkQueryTime(t); err != nil {
		s.countError("evaluate")
		return nil, err
	}
	oc, err := s.lookup(object, field)
	if err != nil {
		s.countError("evaluate")
		return nil, err
	}
	if v, ok := clampedValue(oc.Clips[field], t); ok {
		return v, nil
	}
	smp := s.sample(oc, field, t)
	if smp.Index < 0 {
		return smp.From, nil
	}
	f := s.fields[field]
	if f.Interpolate == nil {
		if smp.Progress >= 1 {
			return smp.To, nil
		}
		return smp.From, nil
	}
	v, err := f.Interpolate(smp.From, smp.To, smp.Progress, smp.Clip.Config)
	if err != nil {
		s.countError("evaluate")
		return nil, fmt.Errorf("orchestra: interpolate %s.%s: %w", object, field, err)
	}
	return v, nil
}

func checkQueryTime(t float64) error {
	if math.IsNaN(t) {
		return fmt.Errorf("orchestra: query time %v: %w", t, ErrInvalidTime)
	}
	return nil
}

// clampedValue returns the stored boundary value when t lies before the
// first clip or at or after the end of the last one.
func clampedValue(clips []Clip, t float64) (Value, bool) {
	n := len(clips)
	switch {
	case n == 0:
		return nil, false
	case t < clips[0].Start.Time:
		return clips[0].Start.Value, true
	case t >= clips[n-1].End.Time:
		return clips[n-1].End.Value, true
	}
	return nil, false
}

func (s *ClipStore) lookup(object, field string) (*ObjectClips, error) {
	oc, ok := s.keyframes.objects[object]
	if !ok {
		return nil, &LookupError{Object: object, Err: ErrUnknownObject}
	}
	if _, ok := oc.Clips[field]; !ok {
		return nil, &LookupError{Object: object, Field: field, Err: ErrUnknownField}
	}
	return oc, nil
}

// sample binary searches for the last clip starting at or before t. At a
// boundary shared by two clips the later clip is chosen at alpha 0, which
// yields the same value as the earlier clip at alpha 1.
func (s *ClipStore) sample(oc *ObjectClips, field string, t float64) Sample {
	clips := oc.Clips[field]
	if len(clips) == 0 {
		v := s.base[oc.ID][field]
		return Sample{Index: -1, From: v, To: v, Alpha: 1, Progress: 1}
	}

	i := sort.Search(len(clips), func(i int) bool { return clips[i].Start.Time > t }) - 1
	if i < 0 {
		c := clips[0]
		return Sample{Index: 0, Clip: c, From: c.Start.Value, To: c.End.Value, Alpha: 0, Progress: 0}
	}
	c := clips[i]
	alpha := c.Alpha(t)
	progress := alpha
	if alpha > 0 && alpha < 1 {
		progress = c.Config.Progress(alpha)
	}
	return Sample{Index: i, Clip: c, From: c.Start.Value, To: c.End.Value, Alpha: alpha, Progress: progress}
}

// Binding attaches a live target to an object. Every ApplyAll writes the
// object's fields onto the target until the binding is detached.
type Binding struct {
	ID     uuid.UUID
	Object string
	Target any

	store *ClipStore
}

// Detach removes the binding from its store. Safe to call more than once.
func (b *Binding) Detach() {
	s := b.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindings = slices.DeleteFunc(s.bindings, func(o *Binding) bool { return o == b })
}

// Register binds target to object. The returned Binding's Detach undoes the
// registration.
func (s *ClipStore) Register(object string, target any) (*Binding, error) {
	if _, ok := s.keyframes.objects[object]; !ok {
		s.countError("register")
		return nil, &LookupError{Object: object, Err: ErrUnknownObject}
	}
	if isNil(target) {
		return nil, errors.New("orchestra: register: nil target")
	}
	b := &Binding{ID: uuid.New(), Object: object, Target: target, store: s}
	s.mu.Lock()
	s.bindings = append(s.bindings, b)
	s.mu.Unlock()
	return b, nil
}

// isNil reports whether v is nil or a nil pointer, map, slice, func or
// channel held in an interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// NumBindings returns the number of attached targets.
func (s *ClipStore) NumBindings() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bindings)
}

// disposable is implemented by targets with a lifecycle, such as *Node.
type disposable interface {
	IsDisposed() bool
}

// ApplyAll writes every bound object's fields at time t onto their targets,
// in registration order. Targets that report IsDisposed are detached instead.
// The first Apply error stops the pass and is returned.
func (s *ClipStore) ApplyAll(t float64) error {
	if err := checkQueryTime(t); err != nil {
		s.countError("apply")
		return err
	}
	s.mu.Lock()
	bindings := slices.Clone(s.bindings)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.applies.Inc()
	}
	for _, b := range bindings {
		if d, ok := b.Target.(disposable); ok && d.IsDisposed() {
			s.logger.Debug("detaching disposed target", "object", b.Object, "binding", b.ID)
			b.Detach()
			continue
		}
		oc := s.keyframes.objects[b.Object]
		for _, field := range oc.Fields {
			f := s.fields[field]
			if f.Apply == nil {
				continue
			}
			from, to, progress := s.applyArgs(oc, field, t)
			if err := f.Apply(b.Target, from, to, progress); err != nil {
				s.countError("apply")
				return fmt.Errorf("orchestra: apply %s.%s: %w", b.Object, field, err)
			}
		}
	}
	return nil
}

// applyArgs returns the value pair and progress handed to a field's Apply.
// Outside the clip range both values are the stored boundary value.
func (s *ClipStore) applyArgs(oc *ObjectClips, field string, t float64) (from, to Value, progress float64) {
	if v, ok := clampedValue(oc.Clips[field], t); ok {
		return v, v, 1
	}
	smp := s.sample(oc, field, t)
	return smp.From, smp.To, smp.Progress
}

func (s *ClipStore) countError(op string) {
	if s.metrics != nil {
		s.metrics.evaluateErrors.WithLabelValues(op).Inc()
	}
}
