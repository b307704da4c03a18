package orchestra

import (
	"math"
	"sort"
	"time"
)

// Compile turns a base state and a sparse keyframe definition into per-field
// clip lists. It returns the object ids in base order, the compiled
// keyframes, and the largest keyframe time seen across all objects.
//
// For every field the first clip starts at (0, base value). Each value entry
// emits a clip from the field's cursor to (time, value) and moves the cursor
// there; an inherit entry only moves the cursor's time forward, holding the
// previous value. Frames are processed in ascending time order, frames with
// equal times in the order they were added.
func Compile(fields Fields, base *Base, def *Definition, cfg ClipsConfig, opts ...Option) ([]string, *Keyframes, float64, error) {
	o := buildOptions(opts)
	start := time.Now()

	if base == nil {
		base = NewBase()
	}
	if def == nil {
		def = NewDefinition()
	}
	for _, id := range def.Objects() {
		if _, ok := base.Lookup(id); !ok {
			return nil, nil, 0, o.compileFailed(&CompileError{Object: id, Err: ErrUnknownObject})
		}
	}

	kf := &Keyframes{objects: make(map[string]*ObjectClips, len(base.Objects()))}
	var lastFrame float64
	var stats debugStats

	for _, ob := range base.Objects() {
		oc, last, err := compileObject(fields, ob, def.Frames(ob.ID), cfg.ClipConfig, o.template)
		if err != nil {
			return nil, nil, 0, o.compileFailed(err)
		}
		lastFrame = math.Max(lastFrame, last)
		kf.order = append(kf.order, ob.ID)
		kf.objects[ob.ID] = oc

		stats.objects++
		stats.fields += len(oc.Fields)
		for _, field := range oc.Fields {
			n := len(oc.Clips[field])
			stats.clips += n
			if o.debug {
				debugCheckClipCount(o.logger, ob.ID, field, n)
			}
		}
	}

	stats.lastFrame = lastFrame
	stats.compileTime = time.Since(start)
	if o.debug {
		debugLogCompile(o.logger, stats)
	}
	if o.metrics != nil {
		o.metrics.observeCompile(stats)
	}
	return kf.Objects(), kf, lastFrame, nil
}

func (o options) compileFailed(err error) error {
	if o.metrics != nil {
		o.metrics.compileErrors.Inc()
	}
	o.logger.Warn("keyframe compile failed", "error", err)
	return err
}

// compileObject builds the clip lists for a single object.
func compileObject(fields Fields, ob *ObjectBase, frames []*Frame, global, template ClipConfig) (*ObjectClips, float64, error) {
	objCfg, err := ResolveConfig(template, global, ob.Config)
	if err != nil {
		return nil, 0, &CompileError{Object: ob.ID, Err: err}
	}

	fieldValues := ob.Fields()
	oc := &ObjectClips{
		ID:     ob.ID,
		Fields: make([]string, 0, len(fieldValues)),
		Clips:  make(map[string][]Clip, len(fieldValues)),
		Config: objCfg,
	}
	cursors := make(map[string]Point, len(fieldValues))
	for _, fv := range fieldValues {
		f, ok := fields[fv.Field]
		if !ok {
			return nil, 0, &CompileError{Object: ob.ID, Field: fv.Field, Err: ErrUnknownField}
		}
		if f.Check != nil {
			if err := f.Check(fv.Value); err != nil {
				return nil, 0, &CompileError{Object: ob.ID, Field: fv.Field, Err: err}
			}
		}
		oc.Fields = append(oc.Fields, fv.Field)
		oc.Clips[fv.Field] = []Clip{}
		cursors[fv.Field] = Point{Time: 0, Value: fv.Value}
	}

	sorted := make([]*Frame, len(frames))
	copy(sorted, frames)
	for _, fr := range sorted {
		if math.IsNaN(fr.Time) || math.IsInf(fr.Time, 0) || fr.Time < 0 {
			return nil, 0, &CompileError{Object: ob.ID, Time: fr.Time, TimeKey: fr.Key, Err: ErrInvalidTime}
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	var lastFrame float64
	for _, fr := range sorted {
		lastFrame = math.Max(lastFrame, fr.Time)
		for _, e := range fr.Entries {
			cursor, ok := cursors[e.Field]
			if !ok {
				return nil, 0, &CompileError{Object: ob.ID, Field: e.Field, Time: fr.Time, Err: ErrUnknownField}
			}
			if e.Inherit == e.HasValue {
				return nil, 0, &CompileError{Object: ob.ID, Field: e.Field, Time: fr.Time, Err: ErrMalformedEntry}
			}
			if e.Inherit {
				cursors[e.Field] = Point{Time: fr.Time, Value: cursor.Value}
				continue
			}

			f := fields[e.Field]
			if f.Check != nil {
				if err := f.Check(e.Value); err != nil {
					return nil, 0, &CompileError{Object: ob.ID, Field: e.Field, Time: fr.Time, Err: err}
				}
			}
			clipCfg, err := ResolveConfig(template, global, ob.Config, f.Config, e.Config)
			if err != nil {
				return nil, 0, &CompileError{Object: ob.ID, Field: e.Field, Time: fr.Time, Err: err}
			}
			end := Point{Time: fr.Time, Value: e.Value}
			oc.Clips[e.Field] = append(oc.Clips[e.Field], Clip{Start: cursor, End: end, Config: clipCfg})
			cursors[e.Field] = end
		}
	}
	return oc, lastFrame, nil
}
