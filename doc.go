// Package orchestra compiles sparse keyframes into dense clip timelines and
// evaluates them at arbitrary times.
//
// A timeline is described by a [Base] (the initial value of every field of
// every object) and a [Definition] (keyframes: at a time, a field takes a new
// value or holds its previous one). [Compile] turns them into [Keyframes]:
// for every field, an ordered, contiguous list of [Clip]s. A [ClipStore]
// answers queries against the compiled clips.
//
// # Quick start
//
//	base := orchestra.NewBase()
//	base.Object("cube").Set(orchestra.FieldAlpha, 0.0)
//
//	def := orchestra.NewDefinition()
//	def.At("cube", 0).Set(orchestra.FieldAlpha, 1.0)
//	def.At("cube", 2).Set(orchestra.FieldAlpha, 0.0, orchestra.ClipConfig{
//		Easing: orchestra.String("outCubic"),
//	})
//
//	store, err := orchestra.Orchestrate(orchestra.DefaultFields(), base, def, orchestra.ClipsConfig{})
//	v, err := store.Evaluate("cube", orchestra.FieldAlpha, 1)
//
// # Fields
//
// What a field is, how two of its values blend and how a value is written onto
// a target are capabilities supplied by the caller as a [Fields] table. Build
// entries with [NewField]. [DefaultFields] animates [Node] targets.
//
// # Configuration
//
// Every clip's [ResolvedConfig] merges four layers, lowest priority first:
// the global [ClipsConfig], the object's config, the field's config and the
// keyframe's own config. An unset option never erases a value set by a lower
// layer.
//
// # Playback
//
// Bind targets with [ClipStore.Register] and write values with
// [ClipStore.ApplyAll], or let a [Player] advance the playhead each frame.
// [Scene] and [Run] provide a minimal Ebitengine loop for previewing
// timelines; playback events can be bridged into an ECS
// (see the ecs package).
//
// Timelines can also be loaded from YAML or JSON with [LoadDocument] and
// reloaded on change with [Watcher].
package orchestra
