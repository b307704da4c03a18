package orchestra

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
)

func cubeStore(t *testing.T, cfg ClipsConfig) *ClipStore {
	t.Helper()
	base, def := cubeTimeline()
	store, err := Orchestrate(DefaultFields(), base, def, cfg)
	if err != nil {
		t.Fatalf("Orchestrate: %v", err)
	}
	return store
}

func evalFloat(t *testing.T, s *ClipStore, object, field string, at float64) float64 {
	t.Helper()
	v, err := s.Evaluate(object, field, at)
	if err != nil {
		t.Fatalf("Evaluate(%s, %s, %v): %v", object, field, at, err)
	}
	f, ok := v.(float64)
	if !ok {
		t.Fatalf("Evaluate returned %T, want float64", v)
	}
	return f
}

// --- Evaluate ---

func TestEvaluateCubeMidpoint(t *testing.T) {
	s := cubeStore(t, ClipsConfig{})
	assertNear(t, "alpha@1", evalFloat(t, s, "cube", FieldAlpha, 1), 0.5)
}

func TestEvaluateCubeTimeline(t *testing.T) {
	s := cubeStore(t, ClipsConfig{})
	tests := []struct {
		at   float64
		want float64
	}{
		{-1, 0}, // before the first clip: its start value
		{0, 1},  // keyed value at 0 wins over base value
		{0.5, 0.75},
		{1.5, 0.25},
		{2, 0},
		{10, 0}, // after the last clip: its end value
	}
	for _, tt := range tests {
		assertNear(t, fmt.Sprintf("alpha@%v", tt.at), evalFloat(t, s, "cube", FieldAlpha, tt.at), tt.want)
	}
}

func TestEvaluateBoundaryContinuity(t *testing.T) {
	base := NewBase()
	base.Object("a").Set(FieldAlpha, 0.0)
	def := NewDefinition()
	def.At("a", 1).Set(FieldAlpha, 1.0)
	def.At("a", 2).Set(FieldAlpha, 0.4)
	s, err := Orchestrate(DefaultFields(), base, def, ClipsConfig{})
	if err != nil {
		t.Fatal(err)
	}

	// t=1 is the end of clip 0 and the start of clip 1.
	smp, err := s.Sample("a", FieldAlpha, 1)
	if err != nil {
		t.Fatal(err)
	}
	if smp.Index != 1 || smp.Alpha != 0 {
		t.Errorf("Sample@1 = index %d alpha %v, want index 1 alpha 0", smp.Index, smp.Alpha)
	}
	assertNear(t, "alpha@1", evalFloat(t, s, "a", FieldAlpha, 1), 1)
	assertNear(t, "alpha@1-eps", evalFloat(t, s, "a", FieldAlpha, 1-1e-12), 1)
}

func TestEvaluateManyClips(t *testing.T) {
	const n = 1000
	base := NewBase()
	base.Object("a").Set(FieldRotation, 0.0)
	def := NewDefinition()
	for i := 1; i <= n; i++ {
		def.At("a", float64(i)).Set(FieldRotation, float64(i*10))
	}
	s, err := Orchestrate(DefaultFields(), base, def, ClipsConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if s.TotalLength() != n {
		t.Errorf("TotalLength = %v, want %d", s.TotalLength(), n)
	}
	for _, at := range []float64{0.5, 1, 250.25, 999.5, 1000} {
		// Every clip is a linear ramp of 10 per unit.
		assertNear(t, fmt.Sprintf("rotation@%v", at), evalFloat(t, s, "a", FieldRotation, at), at*10)
	}
	smp, _ := s.Sample("a", FieldRotation, 500.5)
	if smp.Index != 500 {
		t.Errorf("Sample(500.5).Index = %d, want 500", smp.Index)
	}
}

func TestEvaluateFieldWithoutClipsReturnsBase(t *testing.T) {
	base := NewBase()
	base.Object("a").Set(FieldAlpha, 0.0).Set(FieldRotation, 1.25)
	def := NewDefinition()
	def.At("a", 1).Set(FieldAlpha, 1.0)
	s, err := Orchestrate(DefaultFields(), base, def, ClipsConfig{})
	if err != nil {
		t.Fatal(err)
	}
	for _, at := range []float64{0, 0.5, 100} {
		assertNear(t, "rotation", evalFloat(t, s, "a", FieldRotation, at), 1.25)
	}
	smp, _ := s.Sample("a", FieldRotation, 0)
	if smp.Index != -1 {
		t.Errorf("Sample.Index = %d, want -1", smp.Index)
	}
}

func TestEvaluateAppliesEasing(t *testing.T) {
	base := NewBase()
	base.Object("a").Set(FieldAlpha, 0.0)
	def := NewDefinition()
	def.At("a", 1).Set(FieldAlpha, 1.0, ClipConfig{Steps: Int(2)})
	s, err := Orchestrate(DefaultFields(), base, def, ClipsConfig{})
	if err != nil {
		t.Fatal(err)
	}
	assertNear(t, "alpha@0.4", evalFloat(t, s, "a", FieldAlpha, 0.4), 0)
	assertNear(t, "alpha@0.6", evalFloat(t, s, "a", FieldAlpha, 0.6), 0.5)
	assertNear(t, "alpha@1", evalFloat(t, s, "a", FieldAlpha, 1), 1)

	smp, _ := s.Sample("a", FieldAlpha, 0.6)
	assertNear(t, "Sample.Alpha", smp.Alpha, 0.6)
	assertNear(t, "Sample.Progress", smp.Progress, 0.5)
}

func TestEvaluateDiscreteField(t *testing.T) {
	base := NewBase()
	base.Object("a").Set(FieldVisible, false)
	def := NewDefinition()
	def.At("a", 2).Set(FieldVisible, true)
	s, err := Orchestrate(DefaultFields(), base, def, ClipsConfig{})
	if err != nil {
		t.Fatal(err)
	}
	for at, want := range map[float64]bool{0: false, 1.99: false, 2: true, 3: true} {
		v, err := s.Evaluate("a", FieldVisible, at)
		if err != nil {
			t.Fatal(err)
		}
		if v != want {
			t.Errorf("visible@%v = %v, want %v", at, v, want)
		}
	}
}

func TestEvaluateHoldWithoutInterpolate(t *testing.T) {
	fields := Fields{"label": {}}
	base := NewBase()
	base.Object("a").Set("label", "idle")
	def := NewDefinition()
	def.At("a", 1).Set("label", "run")
	s, err := Orchestrate(fields, base, def, ClipsConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Evaluate("a", "label", 0.5); v != "idle" {
		t.Errorf("label@0.5 = %v, want idle", v)
	}
	if v, _ := s.Evaluate("a", "label", 1); v != "run" {
		t.Errorf("label@1 = %v, want run", v)
	}
}

func TestEvaluateInterpolateError(t *testing.T) {
	boom := errors.New("boom")
	fields := Fields{"x": {Interpolate: func(a, b Value, alpha float64, _ ResolvedConfig) (Value, error) {
		return nil, boom
	}}}
	base := NewBase()
	base.Object("a").Set("x", 0)
	def := NewDefinition()
	def.At("a", 1).Set("x", 1)
	s, err := Orchestrate(fields, base, def, ClipsConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Evaluate("a", "x", 0.5); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
}

func TestEvaluateClampsToStoredValues(t *testing.T) {
	// A plain lerp is not exact at alpha 1 for these magnitudes.
	fields := Fields{"x": {Interpolate: func(a, b Value, alpha float64, _ ResolvedConfig) (Value, error) {
		av, bv := a.(float64), b.(float64)
		return av + (bv-av)*alpha, nil
	}}}
	base := NewBase()
	base.Object("a").Set("x", 1e17)
	def := NewDefinition()
	def.At("a", 1).Set("x", 1e17)
	def.At("a", 2).Set("x", 1.0)
	s, err := Orchestrate(fields, base, def, ClipsConfig{})
	if err != nil {
		t.Fatal(err)
	}
	for _, tt := range []struct {
		at   float64
		want float64
	}{
		{-1, 1e17},
		{2, 1},
		{5, 1},
		{math.Inf(1), 1},
	} {
		v, err := s.Evaluate("a", "x", tt.at)
		if err != nil {
			t.Fatal(err)
		}
		if v != tt.want {
			t.Errorf("x@%v = %v, want %v", tt.at, v, tt.want)
		}
	}
}

func TestEvaluateRejectsNaN(t *testing.T) {
	s := cubeStore(t, ClipsConfig{})
	if _, err := s.Evaluate("cube", FieldAlpha, math.NaN()); !errors.Is(err, ErrInvalidTime) {
		t.Errorf("Evaluate err = %v, want ErrInvalidTime", err)
	}
	if _, err := s.Sample("cube", FieldAlpha, math.NaN()); !errors.Is(err, ErrInvalidTime) {
		t.Errorf("Sample err = %v, want ErrInvalidTime", err)
	}
	if err := s.ApplyAll(math.NaN()); !errors.Is(err, ErrInvalidTime) {
		t.Errorf("ApplyAll err = %v, want ErrInvalidTime", err)
	}
}

func TestKeyframesObjectIsCopy(t *testing.T) {
	s := cubeStore(t, ClipsConfig{})
	want := evalFloat(t, s, "cube", FieldAlpha, 5)

	oc, ok := s.Keyframes().Object("cube")
	if !ok {
		t.Fatal("cube not compiled")
	}
	oc.Clips[FieldAlpha][len(oc.Clips[FieldAlpha])-1].End.Value = 42.0
	oc.Clips[FieldAlpha] = nil
	oc.Fields[0] = "glow"

	assertNear(t, "alpha@5", evalFloat(t, s, "cube", FieldAlpha, 5), want)
	again, _ := s.Keyframes().Object("cube")
	if again.Fields[0] == "glow" || len(again.Clips[FieldAlpha]) == 0 {
		t.Error("compiled timeline changed through Object")
	}
}

func TestStoreSnapshotsBase(t *testing.T) {
	base := NewBase()
	base.Object("a").Set(FieldAlpha, 0.0).Set(FieldRotation, 1.25)
	def := NewDefinition()
	def.At("a", 1).Set(FieldAlpha, 1.0)
	s, err := Orchestrate(DefaultFields(), base, def, ClipsConfig{})
	if err != nil {
		t.Fatal(err)
	}
	base.Object("a").Set(FieldRotation, 9.0)
	assertNear(t, "rotation", evalFloat(t, s, "a", FieldRotation, 0), 1.25)
}

func TestEvaluateUnknown(t *testing.T) {
	s := cubeStore(t, ClipsConfig{})

	_, err := s.Evaluate("ghost", FieldAlpha, 0)
	if !errors.Is(err, ErrUnknownObject) {
		t.Errorf("unknown object: err = %v", err)
	}
	_, err = s.Evaluate("cube", FieldScale, 0)
	if !errors.Is(err, ErrUnknownField) {
		t.Errorf("unknown field: err = %v", err)
	}
	var le *LookupError
	if !errors.As(err, &le) || le.Object != "cube" || le.Field != FieldScale {
		t.Errorf("LookupError = %+v", le)
	}
	if _, err := s.Sample("ghost", FieldAlpha, 0); !errors.Is(err, ErrUnknownObject) {
		t.Errorf("Sample unknown object: err = %v", err)
	}
}

func TestEvaluateConcurrent(t *testing.T) {
	s := cubeStore(t, ClipsConfig{})
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i <= 200; i++ {
				at := float64(i) / 100
				v, err := s.Evaluate("cube", FieldAlpha, at)
				if err != nil {
					errs <- err
					return
				}
				if want := 1 - at/2; math.Abs(v.(float64)-want) > 1e-9 {
					errs <- fmt.Errorf("alpha@%v = %v, want %v", at, v, want)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

// --- Length ---

func TestTotalLength(t *testing.T) {
	if got := cubeStore(t, ClipsConfig{}).TotalLength(); got != 2 {
		t.Errorf("TotalLength = %v, want lastFrame 2", got)
	}
	if got := cubeStore(t, ClipsConfig{Length: Float(5)}).TotalLength(); got != 5 {
		t.Errorf("TotalLength = %v, want override 5", got)
	}
}

func TestOrchestrateFailureReturnsNoStore(t *testing.T) {
	base := NewBase()
	base.Object("a").Set(FieldAlpha, 0.0)
	def := NewDefinition()
	def.At("b", 1).Set(FieldAlpha, 1.0)
	s, err := Orchestrate(DefaultFields(), base, def, ClipsConfig{})
	if s != nil || !errors.Is(err, ErrUnknownObject) {
		t.Errorf("Orchestrate = %v, %v", s, err)
	}
}

func TestStoreObjects(t *testing.T) {
	s := cubeStore(t, ClipsConfig{})
	objs := s.Objects()
	objs[0] = "mutated"
	if s.Objects()[0] != "cube" {
		t.Error("Objects should return a copy")
	}
	if s.Keyframes().NumClips() != 2 {
		t.Errorf("NumClips = %d, want 2", s.Keyframes().NumClips())
	}
}

// --- Register / ApplyAll ---

func TestRegisterApplyAll(t *testing.T) {
	base := NewBase()
	base.Object("box").
		Set(FieldPosition, Vec2{}).
		Set(FieldAlpha, 1.0).
		Set(FieldColor, ColorWhite)
	def := NewDefinition()
	def.At("box", 2).
		Set(FieldPosition, Vec2{X: 100, Y: 50}).
		Set(FieldAlpha, 0.0).
		Set(FieldColor, Color{R: 1, G: 0, B: 0, A: 1})
	s, err := Orchestrate(DefaultFields(), base, def, ClipsConfig{})
	if err != nil {
		t.Fatal(err)
	}

	n := NewSprite("box", nil)
	b, err := s.Register("box", n)
	if err != nil {
		t.Fatal(err)
	}
	if b.Object != "box" || b.Target != n {
		t.Errorf("binding = %+v", b)
	}

	n.transformDirty = false
	if err := s.ApplyAll(1); err != nil {
		t.Fatal(err)
	}
	assertNear(t, "X", n.X, 50)
	assertNear(t, "Y", n.Y, 25)
	assertNear(t, "Alpha", n.Alpha, 0.5)
	assertNear(t, "Color.G", n.Color.G, 0.5)
	if !n.transformDirty {
		t.Error("ApplyAll should mark the node dirty")
	}
}

func TestDetach(t *testing.T) {
	s := cubeStore(t, ClipsConfig{})
	n := NewSprite("cube", nil)
	b, err := s.Register("cube", n)
	if err != nil {
		t.Fatal(err)
	}
	if s.NumBindings() != 1 {
		t.Fatalf("NumBindings = %d, want 1", s.NumBindings())
	}

	b.Detach()
	b.Detach() // second detach is a no-op
	if s.NumBindings() != 0 {
		t.Errorf("NumBindings = %d, want 0", s.NumBindings())
	}

	n.Alpha = 0.3
	if err := s.ApplyAll(1); err != nil {
		t.Fatal(err)
	}
	if n.Alpha != 0.3 {
		t.Errorf("detached target was written: Alpha = %v", n.Alpha)
	}
}

func TestRegisterSameObjectTwice(t *testing.T) {
	s := cubeStore(t, ClipsConfig{})
	a, b := NewSprite("a", nil), NewSprite("b", nil)
	ba, _ := s.Register("cube", a)
	bb, _ := s.Register("cube", b)
	if ba.ID == bb.ID {
		t.Error("binding ids should differ")
	}
	if err := s.ApplyAll(1.5); err != nil {
		t.Fatal(err)
	}
	assertNear(t, "a.Alpha", a.Alpha, 0.25)
	assertNear(t, "b.Alpha", b.Alpha, 0.25)
}

func TestRegisterErrors(t *testing.T) {
	s := cubeStore(t, ClipsConfig{})
	if _, err := s.Register("ghost", NewSprite("g", nil)); !errors.Is(err, ErrUnknownObject) {
		t.Errorf("unknown object: err = %v", err)
	}
	if _, err := s.Register("cube", nil); err == nil {
		t.Error("nil target should be rejected")
	}
	if _, err := s.Register("cube", (*Node)(nil)); err == nil {
		t.Error("typed nil target should be rejected")
	}
	if s.NumBindings() != 0 {
		t.Errorf("NumBindings = %d, want 0", s.NumBindings())
	}
}

func TestApplyAllDetachesDisposed(t *testing.T) {
	s := cubeStore(t, ClipsConfig{})
	n := NewSprite("cube", nil)
	if _, err := s.Register("cube", n); err != nil {
		t.Fatal(err)
	}
	n.Dispose()
	if err := s.ApplyAll(1); err != nil {
		t.Fatal(err)
	}
	if s.NumBindings() != 0 {
		t.Errorf("disposed target still bound")
	}
}

func TestApplyAllWrongTarget(t *testing.T) {
	s := cubeStore(t, ClipsConfig{})
	if _, err := s.Register("cube", "not a node"); err != nil {
		t.Fatal(err)
	}
	err := s.ApplyAll(1)
	if !errors.Is(err, ErrValueType) {
		t.Errorf("err = %v, want ErrValueType", err)
	}
}

func TestApplyAllRegisterDuringPass(t *testing.T) {
	s := cubeStore(t, ClipsConfig{})
	late := NewSprite("late", nil)
	late.Alpha = 0.9

	fields := DefaultFields()
	alpha := fields[FieldAlpha]
	registered := false
	s.fields = Fields{FieldAlpha: {
		Interpolate: alpha.Interpolate,
		Apply: func(target any, a, b Value, p float64) error {
			if !registered {
				registered = true
				if _, err := s.Register("cube", late); err != nil {
					return err
				}
			}
			return alpha.Apply(target, a, b, p)
		},
	}}

	if _, err := s.Register("cube", NewSprite("first", nil)); err != nil {
		t.Fatal(err)
	}
	if err := s.ApplyAll(1); err != nil {
		t.Fatal(err)
	}
	if late.Alpha != 0.9 {
		t.Errorf("target registered mid-pass was applied in the same pass")
	}
	if err := s.ApplyAll(1); err != nil {
		t.Fatal(err)
	}
	assertNear(t, "late.Alpha", late.Alpha, 0.5)
}

func TestApplyAllEmpty(t *testing.T) {
	s := NewClipStore(StoreOptions{})
	if err := s.ApplyAll(0); err != nil {
		t.Errorf("ApplyAll on empty store: %v", err)
	}
	if _, err := s.Evaluate("x", "y", 0); !errors.Is(err, ErrUnknownObject) {
		t.Errorf("err = %v", err)
	}
}
