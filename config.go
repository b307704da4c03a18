package orchestra

import (
	"fmt"
	"maps"
	"math"
	"sort"

	"dario.cat/mergo"
	"github.com/tanema/gween/ease"
)

// ClipConfig is one layer of clip options. A nil option is unset and never
// overrides a value set by a lower-priority layer.
type ClipConfig struct {
	// Easing names the curve applied to clip progress (see EasingNames).
	Easing *string `yaml:"easing,omitempty" json:"easing,omitempty"`

	// Steps quantizes progress into this many discrete steps. 0 is continuous.
	Steps *int `yaml:"steps,omitempty" json:"steps,omitempty"`

	// Params carries extension options for custom fields. Only keys declared
	// by the template's Params survive resolution; a nil value is unset.
	Params map[string]any `yaml:"params,omitempty" json:"params,omitempty"`
}

// clipOptions is the mergo-merged portion of a ClipConfig.
type clipOptions struct {
	Easing *string
	Steps  *int
}

// ClipsConfig is the global configuration passed to Orchestrate.
type ClipsConfig struct {
	// Length overrides the computed timeline length when set.
	Length *float64 `yaml:"length,omitempty" json:"length,omitempty"`

	ClipConfig `yaml:",inline" json:",inline"`
}

// ResolvedConfig is the effective configuration of a single clip.
type ResolvedConfig struct {
	Easing string
	Steps  int
	Params map[string]any

	ease ease.TweenFunc
}

// Progress maps linear clip progress in [0, 1] through the stepping and
// easing options.
func (c ResolvedConfig) Progress(alpha float64) float64 {
	if c.Steps > 0 && alpha < 1 {
		alpha = math.Floor(alpha*float64(c.Steps)) / float64(c.Steps)
	}
	if c.ease == nil {
		return alpha
	}
	return float64(c.ease(float32(alpha), 0, 1, 1))
}

// Param returns the resolved extension option for key.
func (c ResolvedConfig) Param(key string) (any, bool) {
	v, ok := c.Params[key]
	return v, ok
}

// String returns a pointer to s, for building ClipConfig literals.
func String(s string) *string { return &s }

// Int returns a pointer to i.
func Int(i int) *int { return &i }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }

// DefaultClipConfig returns the template of recognized options with their
// defaults: linear easing, continuous progress, no extension params.
func DefaultClipConfig() ClipConfig {
	return ClipConfig{
		Easing: String("linear"),
		Steps:  Int(0),
	}
}

var easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"inQuad":       ease.InQuad,
	"outQuad":      ease.OutQuad,
	"inOutQuad":    ease.InOutQuad,
	"inCubic":      ease.InCubic,
	"outCubic":     ease.OutCubic,
	"inOutCubic":   ease.InOutCubic,
	"inSine":       ease.InSine,
	"outSine":      ease.OutSine,
	"inOutSine":    ease.InOutSine,
	"inExpo":       ease.InExpo,
	"outExpo":      ease.OutExpo,
	"inOutExpo":    ease.InOutExpo,
	"inBack":       ease.InBack,
	"outBack":      ease.OutBack,
	"inOutBack":    ease.InOutBack,
	"inBounce":     ease.InBounce,
	"outBounce":    ease.OutBounce,
	"inElastic":    ease.InElastic,
	"outElastic":   ease.OutElastic,
	"inOutElastic": ease.InOutElastic,
}

// EasingNames lists the accepted Easing values in sorted order.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveConfig merges layers, lowest priority first, into one effective
// configuration. Options that are unset in every layer fall back to the
// template; Params keys not present in the template are dropped.
func ResolveConfig(template ClipConfig, layers ...ClipConfig) (ResolvedConfig, error) {
	merged := clipOptions{Easing: template.Easing, Steps: template.Steps}
	for _, layer := range layers {
		opts := clipOptions{Easing: layer.Easing, Steps: layer.Steps}
		if err := mergo.Merge(&merged, opts, mergo.WithOverride, mergo.WithoutDereference); err != nil {
			return ResolvedConfig{}, fmt.Errorf("merge clip config: %w", err)
		}
	}

	var rc ResolvedConfig
	if merged.Easing != nil {
		rc.Easing = *merged.Easing
	}
	if merged.Steps != nil {
		rc.Steps = *merged.Steps
	}
	if rc.Easing != "" {
		fn, ok := easings[rc.Easing]
		if !ok {
			return ResolvedConfig{}, fmt.Errorf("%w: unknown easing %q", ErrInvalidConfig, rc.Easing)
		}
		rc.ease = fn
	}
	if rc.Steps < 0 {
		return ResolvedConfig{}, fmt.Errorf("%w: steps must be >= 0, got %d", ErrInvalidConfig, rc.Steps)
	}

	if len(template.Params) > 0 {
		rc.Params = maps.Clone(template.Params)
		for _, layer := range layers {
			for key, v := range layer.Params {
				if _, known := template.Params[key]; !known || v == nil {
					continue
				}
				rc.Params[key] = v
			}
		}
		maps.DeleteFunc(rc.Params, func(_ string, v any) bool { return v == nil })
	}
	return rc, nil
}
