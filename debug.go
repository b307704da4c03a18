package orchestra

import (
	"log/slog"
	"time"
)

// debugStats holds per-compile counts and timing.
// Only logged when debug mode is enabled.
type debugStats struct {
	objects     int
	fields      int
	clips       int
	lastFrame   float64
	compileTime time.Duration
}

// debugLogCompile logs compile stats at debug level.
func debugLogCompile(logger *slog.Logger, stats debugStats) {
	logger.Debug("keyframes compiled",
		"objects", stats.objects,
		"fields", stats.fields,
		"clips", stats.clips,
		"last_frame", stats.lastFrame,
		"compile_time", stats.compileTime,
	)
}

// debugMaxClipCount is the per-field clip count above which a warning is logged.
const debugMaxClipCount = 10000

func debugCheckClipCount(logger *slog.Logger, object, field string, n int) {
	if n > debugMaxClipCount {
		logger.Warn("field has many clips",
			"object", object, "field", field, "clips", n, "threshold", debugMaxClipCount)
	}
}
