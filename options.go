package orchestra

import "log/slog"

// Option configures Compile and Orchestrate.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	debug    bool
	metrics  *Metrics
	template ClipConfig
}

func buildOptions(opts []Option) options {
	o := options{template: DefaultClipConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// WithLogger sets the structured logger. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithDebug enables per-compile stats and clip-count warnings at debug level.
func WithDebug(enabled bool) Option {
	return func(o *options) { o.debug = enabled }
}

// WithMetrics records compile and evaluation metrics into m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTemplate replaces the default clip config template. The template
// supplies the fallback value of every option and declares which Params keys
// are recognized.
func WithTemplate(t ClipConfig) Option {
	return func(o *options) { o.template = t }
}
