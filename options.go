package iomerge

import "log/slog"

type options struct {
	segLimit int
	logger   *slog.Logger
	tracer   Tracer
}

// Option configures an Optimizer at construction.
type Option func(*options)

// WithSegmentLimit overrides DefaultSegmentLimit, capping how many vector
// elements a merged group may accumulate. Keep it at or below what the
// submission backend accepts per operation (IOV_MAX on POSIX AIO paths).
func WithSegmentLimit(n int) Option {
	return func(o *options) {
		o.segLimit = n
	}
}

// WithLogger attaches a structured logger. Merge and split emit
// debug-level summaries; nothing is logged above debug. If nil is passed,
// logging stays disabled.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTracer attaches a line tracer that receives a dump of every merged
// queue and every split event queue. Tracing is diagnostics only; it has
// no effect on control or data flow.
func WithTracer(t Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}
