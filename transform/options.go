package transform

import "time"

// DefaultChunkSize is the row-window size used when none is configured.
const DefaultChunkSize = 100

type options struct {
	chunkSize    int
	start        *time.Time
	end          *time.Time
	undo         bool
	scaleWeights bool
	apply        bool
	progress     Progress
	logger       Logger
}

func newOptions(opts []Option) options {
	o := options{
		chunkSize:    DefaultChunkSize,
		scaleWeights: true,
		apply:        true,
		logger:       noopLogger{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures a transform invocation.
type Option func(*options)

// WithChunkSize sets the row-window size of the traversal.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// WithStartTime restricts the selection to rows strictly after t.
func WithStartTime(t time.Time) Option {
	return func(o *options) {
		o.start = &t
	}
}

// WithEndTime restricts the selection to rows strictly before t.
func WithEndTime(t time.Time) Option {
	return func(o *options) {
		o.end = &t
	}
}

// WithUndo reverses the 1-bit scaling factors.
func WithUndo() Option {
	return func(o *options) {
		o.undo = true
	}
}

// WithScaleWeights controls whether Scale1Bit also scales the WEIGHT
// column. Enabled by default.
func WithScaleWeights(scale bool) Option {
	return func(o *options) {
		o.scaleWeights = scale
	}
}

// WithDryRun makes FlagWeights report statistics without writing flags.
func WithDryRun() Option {
	return func(o *options) {
		o.apply = false
	}
}

// WithProgress installs a chunk-boundary progress callback.
func WithProgress(p Progress) Option {
	return func(o *options) {
		o.progress = p
	}
}

// WithLogger installs the logger used for pre-flight summaries and
// completion reports.
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
