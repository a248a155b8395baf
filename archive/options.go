package archive

import "golang.org/x/time/rate"

// DefaultConcurrency bounds the number of files in flight at once.
const DefaultConcurrency = 4

// Logger is the minimal logging surface the archiver needs. The zero
// value of options discards all output.
type Logger interface {
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}

type options struct {
	compression Compression
	concurrency int
	limit       rate.Limit
	burst       int
	logger      Logger
}

// Option configures Pack and Fetch.
type Option func(*options)

func newOptions(opts []Option) *options {
	o := &options{
		compression: Zstd,
		concurrency: DefaultConcurrency,
		limit:       rate.Inf,
		logger:      noopLogger{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithCompression selects the per-file codec.
func WithCompression(c Compression) Option {
	return func(o *options) { o.compression = c }
}

// WithConcurrency bounds the number of files transferred in parallel.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithRateLimit caps the aggregate uncompressed throughput in bytes per
// second, so archiving does not starve an observation in progress.
func WithRateLimit(bytesPerSec float64) Option {
	return func(o *options) {
		o.limit = rate.Limit(bytesPerSec)
		o.burst = int(bytesPerSec)
		if o.burst < 64*1024 {
			o.burst = 64 * 1024
		}
	}
}

// WithLogger attaches a logger for progress reporting.
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func (o *options) limiter() *rate.Limiter {
	if o.limit == rate.Inf {
		return nil
	}
	return rate.NewLimiter(o.limit, o.burst)
}
