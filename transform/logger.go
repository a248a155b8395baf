package transform

// Logger is a simple interface for transform reporting.
type Logger interface {
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// noopLogger is the default logger. It does nothing.
type noopLogger struct{}

func (noopLogger) Infof(format string, args ...any)  {}
func (noopLogger) Errorf(format string, args ...any) {}
