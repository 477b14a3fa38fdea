package parse

// Logger receives parsing trace output. The zero value of every component in
// this package works without one; pass NopLogger to discard traces.
type Logger interface {
	Tracef(format string, args ...any)
}

// NopLogger discards all trace output.
var NopLogger Logger = nopLogger{}

type nopLogger struct{}

func (nopLogger) Tracef(string, ...any) {}
