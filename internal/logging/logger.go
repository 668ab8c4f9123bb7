// Package logging decouples the pipeline from the concrete logging library.
// Components receive a Logger through their constructors.
package logging

// Logger is the structured logger used throughout the application.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a logger that attaches err to every entry.
	WithError(err error) Logger

	// WithField returns a logger that attaches a single field to every entry.
	WithField(key string, value interface{}) Logger

	// WithFields returns a logger that attaches fields to every entry.
	WithFields(fields ...Field) Logger
}

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}
