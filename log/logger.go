// Package log is the structured logging contract used across idstore.
package log

import "context"

// Fields are structured key/value pairs attached to a log line.
type Fields = map[string]any

// Logger is implemented over zerolog. Stores and services accept it so the
// caller decides the sink.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Fields)
	Info(ctx context.Context, msg string, fields ...Fields)
	Warn(ctx context.Context, msg string, fields ...Fields)
	Error(ctx context.Context, msg string, err error, fields ...Fields)
	Fatal(ctx context.Context, msg string, err error, fields ...Fields) // exits the process
	With(fields Fields) Logger
}
