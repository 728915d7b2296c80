package logger

import "log/slog"

// NewNope returns a logger that discards everything. Library types use it
// when no logger is supplied.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
