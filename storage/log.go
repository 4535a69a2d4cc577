package storage

import (
	"log/slog"
	"sync/atomic"
)

var sink atomic.Pointer[slog.Logger]

// SetLogger replaces the diagnostic sink that receives a record for every
// failed precondition. A nil logger restores slog.Default().
func SetLogger(l *slog.Logger) {
	sink.Store(l)
}

func logger() *slog.Logger {
	if l := sink.Load(); l != nil {
		return l
	}
	return slog.Default()
}
