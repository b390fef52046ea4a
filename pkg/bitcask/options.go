package bitcask

import (
	"log/slog"

	"github.com/0xRadioAc7iv/minicask/internal"
)

type Option func(*internal.Config)

// WithSyncWrites controls whether every Set is fsynced before it returns.
// Enabled by default.
func WithSyncWrites(sync bool) Option {
	return func(c *internal.Config) {
		c.SyncWrites = sync
	}
}

// WithLogger sets the logger used for open, compaction and close events.
// A nil logger keeps the default, which discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *internal.Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}
