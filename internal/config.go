package internal

import "log/slog"

type Config struct {
	SyncWrites bool
	Logger     *slog.Logger
}

const DEFAULT_SYNC_WRITES = true

func DefaultConfig() *Config {
	return &Config{
		SyncWrites: DEFAULT_SYNC_WRITES,
		Logger:     slog.New(slog.DiscardHandler),
	}
}
