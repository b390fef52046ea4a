package bitcask

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/0xRadioAc7iv/minicask/internal"
	"github.com/0xRadioAc7iv/minicask/internal/datafile"
	"github.com/0xRadioAc7iv/minicask/internal/keydir"
	"github.com/0xRadioAc7iv/minicask/internal/record"
	"github.com/0xRadioAc7iv/minicask/internal/utils"
)

type Bitcask struct {
	path   string
	cfg    *internal.Config
	logger *slog.Logger

	mu     sync.RWMutex // for data + keyDir + closed
	data   *datafile.DataFile
	keyDir keydir.KeyDir
	closed bool
}

// Open opens the log at path and rebuilds the index by scanning it from the
// first record to the last. A missing file yields an empty store.
//
// Open fails if any record in an existing log is corrupt or truncated.
func Open(path string, opts ...Option) (*Bitcask, error) {
	cfg := internal.DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	existed := utils.PathExists(path)

	data, err := datafile.Open(path, cfg.SyncWrites)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	kd, err := keydir.Rebuild(data.Scan())
	if err != nil {
		data.Close()
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	bk := &Bitcask{
		path:   path,
		cfg:    cfg,
		logger: cfg.Logger.With(slog.String("path", path)),
		data:   data,
		keyDir: kd,
	}

	bk.logger.Info("bitcask opened",
		slog.Bool("existed", existed),
		slog.Int("keys", kd.Len()),
		slog.Int64("size", data.Size()),
	)

	return bk, nil
}

// Set stores value under key. The record is on disk before Set returns.
func (bk *Bitcask) Set(key, value string) error {
	encoded, err := record.Encode(key, value)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}

	bk.mu.Lock()
	defer bk.mu.Unlock()

	if bk.closed {
		return ErrClosed
	}

	offset, err := bk.data.Append(encoded)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}

	bk.keyDir.Set(key, keydir.Entry{Offset: offset, RecordSize: int64(len(encoded))})
	return nil
}

// Get returns the latest value stored under key, or ErrKeyNotFound.
func (bk *Bitcask) Get(key string) (string, error) {
	bk.mu.RLock()
	defer bk.mu.RUnlock()

	if bk.closed {
		return "", ErrClosed
	}

	return bk.getLocked(key)
}

// getLocked must be called with mu held.
func (bk *Bitcask) getLocked(key string) (string, error) {
	entry, ok := bk.keyDir.Get(key)
	if !ok {
		return "", ErrKeyNotFound
	}

	buf, err := bk.data.ReadAt(entry.Offset)
	if err != nil {
		return "", fmt.Errorf("get %q: %w", key, err)
	}

	_, value, err := record.Decode(buf)
	if err != nil {
		return "", fmt.Errorf("get %q at offset %d: %w", key, entry.Offset, err)
	}

	return value, nil
}

// Has reports whether key has ever been set. A closed store has no keys.
func (bk *Bitcask) Has(key string) bool {
	bk.mu.RLock()
	defer bk.mu.RUnlock()

	if bk.closed {
		return false
	}

	_, ok := bk.keyDir.Get(key)
	return ok
}

// Len returns the number of distinct keys.
func (bk *Bitcask) Len() int {
	bk.mu.RLock()
	defer bk.mu.RUnlock()

	if bk.closed {
		return 0
	}
	return bk.keyDir.Len()
}

// Keys returns every key in ascending order.
func (bk *Bitcask) Keys() []string {
	bk.mu.RLock()
	defer bk.mu.RUnlock()

	if bk.closed {
		return nil
	}
	return bk.keyDir.Keys()
}

func (bk *Bitcask) Path() string {
	return bk.path
}

// Close releases the log file. Further calls return ErrClosed.
func (bk *Bitcask) Close() error {
	bk.mu.Lock()
	defer bk.mu.Unlock()

	if bk.closed {
		return ErrClosed
	}
	bk.closed = true

	if err := bk.data.Close(); err != nil {
		return fmt.Errorf("close %s: %w", bk.path, err)
	}

	bk.logger.Info("bitcask closed", slog.Int("keys", bk.keyDir.Len()))
	return nil
}
