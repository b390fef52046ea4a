package bitcask

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/0xRadioAc7iv/minicask/internal/datafile"
	"github.com/0xRadioAc7iv/minicask/internal/keydir"
	"github.com/0xRadioAc7iv/minicask/internal/record"
	"github.com/0xRadioAc7iv/minicask/internal/utils"
)

// Compact rewrites the log so it holds exactly one record per key, in
// ascending key order, and atomically replaces the old file with it.
//
// Every other operation waits until Compact returns. If Compact fails before
// the new file is in place, the store keeps serving the old log unchanged.
func (bk *Bitcask) Compact() error {
	bk.mu.Lock()
	defer bk.mu.Unlock()

	if bk.closed {
		return ErrClosed
	}

	sizeBefore := bk.data.Size()
	tmpPath := bk.path + CompactFileSuffix

	merged, newKeyDir, err := bk.writeCompacted(tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("compact %s: %w", bk.path, err)
	}

	if err := merged.Sync(); err != nil {
		merged.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("compact %s: %w", bk.path, err)
	}
	if err := merged.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("compact %s: %w", bk.path, err)
	}

	if err := bk.swapDataFile(tmpPath); err != nil {
		return fmt.Errorf("compact %s: %w", bk.path, err)
	}
	bk.keyDir = newKeyDir

	bk.logger.Info("bitcask compacted",
		slog.Int("keys", newKeyDir.Len()),
		slog.Int64("size_before", sizeBefore),
		slog.Int64("size_after", bk.data.Size()),
	)

	return nil
}

// writeCompacted copies the latest value of every key into a fresh log at
// path and returns it still open, together with an index of its offsets.
func (bk *Bitcask) writeCompacted(path string) (*datafile.DataFile, keydir.KeyDir, error) {
	merged, err := datafile.Create(path, false)
	if err != nil {
		return nil, nil, err
	}

	newKeyDir := keydir.New()

	for _, key := range bk.keyDir.Keys() {
		value, err := bk.getLocked(key)
		if err != nil {
			merged.Close()
			return nil, nil, err
		}

		encoded, err := record.Encode(key, value)
		if err != nil {
			merged.Close()
			return nil, nil, err
		}

		offset, err := merged.Append(encoded)
		if err != nil {
			merged.Close()
			return nil, nil, err
		}

		newKeyDir.Set(key, keydir.Entry{Offset: offset, RecordSize: int64(len(encoded))})
	}

	return merged, newKeyDir, nil
}

// swapDataFile renames the compacted log at tmpPath over the live log and
// reopens it. mu must be held.
func (bk *Bitcask) swapDataFile(tmpPath string) error {
	// Windows refuses to rename over a file that is still open
	if err := bk.data.Close(); err != nil {
		os.Remove(tmpPath)
		return bk.reopen(err)
	}

	if err := os.Rename(tmpPath, bk.path); err != nil {
		os.Remove(tmpPath)
		return bk.reopen(err)
	}

	if err := utils.SyncDir(filepath.Dir(bk.path)); err != nil {
		bk.logger.Warn("failed to sync directory after compaction", slog.Any("error", err))
	}

	data, err := datafile.Open(bk.path, bk.cfg.SyncWrites)
	if err != nil {
		bk.closed = true
		return fmt.Errorf("reopen after rename: %w", err)
	}
	bk.data = data

	return nil
}

// reopen restores the old log after a failed swap and returns cause. If the
// old log cannot be reopened either, the store is closed.
func (bk *Bitcask) reopen(cause error) error {
	data, err := datafile.Open(bk.path, bk.cfg.SyncWrites)
	if err != nil {
		bk.closed = true
		return errors.Join(cause, fmt.Errorf("reopen %s: %w", bk.path, err))
	}
	bk.data = data
	return cause
}
