package keydir

import "slices"

// Entry represents the in-memory index entry for a single key.
//
// Each entry points to the latest known record of a key in the log. Older
// records may still exist earlier in the file but are never consulted.
type Entry struct {
	Offset     int64 // Byte offset in the log where the record starts
	RecordSize int64 // Total size of the record on disk (header + key + value)
}

// KeyDir is the in-memory index mapping keys to their latest on-disk entries.
//
// It is the primary structure used to service read requests without scanning
// the log. KeyDir is not safe for concurrent use.
type KeyDir map[string]Entry

// Iterator yields the records of a log in file order.
type Iterator interface {
	Next() bool
	Key() string
	Offset() int64
	Size() int64
	Err() error
}

func New() KeyDir {
	return make(KeyDir)
}

// Rebuild builds a KeyDir from a full pass over a log. Later records win, so
// the result points every key at its most recent record.
func Rebuild(it Iterator) (KeyDir, error) {
	kd := New()
	for it.Next() {
		kd.Set(it.Key(), Entry{Offset: it.Offset(), RecordSize: it.Size()})
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return kd, nil
}

func (kd KeyDir) Get(key string) (Entry, bool) {
	entry, ok := kd[key]
	return entry, ok
}

// Set points key at entry, replacing whatever was there.
func (kd KeyDir) Set(key string, entry Entry) {
	kd[key] = entry
}

func (kd KeyDir) Len() int {
	return len(kd)
}

// Keys returns every indexed key in ascending order.
func (kd KeyDir) Keys() []string {
	keys := make([]string, 0, len(kd))
	for k := range kd {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// LiveBytes returns the on-disk size of the records the index points at.
func (kd KeyDir) LiveBytes() int64 {
	var total int64
	for _, entry := range kd {
		total += entry.RecordSize
	}
	return total
}
