package bitcask

// Stats describes how much of the log is still referenced by the index.
type Stats struct {
	Keys      int   // Number of distinct keys
	FileSize  int64 // Size of the log file in bytes
	LiveBytes int64 // Bytes held by the latest record of every key
}

// GarbageRatio returns the fraction of the log taken by superseded records.
// Compaction brings it back to zero.
func (s Stats) GarbageRatio() float64 {
	if s.FileSize == 0 {
		return 0
	}
	return float64(s.FileSize-s.LiveBytes) / float64(s.FileSize)
}

func (bk *Bitcask) Stats() Stats {
	bk.mu.RLock()
	defer bk.mu.RUnlock()

	if bk.closed {
		return Stats{}
	}

	return Stats{
		Keys:      bk.keyDir.Len(),
		FileSize:  bk.data.Size(),
		LiveBytes: bk.keyDir.LiveBytes(),
	}
}
