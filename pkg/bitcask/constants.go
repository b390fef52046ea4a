package bitcask

const (
	// Suffix appended to the log path for the file a compaction writes into
	// before it replaces the log.
	CompactFileSuffix = ".tmp"
)
