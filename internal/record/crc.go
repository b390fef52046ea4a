package record

import "hash/crc32"

// CalculateCRC computes the CRC32 (IEEE) checksum of a record body: the
// length fields followed by the key and value bytes. The checksum field
// itself is never part of the input.
func CalculateCRC(lengths, key, value []byte) uint32 {
	h := crc32.NewIEEE()
	_, _ = h.Write(lengths)
	_, _ = h.Write(key)
	_, _ = h.Write(value)
	return h.Sum32()
}

// ValidateCRC returns true if the provided checksum matches the computed CRC32 of the record body
func ValidateCRC(lengths, key, value []byte, checksum uint32) bool {
	return CalculateCRC(lengths, key, value) == checksum
}
