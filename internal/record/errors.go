package record

import "errors"

var (
	// ErrDataCorruption is returned when a record's checksum does not match
	// its contents, or when its declared lengths disagree with the bytes given.
	ErrDataCorruption = errors.New("data corruption detected")

	// ErrTruncatedRecord is returned when fewer bytes are available than the
	// record header declares. It points at an incomplete write, not bit damage.
	ErrTruncatedRecord = errors.New("truncated record")

	// ErrInvalidUTF8 is returned when a key or value is not valid UTF-8 text.
	ErrInvalidUTF8 = errors.New("invalid utf-8 text")

	// ErrFieldTooLarge is returned when a key or value does not fit in the
	// 32-bit length field.
	ErrFieldTooLarge = errors.New("field exceeds maximum record field size")
)
