package record

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// CRC (4) + KeySize (4) + ValueSize (4)
const HeaderSizeBytes = 12

// MaxFieldSize is the largest key or value, in bytes, a record can hold.
const MaxFieldSize = math.MaxUint32

// Header is the fixed-size prefix of every record on disk.
//
// All fields are stored big-endian. CRC covers everything that follows it:
//
//	<crc:uint32><key_size:uint32><value_size:uint32><key><value>
type Header struct {
	CRC       uint32 // Checksum of lengths, key and value
	KeySize   uint32 // Length of Key in Bytes
	ValueSize uint32 // Length of Value in Bytes
}

// Size returns the total on-disk size of the record described by h.
func (h Header) Size() int64 {
	return HeaderSizeBytes + int64(h.KeySize) + int64(h.ValueSize)
}

// DecodeHeader parses the first HeaderSizeBytes of data.
func DecodeHeader(data []byte) (Header, error) {
	if len(data) < HeaderSizeBytes {
		return Header{}, fmt.Errorf("header needs %d bytes, got %d: %w", HeaderSizeBytes, len(data), ErrTruncatedRecord)
	}

	return Header{
		CRC:       binary.BigEndian.Uint32(data[0:4]),
		KeySize:   binary.BigEndian.Uint32(data[4:8]),
		ValueSize: binary.BigEndian.Uint32(data[8:12]),
	}, nil
}

// Encode serializes a key/value pair into a checksummed record.
func Encode(key, value string) ([]byte, error) {
	if uint64(len(key)) > MaxFieldSize {
		return nil, fmt.Errorf("key of %d bytes: %w", len(key), ErrFieldTooLarge)
	}
	if uint64(len(value)) > MaxFieldSize {
		return nil, fmt.Errorf("value of %d bytes: %w", len(value), ErrFieldTooLarge)
	}
	if !utf8.ValidString(key) {
		return nil, fmt.Errorf("key: %w", ErrInvalidUTF8)
	}
	if !utf8.ValidString(value) {
		return nil, fmt.Errorf("value: %w", ErrInvalidUTF8)
	}

	buf := make([]byte, HeaderSizeBytes+len(key)+len(value))
	binary.BigEndian.PutUint32(buf[4:8], uint32(len(key)))
	binary.BigEndian.PutUint32(buf[8:12], uint32(len(value)))
	copy(buf[HeaderSizeBytes:], key)
	copy(buf[HeaderSizeBytes+len(key):], value)

	crc := CalculateCRC(buf[4:HeaderSizeBytes], buf[HeaderSizeBytes:HeaderSizeBytes+len(key)], buf[HeaderSizeBytes+len(key):])
	binary.BigEndian.PutUint32(buf[0:4], crc)

	return buf, nil
}

// Decode parses a complete record and verifies its checksum.
//
// data must hold exactly one record. The checksum is checked over everything
// after the checksum field before the declared lengths are trusted, so damage
// anywhere in the record, lengths included, yields ErrDataCorruption. Only a
// buffer shorter than the header yields ErrTruncatedRecord; short reads from a
// file are reported by the caller that knows how many bytes it has.
func Decode(data []byte) (key, value string, err error) {
	header, err := DecodeHeader(data)
	if err != nil {
		return "", "", err
	}

	if !ValidateCRC(data[4:HeaderSizeBytes], data[HeaderSizeBytes:], nil, header.CRC) {
		return "", "", ErrDataCorruption
	}

	size := header.Size()
	if int64(len(data)) != size {
		return "", "", fmt.Errorf("record declares %d bytes, got %d: %w", size, len(data), ErrDataCorruption)
	}

	keyEnd := HeaderSizeBytes + int64(header.KeySize)
	keyB := data[HeaderSizeBytes:keyEnd]
	valueB := data[keyEnd:size]

	if !utf8.Valid(keyB) {
		return "", "", fmt.Errorf("key: %w", ErrInvalidUTF8)
	}
	if !utf8.Valid(valueB) {
		return "", "", fmt.Errorf("value: %w", ErrInvalidUTF8)
	}

	return string(keyB), string(valueB), nil
}
