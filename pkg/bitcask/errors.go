package bitcask

import (
	"errors"

	"github.com/0xRadioAc7iv/minicask/internal/record"
)

var (
	ErrKeyNotFound = errors.New("key not found")
	ErrClosed      = errors.New("bitcask is closed")

	// Record level failures, surfaced unchanged from reads, scans and writes.
	ErrDataCorruption  = record.ErrDataCorruption
	ErrTruncatedRecord = record.ErrTruncatedRecord
	ErrInvalidUTF8     = record.ErrInvalidUTF8
	ErrFieldTooLarge   = record.ErrFieldTooLarge
)
