package datafile

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/0xRadioAc7iv/minicask/internal/record"
)

// Scanner walks the records of a DataFile in file order.
//
// Any corrupt or truncated record stops the scan; the failure is reported by
// Err. Bad records are never skipped.
type Scanner struct {
	r      *bufio.Reader
	offset int64
	limit  int64

	key  string
	pos  int64
	size int64
	err  error
	done bool
}

func newScanner(r io.Reader, limit int64) *Scanner {
	return &Scanner{r: bufio.NewReader(r), limit: limit}
}

// Next advances to the next record. It returns false at end of file or on
// the first error.
func (s *Scanner) Next() bool {
	if s.done {
		return false
	}

	recordStartOffset := s.offset

	headerBytes := make([]byte, record.HeaderSizeBytes)
	if _, err := io.ReadFull(s.r, headerBytes); err != nil {
		if err == io.EOF {
			return s.stop(nil)
		}
		return s.stop(scanError(recordStartOffset, err))
	}

	header, err := record.DecodeHeader(headerBytes)
	if err != nil {
		return s.stop(scanError(recordStartOffset, err))
	}

	// Lengths past the end of file are never allocated
	if recordStartOffset+header.Size() > s.limit {
		return s.stop(scanError(recordStartOffset, record.ErrTruncatedRecord))
	}

	buf := make([]byte, header.Size())
	copy(buf, headerBytes)
	if _, err := io.ReadFull(s.r, buf[record.HeaderSizeBytes:]); err != nil {
		return s.stop(scanError(recordStartOffset, err))
	}

	key, _, err := record.Decode(buf)
	if err != nil {
		return s.stop(scanError(recordStartOffset, err))
	}

	s.key = key
	s.pos = recordStartOffset
	s.size = header.Size()
	s.offset += header.Size()
	return true
}

func (s *Scanner) stop(err error) bool {
	s.err = err
	s.done = true
	return false
}

func scanError(offset int64, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = record.ErrTruncatedRecord
	}
	return fmt.Errorf("scan record at offset %d: %w", offset, err)
}

// Key returns the key of the current record.
func (s *Scanner) Key() string { return s.key }

// Offset returns the file offset of the current record.
func (s *Scanner) Offset() int64 { return s.pos }

// Size returns the encoded size of the current record.
func (s *Scanner) Size() int64 { return s.size }

// Err returns the error that stopped the scan, if any.
func (s *Scanner) Err() error { return s.err }
