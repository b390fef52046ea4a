// Package datafile implements the append-only log file that holds records.
//
// A DataFile keeps one handle open for its lifetime. Writes are positional
// appends at the tracked end offset, reads use pread and may run concurrently
// with each other; callers serialize appends.
package datafile

import (
	"fmt"
	"io"
	"os"

	"github.com/0xRadioAc7iv/minicask/internal/record"
	"github.com/0xRadioAc7iv/minicask/internal/utils"
)

const fileMode = 0644

type DataFile struct {
	f          *os.File
	path       string
	writeOff   int64
	syncWrites bool
}

// Open opens the log at path for reading and appending, creating it if it
// does not exist. New records are written after the current end of file.
func Open(path string, syncWrites bool) (*DataFile, error) {
	return open(path, os.O_CREATE|os.O_RDWR, syncWrites)
}

// Create opens the log at path, discarding any existing contents.
func Create(path string, syncWrites bool) (*DataFile, error) {
	return open(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, syncWrites)
}

func open(path string, flag int, syncWrites bool) (*DataFile, error) {
	f, err := os.OpenFile(path, flag, fileMode)
	if err != nil {
		return nil, err
	}

	// Sets the offset to the end of the file
	offset, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &DataFile{
		f:          f,
		path:       path,
		writeOff:   offset,
		syncWrites: syncWrites,
	}, nil
}

// Append writes data as a single write at the end of the file and returns the
// offset it was written at. A failed write or sync is rolled back so the file
// never ends in a partial record.
func (df *DataFile) Append(data []byte) (int64, error) {
	offset := df.writeOff

	if _, err := df.f.WriteAt(data, offset); err != nil {
		return 0, df.rollback(offset, err)
	}

	if df.syncWrites {
		if err := df.f.Sync(); err != nil {
			return 0, df.rollback(offset, err)
		}
	}

	df.writeOff += int64(len(data))
	return offset, nil
}

func (df *DataFile) rollback(offset int64, cause error) error {
	if err := utils.TruncateAt(df.f, offset); err != nil {
		return fmt.Errorf("append at offset %d: %w (rollback failed: %v)", offset, cause, err)
	}
	return fmt.Errorf("append at offset %d: %w", offset, cause)
}

// ReadAt returns the raw bytes of the record starting at offset.
func (df *DataFile) ReadAt(offset int64) ([]byte, error) {
	headerBytes := make([]byte, record.HeaderSizeBytes)
	if err := df.readFull(headerBytes, offset); err != nil {
		return nil, err
	}

	header, err := record.DecodeHeader(headerBytes)
	if err != nil {
		return nil, err
	}

	if offset+header.Size() > df.writeOff {
		return nil, fmt.Errorf("read at offset %d: record of %d bytes runs past end of file: %w", offset, header.Size(), record.ErrTruncatedRecord)
	}

	buf := make([]byte, header.Size())
	copy(buf, headerBytes)
	if err := df.readFull(buf[record.HeaderSizeBytes:], offset+record.HeaderSizeBytes); err != nil {
		return nil, err
	}

	return buf, nil
}

func (df *DataFile) readFull(buf []byte, offset int64) error {
	n, err := df.f.ReadAt(buf, offset)
	if n == len(buf) {
		return nil
	}
	if err == io.EOF {
		return fmt.Errorf("read at offset %d: wanted %d bytes, got %d: %w", offset, len(buf), n, record.ErrTruncatedRecord)
	}
	return fmt.Errorf("read at offset %d: %w", offset, err)
}

// Scan returns a one-shot iterator over every record in the file, starting at
// offset 0 and stopping at the end of file as it is when Scan is called.
func (df *DataFile) Scan() *Scanner {
	return newScanner(io.NewSectionReader(df.f, 0, df.writeOff), df.writeOff)
}

// Size returns the number of bytes in the file.
func (df *DataFile) Size() int64 {
	return df.writeOff
}

func (df *DataFile) Path() string {
	return df.path
}

func (df *DataFile) Sync() error {
	return df.f.Sync()
}

func (df *DataFile) Close() error {
	return df.f.Close()
}
