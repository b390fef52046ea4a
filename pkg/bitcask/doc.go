// Package bitcask provides a minimal log-structured key-value store kept in a
// single append-only file.
//
// Every Set appends a checksummed record to the log and points an in-memory
// index at it. Get follows the index to the record. Superseded records stay in
// the file until Compact rewrites it with one record per key.
//
// Example:
//
//	bk, err := bitcask.Open("data.log")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer bk.Close()
//
//	err = bk.Set("foo", "bar")
//	val, err := bk.Get("foo")
//
// A Bitcask is safe for concurrent use by multiple goroutines, but only one
// process may use a log file at a time.
package bitcask
