// Package iohelper reads HTTP response bodies with size limits.
package iohelper

import "io"

// DefaultMaxBodySize caps pages, feeds, readmes and reference files (2MB).
const DefaultMaxBodySize int64 = 2 * 1024 * 1024

// ReadBody reads from r with a size limit. A nil reader yields an empty slice.
//
// Usage:
//
//	body, err := iohelper.ReadBody(resp.Body, iohelper.DefaultMaxBodySize)
func ReadBody(r io.Reader, maxSize int64) ([]byte, error) {
	if r == nil {
		return []byte{}, nil
	}
	return io.ReadAll(io.LimitReader(r, maxSize))
}

// DrainAndClose discards up to 64KB of what is left in r and closes it, so the
// connection can go back to the pool. It always returns nil for use in defer.
func DrainAndClose(r io.Reader) error {
	if r == nil {
		return nil
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(r, 64*1024))
	if rc, ok := r.(io.ReadCloser); ok {
		rc.Close()
	}
	return nil
}
