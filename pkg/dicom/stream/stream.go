// Package stream provides the cursor based byte reader the DICOM element reader
// is built on. Byte order is supplied per call, so a Reader carries no endian state.
package stream

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// Reader reads from an in-memory byte range
type Reader struct {
	buf []byte
	off int
}

// NewReader creates a Reader over b. The slice is not copied.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// End returns true once every byte of the range has been consumed
func (r *Reader) End() bool {
	return r.off >= len(r.buf)
}

// Len returns the number of unread bytes
func (r *Reader) Len() int {
	return len(r.buf) - r.off
}

// Offset returns the cursor position relative to the start of the range
func (r *Reader) Offset() int {
	return r.off
}

// Seek moves the cursor to an absolute position within the range
func (r *Reader) Seek(off int) error {
	if off < 0 || off > len(r.buf) {
		return fmt.Errorf("seek to %d outside range of %d bytes", off, len(r.buf))
	}
	r.off = off
	return nil
}

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || n > r.Len() {
		return nil, fmt.Errorf("reading %d bytes at offset %d (%d left): %w", n, r.off, r.Len(), io.ErrUnexpectedEOF)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// Skip advances the cursor by n bytes
func (r *Reader) Skip(n int) error {
	_, err := r.take(n)
	return err
}

// Bytes returns a copy of the next n bytes
func (r *Reader) Bytes(n int) ([]byte, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(b), nil
}

// ASCII reads n bytes as a string without any character set conversion
func (r *Reader) ASCII(n int) (string, error) {
	b, err := r.take(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Uint16 reads a 16 bit unsigned integer
func (r *Reader) Uint16(order binary.ByteOrder) (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return order.Uint16(b), nil
}

// Uint32 reads a 32 bit unsigned integer
func (r *Reader) Uint32(order binary.ByteOrder) (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return order.Uint32(b), nil
}

// Uint64 reads a 64 bit unsigned integer
func (r *Reader) Uint64(order binary.ByteOrder) (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return order.Uint64(b), nil
}

// More returns a Reader over the next n bytes and advances past them
func (r *Reader) More(n int) (*Reader, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	return NewReader(b), nil
}

// Inflate returns a Reader over the decompressed remainder of r and consumes r.
// Deflated transfer syntaxes carry raw deflate data with no zlib header.
func Inflate(r *Reader) (*Reader, error) {
	rest, _ := r.take(r.Len())
	fr := flate.NewReader(bytes.NewReader(rest))
	defer fr.Close()
	data, err := io.ReadAll(fr)
	if err != nil {
		return nil, fmt.Errorf("inflating dataset: %w", err)
	}
	return NewReader(data), nil
}

// Deflate wraps w with a raw deflate compressor. Close flushes the compressed stream.
func Deflate(w io.Writer) (io.WriteCloser, error) {
	return flate.NewWriter(w, flate.DefaultCompression)
}
