package dicom

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/jpfielding/dcmcodec/pkg/dicom/stream"
	"github.com/jpfielding/dcmcodec/pkg/dicom/tag"
	"github.com/jpfielding/dcmcodec/pkg/dicom/transfer"
	"github.com/jpfielding/dcmcodec/pkg/dicom/vr"
)

const (
	preambleSize = 128
	magic        = "DICM"
)

// File is a decoded Part 10 file. Meta holds the File Meta Information
// without its group length, which is recomputed on write.
type File struct {
	Preamble [preambleSize]byte
	Meta     Dict
	Dataset  Dict
}

// TransferSyntax returns the dataset transfer syntax UID from the meta group
func (f *File) TransferSyntax() string {
	uid, _ := StringValue(f.Meta, tag.TransferSyntaxUID)
	return uid
}

// ReadFile reads a Part 10 file from disk
func ReadFile(path string, opts ReadOptions) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ReadBuffer(data, opts)
}

// Read reads a Part 10 file from r
func Read(r io.Reader, opts ReadOptions) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ReadBuffer(data, opts)
}

// ReadBuffer decodes a Part 10 file. The meta group is read with the same
// error policy as the dataset; UntilTag applies to the dataset only.
func ReadBuffer(data []byte, opts ReadOptions) (*File, error) {
	r := stream.NewReader(data)
	f := &File{}

	preamble, err := r.Bytes(preambleSize)
	if err != nil {
		return nil, malformed("missing preamble: %v", err)
	}
	copy(f.Preamble[:], preamble)
	if m, err := r.ASCII(len(magic)); err != nil || m != magic {
		return nil, malformed("missing %s prefix", magic)
	}

	mpc := newParseContext(string(transfer.ExplicitVRLittleEndian), ReadOptions{
		IgnoreErrors: opts.IgnoreErrors,
		Logger:       opts.Logger,
	})
	el, _, err := readElement(r, mpc)
	if err != nil {
		return nil, malformed("reading meta group length: %v", err)
	}
	if el.Tag != tag.FileMetaInformationGroupLength || len(el.Values) != 1 {
		return nil, malformed("expected %s first, found %s", tag.FileMetaInformationGroupLength, el.Tag)
	}
	length, ok := el.Values[0].(uint32)
	if !ok {
		return nil, malformed("meta group length is %s, not UL", el.VR)
	}
	sub, err := r.More(int(length))
	if err != nil {
		return nil, malformed("meta group of %d bytes: %v", length, err)
	}
	if f.Meta, err = readDict(sub, mpc); err != nil {
		return nil, fmt.Errorf("reading meta group: %w", err)
	}

	uid := f.TransferSyntax()
	if uid == "" {
		return nil, malformed("meta group has no %s", tag.TransferSyntaxUID)
	}
	if transfer.IsDeflated(uid) {
		if r, err = stream.Inflate(r); err != nil {
			return nil, err
		}
	}
	pc := newParseContext(uid, opts)
	if f.Dataset, err = readDict(r, pc); err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	return f, nil
}

// WriteFile writes f to path
func WriteFile(path string, f *File, opts WriteOptions) (int64, error) {
	out, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := f.Write(out, opts)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return n, err
}

// Write encodes the preamble, the meta group with a recomputed group length,
// and the dataset in the meta transfer syntax
func (f *File) Write(w io.Writer, opts WriteOptions) (int64, error) {
	uid := f.TransferSyntax()
	if uid == "" {
		return 0, malformed("meta group has no %s", tag.TransferSyntaxUID)
	}
	cw := &CountingWriter{Writer: w}
	if _, err := cw.Write(f.Preamble[:]); err != nil {
		return cw.Count.Load(), err
	}
	if _, err := io.WriteString(cw, magic); err != nil {
		return cw.Count.Load(), err
	}

	metaEC := newEncodeContext(string(transfer.ExplicitVRLittleEndian), opts)
	meta := make(Dict, len(f.Meta))
	for k, e := range f.Meta {
		meta[k] = e
	}
	delete(meta, tag.FileMetaInformationGroupLength.Key())
	var buf bytes.Buffer
	if err := writeDict(&buf, meta, metaEC); err != nil {
		return cw.Count.Load(), fmt.Errorf("writing meta group: %w", err)
	}
	groupLength := NewEntry(vr.UL, uint32(buf.Len()))
	if err := writeElement(cw, tag.FileMetaInformationGroupLength, groupLength, metaEC); err != nil {
		return cw.Count.Load(), err
	}
	if _, err := cw.Write(buf.Bytes()); err != nil {
		return cw.Count.Load(), err
	}

	ec := newEncodeContext(uid, opts)
	if !ec.desc.Deflated {
		err := writeDict(cw, f.Dataset, ec)
		return cw.Count.Load(), err
	}
	zw, err := stream.Deflate(cw)
	if err != nil {
		return cw.Count.Load(), err
	}
	if err := writeDict(zw, f.Dataset, ec); err != nil {
		zw.Close()
		return cw.Count.Load(), err
	}
	err = zw.Close()
	return cw.Count.Load(), err
}
