package dicom

import (
	"encoding/binary"
	"errors"
	"log/slog"

	"github.com/jpfielding/dcmcodec/pkg/dicom/charset"
	"github.com/jpfielding/dcmcodec/pkg/dicom/transfer"
)

type loopControl int

const (
	next loopControl = iota
	stopBefore
	stopAfter
)

const undefinedLength = 0xFFFFFFFF

// parseContext carries the framing and character set state of one parse.
// Nested reads derive a child instead of mutating the parent.
type parseContext struct {
	syntax   transfer.Syntax
	implicit bool
	order    binary.ByteOrder
	decoder  *charset.Decoder
	opts     ReadOptions
	log      *slog.Logger
}

func newParseContext(uid string, opts ReadOptions) *parseContext {
	pc := &parseContext{
		decoder: charset.NewDecoder(),
		opts:    opts,
		log:     opts.logger(),
	}
	pc.frame(uid)
	return pc
}

func (pc *parseContext) frame(uid string) {
	desc := transfer.Describe(uid)
	pc.syntax = transfer.Normalize(uid)
	pc.implicit = desc.ImplicitVR
	pc.order = desc.ByteOrder()
}

// nested returns a context for sequence items, which never stop early
func (pc *parseContext) nested() *parseContext {
	child := *pc
	child.opts.UntilTag = nil
	child.opts.IncludeUntilTagValue = false
	return &child
}

// reframe returns a nested context using a different transfer syntax,
// sharing the character set decoder
func (pc *parseContext) reframe(uid transfer.Syntax) *parseContext {
	child := pc.nested()
	child.frame(string(uid))
	return child
}

// tolerate drops a recoverable error with a warning when errors are ignored
func (pc *parseContext) tolerate(err error) error {
	var rec *RecoverableError
	if !pc.opts.IgnoreErrors || !errors.As(err, &rec) {
		return err
	}
	pc.log.Warn("ignoring error", "error", err)
	return nil
}
