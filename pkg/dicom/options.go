package dicom

import (
	"log/slog"

	"github.com/jpfielding/dcmcodec/pkg/dicom/tag"
)

// ReadOptions controls how a byte range is decoded
type ReadOptions struct {
	// IgnoreErrors downgrades character set errors to warnings and returns the
	// elements read so far when an element cannot be decoded
	IgnoreErrors bool
	// UntilTag stops the dataset loop when this tag is reached
	UntilTag *tag.Tag
	// IncludeUntilTagValue reads the UntilTag element before stopping
	IncludeUntilTagValue bool
	// Logger receives warnings, slog.Default() when nil
	Logger *slog.Logger
}

func (o ReadOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// WriteOptions controls how a dictionary is encoded
type WriteOptions struct {
	// AllowInvalidVRLength writes edited text components longer than their VR permits
	AllowInvalidVRLength bool
}
