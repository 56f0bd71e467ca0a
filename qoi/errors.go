package qoi

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrMalformedHeader is returned for a bad magic, a zero dimension or
	// an invalid channel or colorspace byte
	ErrMalformedHeader = errors.New("qoi: malformed header")
	// ErrTruncatedStream is returned when the input ends part way through
	// a chunk or before enough pixels have been decoded
	ErrTruncatedStream = errors.New("qoi: truncated stream")
	// ErrMissingEndMarker is returned when the stream does not finish with
	// the exact end marker
	ErrMissingEndMarker = errors.New("qoi: missing end marker")
	// ErrPixelCountMismatch is returned when the number of pixels doesn't
	// agree with the dimensions in the header
	ErrPixelCountMismatch = errors.New("qoi: pixel count mismatch")
)

// extraChunkError is returned when another chunk sits where the end marker
// should be. The stream both lacks its marker and holds more pixels than the
// header allows, so it matches ErrMissingEndMarker and ErrPixelCountMismatch.
type extraChunkError struct {
	tag    byte
	pixels int
}

func (e *extraChunkError) Error() string {
	return fmt.Sprintf("%v: chunk %#02x after %d pixels instead of the end marker", ErrPixelCountMismatch, e.tag, e.pixels)
}

func (e *extraChunkError) Is(target error) bool {
	return target == ErrPixelCountMismatch || target == ErrMissingEndMarker
}

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

func isShort(err error) bool {
	return err == io.EOF || err == io.ErrUnexpectedEOF
}
