package qoi

import (
	"encoding/binary"
	"fmt"
)

// Channels records whether the source image had an alpha channel. It does
// not change how pixels are encoded.
type Channels uint8

// Colorspace is passed through untouched.
type Colorspace uint8

const (
	RGB  Channels = 3
	RGBA Channels = 4
)

const (
	// SRGB is sRGB with linear alpha
	SRGB Colorspace = 0
	// Linear means all channels are linear
	Linear Colorspace = 1
)

// Header describes a QOI image. It implements the encoding.BinaryMarshaler
// and encoding.BinaryUnmarshaler interfaces.
type Header struct {
	Width      uint32
	Height     uint32
	Channels   Channels
	Colorspace Colorspace
}

// Pixels returns the number of pixels the header declares.
func (h Header) Pixels() int {
	return int(uint64(h.Width) * uint64(h.Height))
}

func (h Header) validate() error {
	switch {
	case h.Width == 0 || h.Height == 0:
		return fmt.Errorf("%w: zero dimension %dx%d", ErrMalformedHeader, h.Width, h.Height)
	case uint64(h.Width)*uint64(h.Height) > maxPixels:
		return fmt.Errorf("%w: %dx%d is more than %d pixels", ErrMalformedHeader, h.Width, h.Height, maxPixels)
	case h.Channels != RGB && h.Channels != RGBA:
		return fmt.Errorf("%w: invalid channels %d", ErrMalformedHeader, h.Channels)
	case h.Colorspace != SRGB && h.Colorspace != Linear:
		return fmt.Errorf("%w: invalid colorspace %d", ErrMalformedHeader, h.Colorspace)
	}
	return nil
}

// MarshalBinary encodes the header into its 14 byte form
func (h Header) MarshalBinary() ([]byte, error) {
	if err := h.validate(); err != nil {
		return nil, err
	}

	b := make([]byte, headerSize)
	copy(b, Magic)
	binary.BigEndian.PutUint32(b[4:], h.Width)
	binary.BigEndian.PutUint32(b[8:], h.Height)
	b[12] = byte(h.Channels)
	b[13] = byte(h.Colorspace)

	return b, nil
}

// UnmarshalBinary decodes the header from its 14 byte form
func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) != headerSize {
		return fmt.Errorf("%w: %d bytes", ErrMalformedHeader, len(b))
	}
	if string(b[:4]) != Magic {
		return fmt.Errorf("%w: bad magic %q", ErrMalformedHeader, b[:4])
	}

	tmp := Header{
		Width:      binary.BigEndian.Uint32(b[4:]),
		Height:     binary.BigEndian.Uint32(b[8:]),
		Channels:   Channels(b[12]),
		Colorspace: Colorspace(b[13]),
	}
	if err := tmp.validate(); err != nil {
		return err
	}
	*h = tmp

	return nil
}
