package qoi

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
)

// Cap on the initial allocation, the slice grows from there as chunks
// arrive so a lying header can't force a huge allocation up front.
const initialPixels = 1 << 20

type decoder struct {
	r *bufio.Reader

	header Header
	state  state
	pixels []Pixel
}

func (d *decoder) readHeader() error {
	var tmp [headerSize]byte
	if err := readFull(d.r, tmp[:]); err != nil {
		if !isShort(err) {
			return err
		}
		return fmt.Errorf("%w: short header", ErrMalformedHeader)
	}
	return d.header.UnmarshalBinary(tmp[:])
}

// apply mirrors encoder.push: indexed pixels leave the cache alone,
// everything else is stored.
func (d *decoder) apply(c chunk) error {
	want := d.header.Pixels()

	if c.op == opRun {
		if len(d.pixels)+c.run > want {
			return fmt.Errorf("%w: run of %d overflows %d pixels", ErrPixelCountMismatch, c.run, want)
		}
		p := d.state.repeat()
		for i := 0; i < c.run; i++ {
			d.pixels = append(d.pixels, p)
		}
		return nil
	}

	p := c.pixel(&d.state)
	if c.op == opIndex {
		d.state.indexed(p)
	} else {
		d.state.fresh(p)
	}
	d.pixels = append(d.pixels, p)

	return nil
}

func (d *decoder) readPixels() error {
	want := d.header.Pixels()
	n := want
	if n > initialPixels {
		n = initialPixels
	}
	d.pixels = make([]Pixel, 0, n)
	d.state = newState()

	for len(d.pixels) < want {
		c, err := readChunk(d.r)
		if err != nil {
			if !isShort(err) {
				return err
			}
			return fmt.Errorf("%w: %d of %d pixels decoded", ErrTruncatedStream, len(d.pixels), want)
		}
		if err := d.apply(c); err != nil {
			return err
		}
	}

	return nil
}

func (d *decoder) readEndMarker() error {
	var tmp [len(endMarker)]byte
	if err := readFull(d.r, tmp[:]); err != nil {
		if !isShort(err) {
			return err
		}
		return fmt.Errorf("%w: stream ended", ErrMissingEndMarker)
	}
	if tmp != endMarker {
		// The marker opens with a zero byte, anything else is another chunk
		if tmp[0] != endMarker[0] {
			return &extraChunkError{tag: tmp[0], pixels: len(d.pixels)}
		}
		return fmt.Errorf("%w: got % x", ErrMissingEndMarker, tmp)
	}
	return nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	if br, ok := r.(*bufio.Reader); ok {
		d.r = br
	} else {
		d.r = bufio.NewReader(r)
	}

	if err := d.readHeader(); err != nil {
		return err
	}

	if configOnly {
		return nil
	}

	if err := d.readPixels(); err != nil {
		return err
	}

	return d.readEndMarker()
}

// DecodeHeader reads just the header of a QOI stream.
func DecodeHeader(r io.Reader) (Header, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return Header{}, err
	}
	return d.header, nil
}

// DecodePixels reads a QOI stream from r and returns its header and pixels
// in row-major order.
func DecodePixels(r io.Reader) (Header, []Pixel, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return Header{}, nil, err
	}
	return d.header, d.pixels, nil
}

// Decode reads a QOI image from r and returns it as an image.Image.
func Decode(r io.Reader) (image.Image, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}

	m := image.NewNRGBA(image.Rect(0, 0, int(d.header.Width), int(d.header.Height)))
	for i, p := range d.pixels {
		pix := m.Pix[i*4 : i*4+4 : i*4+4]
		pix[0] = p.R
		pix[1] = p.G
		pix[2] = p.B
		pix[3] = p.A
	}

	return m, nil
}

// DecodeConfig returns the color model and dimensions of a QOI image
// without decoding the entire image.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(d.header.Width),
		Height:     int(d.header.Height),
	}, nil
}
