package qoi

import (
	"bufio"
	"fmt"
	"image"
	"io"
)

// chunkWriter receives chunks in stream order.
type chunkWriter interface {
	writeChunk(c chunk) error
}

// packer serializes each chunk as soon as it is produced.
type packer struct {
	w   *bufio.Writer
	tmp [5]byte
}

func (p *packer) writeChunk(c chunk) error {
	_, err := p.w.Write(c.appendTo(p.tmp[:0]))
	return err
}

type encoder struct {
	cw    chunkWriter
	state state
	run   int
}

func newEncoder(cw chunkWriter) *encoder {
	return &encoder{
		cw:    cw,
		state: newState(),
	}
}

// push encodes the next pixel, last must be set for the final pixel of the
// image so a pending run is written out.
func (e *encoder) push(p Pixel, last bool) error {
	if p == e.state.prev {
		e.state.repeat()
		e.run++
		if e.run == maxRun || last {
			return e.flush()
		}
		return nil
	}

	if err := e.flush(); err != nil {
		return err
	}

	if e.state.cache.lookup(p) {
		e.state.indexed(p)
		return e.cw.writeChunk(indexChunk(p))
	}

	c := deltaChunk(e.state.prev, p)
	e.state.fresh(p)

	return e.cw.writeChunk(c)
}

func (e *encoder) flush() error {
	if e.run == 0 {
		return nil
	}
	c := runChunk(e.run)
	e.run = 0
	return e.cw.writeChunk(c)
}

func encodeChunks(cw chunkWriter, pixels []Pixel) error {
	e := newEncoder(cw)
	for i, p := range pixels {
		if err := e.push(p, i == len(pixels)-1); err != nil {
			return err
		}
	}
	return nil
}

// EncodePixels writes pixels, in row-major order, to w as a QOI stream
// described by h.
func EncodePixels(w io.Writer, h Header, pixels []Pixel) error {
	header, err := h.MarshalBinary()
	if err != nil {
		return err
	}
	if len(pixels) != h.Pixels() {
		return fmt.Errorf("%w: header declares %d, got %d", ErrPixelCountMismatch, h.Pixels(), len(pixels))
	}

	bw := bufio.NewWriter(w)

	if _, err := bw.Write(header); err != nil {
		return err
	}

	if err := encodeChunks(&packer{w: bw}, pixels); err != nil {
		return err
	}

	if _, err := bw.Write(endMarker[:]); err != nil {
		return err
	}

	return bw.Flush()
}

// Encoder configures encoding of an image.Image.
type Encoder struct {
	// Channels is written to the header. The zero value picks RGB when
	// every pixel is opaque and RGBA otherwise.
	Channels Channels
	// Colorspace is written to the header
	Colorspace Colorspace
}

// Encode writes the Image m to w in QOI format.
func (enc *Encoder) Encode(w io.Writer, m image.Image) error {
	b := m.Bounds()
	h := Header{
		Width:      uint32(b.Dx()),
		Height:     uint32(b.Dy()),
		Channels:   enc.Channels,
		Colorspace: enc.Colorspace,
	}
	if h.Channels == 0 {
		h.Channels = RGBA
	}
	if err := h.validate(); err != nil {
		return err
	}

	pixels, opaque := imagePixels(m)
	if enc.Channels == 0 && opaque {
		h.Channels = RGB
	}

	return EncodePixels(w, h, pixels)
}

// Encode writes the Image m to w in QOI format using the default Encoder.
func Encode(w io.Writer, m image.Image) error {
	var enc Encoder
	return enc.Encode(w, m)
}

// imagePixels flattens m into row-major pixels and reports whether all of
// them are opaque.
func imagePixels(m image.Image) ([]Pixel, bool) {
	b := m.Bounds()
	pixels := make([]Pixel, 0, b.Dx()*b.Dy())
	opaque := true

	if nm, ok := m.(*image.NRGBA); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := nm.PixOffset(b.Min.X, y)
			row := nm.Pix[off : off+b.Dx()*4]
			for i := 0; i < len(row); i += 4 {
				p := Pixel{row[i], row[i+1], row[i+2], row[i+3]}
				opaque = opaque && p.A == 0xff
				pixels = append(pixels, p)
			}
		}
		return pixels, opaque
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p := pixelFromColor(m.At(x, y))
			opaque = opaque && p.A == 0xff
			pixels = append(pixels, p)
		}
	}

	return pixels, opaque
}
