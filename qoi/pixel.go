package qoi

import "image/color"

// Pixel is a single non-premultiplied RGBA value.
type Pixel struct {
	R, G, B, A uint8
}

// startPixel is the previous pixel at the start of every stream.
var startPixel = Pixel{A: 0xff}

// PixelFromUint32 unpacks a pixel stored as a little-endian word, so red is
// the lowest byte and alpha the highest.
func PixelFromUint32(v uint32) Pixel {
	return Pixel{
		R: uint8(v),
		G: uint8(v >> 8),
		B: uint8(v >> 16),
		A: uint8(v >> 24),
	}
}

// NRGBA returns p as a color.NRGBA.
func (p Pixel) NRGBA() color.NRGBA {
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A}
}

// hash picks the cache slot for p, wrapping in 8 bits is harmless as 64
// divides 256.
func (p Pixel) hash() uint8 {
	return (p.R*3 + p.G*5 + p.B*7 + p.A*11) % cacheSize
}

func pixelFromColor(c color.Color) Pixel {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Pixel{n.R, n.G, n.B, n.A}
}
